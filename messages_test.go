package main

import (
	"errors"
	"testing"
)

func TestDecodeJoinSuccess(t *testing.T) {
	raw := []byte(`{
		"action": "join", "success": true, "playerId": "p1",
		"players": {
			"p1": {"x": 100, "y": 100, "facing": "down", "frame": 0, "username": "alice", "avatar": "fox", "moving": false},
			"p2": {"x": 5, "y": 9, "facing": "left", "username": "bob", "avatar": "owl", "moving": true}
		},
		"avatars": {
			"fox": {"frames": {"up": ["u0.png"], "down": ["d0.png", "d1.png"], "left": ["l0.png"], "right": ["r0.png"]}}
		}
	}`)
	ev, err := decodeInbound(raw)
	if err != nil {
		t.Fatalf("decodeInbound: %v", err)
	}
	jr, ok := ev.(joinResult)
	if !ok {
		t.Fatalf("expected joinResult, got %T", ev)
	}
	if !jr.ok || jr.playerID != "p1" {
		t.Fatalf("unexpected result %+v", jr)
	}
	if len(jr.players) != 2 || len(jr.avatars) != 1 {
		t.Fatalf("got %d players, %d avatars", len(jr.players), len(jr.avatars))
	}
	if len(jr.avatars[0].Frames[DirDown]) != 2 {
		t.Fatalf("avatar frames not decoded: %+v", jr.avatars[0])
	}
}

func TestDecodeJoinFailure(t *testing.T) {
	ev, err := decodeInbound([]byte(`{"action":"join","success":false,"error":"name taken"}`))
	if err != nil {
		t.Fatalf("decodeInbound: %v", err)
	}
	jr := ev.(joinResult)
	if jr.ok || jr.reason != "name taken" {
		t.Fatalf("unexpected result %+v", jr)
	}
}

func TestDecodeDropsBadMessages(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"action":`},
		{"join without success", `{"action":"join","playerId":"p1"}`},
		{"join success without id", `{"action":"join","success":true}`},
		{"players without set", `{"action":"players"}`},
		{"playerJoined without record", `{"action":"playerJoined"}`},
		{"playerJoined without position", `{"action":"playerJoined","player":{"id":"p3"}}`},
		{"playerLeft without id", `{"action":"playerLeft"}`},
		{"chat without id", `{"action":"chat","message":"hi"}`},
	}
	for _, tc := range cases {
		if _, err := decodeInbound([]byte(tc.raw)); err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
	}
}

func TestDecodeUnknownActionIsIsolated(t *testing.T) {
	_, err := decodeInbound([]byte(`{"action":"teleport"}`))
	var unk errUnknownAction
	if !errors.As(err, &unk) {
		t.Fatalf("expected errUnknownAction, got %v", err)
	}
}

func TestDecodeSkipsInvalidBatchRecords(t *testing.T) {
	raw := []byte(`{
		"action": "players",
		"players": {
			"good": {"x": 1, "y": 2},
			"bad": {"x": 3}
		}
	}`)
	ev, err := decodeInbound(raw)
	if err != nil {
		t.Fatalf("decodeInbound: %v", err)
	}
	pu := ev.(playersUpdate)
	if len(pu.players) != 1 || pu.players[0].ID != "good" {
		t.Fatalf("expected only the valid record, got %+v", pu.players)
	}
}

func TestDecodeEntityDefaultsAndKeyWins(t *testing.T) {
	x, y := 1.0, 2.0
	other := "other"
	e, err := decodeEntity("keyed", wirePlayer{ID: &other, X: &x, Y: &y})
	if err != nil {
		t.Fatalf("decodeEntity: %v", err)
	}
	if e.ID != "keyed" {
		t.Fatalf("map key should win over embedded id, got %q", e.ID)
	}
	if e.Facing != DirDown {
		t.Fatalf("missing facing should default down, got %q", e.Facing)
	}
}

func TestDecodeAvatarRejectsEmpty(t *testing.T) {
	if _, err := decodeAvatar("fox", wireAvatar{}); err == nil {
		t.Fatal("avatar without frames should be rejected")
	}
	if _, err := decodeAvatar("", wireAvatar{Frames: map[string][]string{"up": {"a"}}}); err == nil {
		t.Fatal("avatar without id should be rejected")
	}
}
