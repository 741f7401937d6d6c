package main

import (
	"encoding/json"
	"fmt"
	"image"
)

// Direction is a facing in the fixed four-way direction set. The constants
// double as the wire spelling.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// validDirection reports whether s names a known direction.
func validDirection(s string) bool {
	switch Direction(s) {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// Outbound intents. Each action gets its own record so a message can never
// carry fields its action does not use.

type joinMsg struct {
	Action   string `json:"action"`
	Username string `json:"username"`
}

type moveDirMsg struct {
	Action    string `json:"action"`
	Direction string `json:"direction"`
}

type movePointMsg struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type stopMsg struct {
	Action string `json:"action"`
}

type chatMsg struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

func newJoinMsg(username string) joinMsg { return joinMsg{Action: "join", Username: username} }

func newMoveDirMsg(d Direction) moveDirMsg {
	return moveDirMsg{Action: "move", Direction: string(d)}
}

func newMovePointMsg(x, y int) movePointMsg { return movePointMsg{Action: "move", X: x, Y: y} }

func newStopMsg() stopMsg { return stopMsg{Action: "stop"} }

func newChatMsg(message string) chatMsg { return chatMsg{Action: "chat", Message: message} }

// Inbound wire records. Required fields are pointers so absence is
// distinguishable from a zero value; a record missing a required field is
// dropped with a warning, never a fatal error.

type wirePlayer struct {
	ID       *string  `json:"id"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Facing   *string  `json:"facing"`
	Frame    *int     `json:"frame"`
	Username *string  `json:"username"`
	Avatar   *string  `json:"avatar"`
	Moving   *bool    `json:"moving"`
}

type wireAvatar struct {
	Frames map[string][]string `json:"frames"`
}

type inEnvelope struct {
	Action   string                `json:"action"`
	Success  *bool                 `json:"success"`
	Error    string                `json:"error"`
	PlayerID string                `json:"playerId"`
	Players  map[string]wirePlayer `json:"players"`
	Avatars  map[string]wireAvatar `json:"avatars"`
	Player   *wirePlayer           `json:"player"`
	Avatar   *wireAvatar           `json:"avatar"`
	Message  string                `json:"message"`
}

// decodeEntity validates a wire player record against the id it was keyed
// under (which wins over any embedded id) and converts it to an Entity.
func decodeEntity(id string, w wirePlayer) (Entity, error) {
	var e Entity
	if id == "" {
		if w.ID == nil || *w.ID == "" {
			return e, fmt.Errorf("player record missing id")
		}
		id = *w.ID
	}
	if w.X == nil || w.Y == nil {
		return e, fmt.Errorf("player %q missing position", id)
	}
	e = Entity{
		ID:     id,
		X:      *w.X,
		Y:      *w.Y,
		Facing: DirDown,
	}
	if w.Facing != nil && validDirection(*w.Facing) {
		e.Facing = Direction(*w.Facing)
	}
	if w.Frame != nil {
		e.Frame = *w.Frame
	}
	if w.Username != nil {
		e.Name = *w.Username
	}
	if w.Avatar != nil {
		e.Avatar = *w.Avatar
	}
	if w.Moving != nil {
		e.Moving = *w.Moving
	}
	return e, nil
}

// decodeAvatar converts a wire avatar definition, dropping frame lists keyed
// by unknown directions.
func decodeAvatar(id string, w wireAvatar) (AvatarDef, error) {
	if id == "" {
		return AvatarDef{}, fmt.Errorf("avatar definition missing id")
	}
	def := AvatarDef{ID: id, Frames: make(map[Direction][]string)}
	for dir, srcs := range w.Frames {
		if !validDirection(dir) {
			logWarn("avatar %q: unknown direction %q", id, dir)
			continue
		}
		def.Frames[Direction(dir)] = srcs
	}
	if len(def.Frames) == 0 {
		return AvatarDef{}, fmt.Errorf("avatar %q has no frames", id)
	}
	return def, nil
}

// Inbound events. The read pump and the asset fetchers produce these; the
// client consumes them one at a time on the update tick.

type joinResult struct {
	ok       bool
	reason   string
	playerID string
	players  []Entity
	avatars  []AvatarDef
}

type playersUpdate struct {
	players []Entity
}

type playerJoined struct {
	player Entity
	avatar *AvatarDef
}

type playerLeft struct {
	id string
}

type chatEvent struct {
	id   string
	text string
}

type assetLoaded struct {
	avatar string
	dir    Direction
	idx    int
	img    image.Image // nil when the fetch failed
	err    error
	size   int // fetched bytes, for logging
}

type disconnected struct {
	err error
}

type event interface{}

// errUnknownAction marks a recognized-shape message with an action this
// client does not handle; callers log and move on.
type errUnknownAction struct{ action string }

func (e errUnknownAction) Error() string { return fmt.Sprintf("unknown action %q", e.action) }

// decodeInbound parses one server message into an event. Malformed JSON or
// missing required fields yield an error and no event; batch records that
// fail validation individually are skipped so the rest of the batch still
// applies.
func decodeInbound(raw []byte) (event, error) {
	var env inEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	switch env.Action {
	case "join":
		if env.Success == nil {
			return nil, fmt.Errorf("join result missing success flag")
		}
		if !*env.Success {
			reason := env.Error
			if reason == "" {
				reason = "join refused"
			}
			return joinResult{ok: false, reason: reason}, nil
		}
		if env.PlayerID == "" {
			return nil, fmt.Errorf("join result missing playerId")
		}
		ev := joinResult{ok: true, playerID: env.PlayerID}
		for id, w := range env.Players {
			e, err := decodeEntity(id, w)
			if err != nil {
				logWarn("join: %v", err)
				continue
			}
			ev.players = append(ev.players, e)
		}
		for id, w := range env.Avatars {
			def, err := decodeAvatar(id, w)
			if err != nil {
				logWarn("join: %v", err)
				continue
			}
			ev.avatars = append(ev.avatars, def)
		}
		return ev, nil

	case "players":
		if env.Players == nil {
			return nil, fmt.Errorf("players update missing player set")
		}
		var ev playersUpdate
		for id, w := range env.Players {
			e, err := decodeEntity(id, w)
			if err != nil {
				logWarn("players: %v", err)
				continue
			}
			ev.players = append(ev.players, e)
		}
		return ev, nil

	case "playerJoined":
		if env.Player == nil {
			return nil, fmt.Errorf("playerJoined missing player record")
		}
		e, err := decodeEntity("", *env.Player)
		if err != nil {
			return nil, fmt.Errorf("playerJoined: %w", err)
		}
		ev := playerJoined{player: e}
		if env.Avatar != nil {
			def, err := decodeAvatar(e.Avatar, *env.Avatar)
			if err != nil {
				logWarn("playerJoined: %v", err)
			} else {
				ev.avatar = &def
			}
		}
		return ev, nil

	case "playerLeft":
		if env.PlayerID == "" {
			return nil, fmt.Errorf("playerLeft missing playerId")
		}
		return playerLeft{id: env.PlayerID}, nil

	case "chat":
		if env.PlayerID == "" {
			return nil, fmt.Errorf("chat missing playerId")
		}
		return chatEvent{id: env.PlayerID, text: env.Message}, nil
	}
	return nil, errUnknownAction{action: env.Action}
}
