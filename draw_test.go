package main

import "testing"

func TestMinimapScaleUniform(t *testing.T) {
	// Square world in a square minimap: both axes match.
	if s := minimapScale(160, 160, 2048, 2048); s != 160.0/2048.0 {
		t.Fatalf("scale = %v", s)
	}
	// Wide world: the x axis dictates the factor for both axes.
	if s := minimapScale(160, 160, 4096, 1024); s != 160.0/4096.0 {
		t.Fatalf("scale = %v", s)
	}
	// Tall world: the y axis dictates it.
	if s := minimapScale(160, 160, 1024, 4096); s != 160.0/4096.0 {
		t.Fatalf("scale = %v", s)
	}
}

func TestEntityCulling(t *testing.T) {
	viewW, viewH := 800, 600
	cases := []struct {
		name   string
		x, y   float64
		culled bool
	}{
		{"center", 400, 300, false},
		{"on edge", 0, 0, false},
		{"just outside", -49, 300, false},
		{"past margin left", -51, 300, true},
		{"past margin bottom", 400, 651, true},
		{"inside margin right", 849, 300, false},
		{"far away", 2000, 2000, true},
	}
	for _, tc := range cases {
		if got := culled(tc.x, tc.y, viewW, viewH, entityCullMargin); got != tc.culled {
			t.Fatalf("%s: culled = %v, want %v", tc.name, got, tc.culled)
		}
	}
}

func TestBannerText(t *testing.T) {
	c, _ := newTestClient()
	c.username = "alice"
	c.joined = false
	if got := bannerText(c); got != "joining as alice..." {
		t.Fatalf("banner = %q", got)
	}
	c.joinErr = "full"
	if got := bannerText(c); got != "join failed: full" {
		t.Fatalf("banner = %q", got)
	}
	c.joinErr = ""
	c.connected = false
	if got := bannerText(c); got != "connection lost" {
		t.Fatalf("banner = %q", got)
	}
	c.connected = true
	c.joined = true
	if got := bannerText(c); got != "" {
		t.Fatalf("healthy session shows banner %q", got)
	}
}

func TestBubbleCullMarginIsWider(t *testing.T) {
	// A speaker slightly above the viewport still shows their bubble.
	x, y := 400.0, -80.0
	if culled(x, y, 800, 600, bubbleCullMargin) {
		t.Fatal("bubble culled inside its margin")
	}
	if !culled(x, y, 800, 600, entityCullMargin) {
		t.Fatal("sprite should be culled at the same position")
	}
}
