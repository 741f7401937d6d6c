package main

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// animTicks is how many update ticks pass between animation frame advances
// for moving entities (60 tps -> ~7.5 animation fps).
const animTicks = 8

// Game is the ebiten boundary loop. Every event source funnels through
// Update on one goroutine; Draw only reads.
type Game struct {
	c       *Client
	worldRT *ebiten.Image
	tick    int
}

func (g *Game) Update() error {
	now := time.Now()
	c := g.c

	c.drainEvents(now)
	c.pollInput(now)

	g.tick++
	if g.tick%animTicks == 0 {
		moved := false
		c.entities.forEach(func(e *Entity) {
			if e.Moving {
				e.Frame++
				moved = true
			}
		})
		if moved {
			c.dirty = true
		}
	}

	// Live bubbles expire on wall time, so keep redrawing while any
	// remain. The sweep also purges expired bubbles, so the heartbeat
	// stops once the last one is gone. This bypasses requestRender on
	// purpose: it is a repaint heartbeat, not a state mutation.
	if c.bubbles.anyLive(now) {
		c.dirty = true
	}
	return nil
}

// ensureWorldRT keeps the offscreen scene target at least viewport sized.
// Grow-only to avoid churn during interactive resize.
func (g *Game) ensureWorldRT(w, h int) *ebiten.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if g.worldRT == nil || g.worldRT.Bounds().Dx() < w || g.worldRT.Bounds().Dy() < h {
		g.worldRT = ebiten.NewImage(w, h)
	}
	return g.worldRT.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
}

func (g *Game) Draw(screen *ebiten.Image) {
	c := g.c
	rt := g.ensureWorldRT(c.viewW, c.viewH)
	if c.dirty {
		c.dirty = false
		drawScene(rt, c, time.Now())
	}
	screen.DrawImage(rt, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.c.resize(outsideWidth, outsideHeight)
	}
	return g.c.viewW, g.c.viewH
}

func runGame(c *Client) error {
	ebiten.SetWindowSize(initialWindowW, initialWindowH)
	ebiten.SetWindowTitle("gomeadow")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	c.requestRender()
	return ebiten.RunGame(&Game{c: c})
}
