package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	meadowColor   = color.NRGBA{0x38, 0x54, 0x38, 0xff}
	gridColor     = color.NRGBA{0x46, 0x64, 0x46, 0xff}
	edgeColor     = color.NRGBA{0x20, 0x30, 0x20, 0xff}
	labelColor    = color.NRGBA{0xf0, 0xf0, 0xf0, 0xff}
	labelShadow   = color.NRGBA{0x00, 0x00, 0x00, 0xa0}
	minimapBG     = color.NRGBA{0x10, 0x18, 0x10, 0xb0}
	minimapOther  = color.NRGBA{0xe8, 0xe8, 0xe8, 0xff}
	minimapSelf   = color.NRGBA{0x60, 0xd0, 0x60, 0xff}
	minimapCamera = color.NRGBA{0xff, 0xff, 0xff, 0xc0}
	bannerColor   = color.NRGBA{0xff, 0xd0, 0x60, 0xff}
)

// drawScene renders one full frame from the current stores. It reads state
// only; every mutation already happened on the update tick.
func drawScene(dst *ebiten.Image, c *Client, now time.Time) {
	dst.Fill(meadowColor)
	drawWorldLayer(dst, c)
	drawEntities(dst, c)
	drawBubbles(dst, c, now)
	drawMinimap(dst, c)
	drawChatLine(dst, c)
	drawBanner(dst, c)
	if c.gs.ShowDebug {
		drawDebug(dst, c)
	}
}

// drawWorldLayer paints the ground grid clipped to the camera rectangle,
// plus the hard world edge where the camera can see past it.
func drawWorldLayer(dst *ebiten.Image, c *Client) {
	step := c.gs.GridStep
	if step <= 0 {
		step = 256
	}
	startX := (int(c.camX) / step) * step
	for wx := startX; wx <= int(c.camX)+c.viewW; wx += step {
		sx := float32(float64(wx) - c.camX)
		vector.StrokeLine(dst, sx, 0, sx, float32(c.viewH), 1, gridColor, false)
	}
	startY := (int(c.camY) / step) * step
	for wy := startY; wy <= int(c.camY)+c.viewH; wy += step {
		sy := float32(float64(wy) - c.camY)
		vector.StrokeLine(dst, 0, sy, float32(c.viewW), sy, 1, gridColor, false)
	}

	// World bounds, visible when the world is smaller than the viewport.
	right := float32(worldWidth - c.camX)
	bottom := float32(worldHeight - c.camY)
	if right < float32(c.viewW) {
		vector.DrawFilledRect(dst, right, 0, float32(c.viewW)-right, float32(c.viewH), edgeColor, false)
	}
	if bottom < float32(c.viewH) {
		vector.DrawFilledRect(dst, 0, bottom, float32(c.viewW), float32(c.viewH)-bottom, edgeColor, false)
	}
}

// culled reports whether a screen-space point lies further than margin
// outside the viewport.
func culled(sx, sy float64, viewW, viewH, margin int) bool {
	return sx < -float64(margin) || sy < -float64(margin) ||
		sx > float64(viewW+margin) || sy > float64(viewH+margin)
}

// drawEntities renders each entity's sprite and name label. A sprite whose
// frame has not loaded yet is skipped for this frame; the label still
// draws so the entity is never invisible.
func drawEntities(dst *ebiten.Image, c *Client) {
	c.entities.forEach(func(e *Entity) {
		sx := e.X - c.camX
		sy := e.Y - c.camY
		if culled(sx, sy, c.viewW, c.viewH, entityCullMargin) {
			return
		}
		if slot := c.avatars.frame(e.Avatar, e.Facing, e.Frame); slot != nil {
			if img := slot.sprite(); img != nil {
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(sx-spriteSize/2, sy-spriteSize)
				dst.DrawImage(img, op)
			}
		}
		drawLabel(dst, e.Name, sx, sy+4)
	})
}

// drawLabel draws a centered name tag with a one-pixel drop shadow.
func drawLabel(dst *ebiten.Image, name string, cx, top float64) {
	if name == "" {
		return
	}
	face := labelFace()
	w, _ := text.Measure(name, face, 0)
	for _, pass := range []struct {
		dx, dy float64
		col    color.Color
	}{{1, 1, labelShadow}, {0, 0, labelColor}} {
		op := &text.DrawOptions{}
		op.GeoM.Translate(cx-w/2+pass.dx, top+pass.dy)
		op.ColorScale.ScaleWithColor(pass.col)
		text.Draw(dst, name, face, op)
	}
}

// drawBubbles renders every live chat bubble above its owner. Reading
// visibility here is what garbage-collects expired bubbles.
func drawBubbles(dst *ebiten.Image, c *Client, now time.Time) {
	maxWidth := float64(c.viewW) * c.gs.BubbleMaxWide
	if maxWidth < 80 {
		maxWidth = 80
	}
	c.entities.forEach(func(e *Entity) {
		if !c.bubbles.visible(e.ID, now) {
			return
		}
		sx := e.X - c.camX
		sy := e.Y - c.camY - spriteSize
		if culled(sx, sy, c.viewW, c.viewH, bubbleCullMargin) {
			return
		}
		drawBubble(dst, c.bubbles.text(e.ID), int(sx), int(sy), c.viewW, c.viewH, maxWidth)
	})
}

// drawMinimap renders the scaled-down world map in the top-right corner:
// every entity as a point, the local player highlighted, and the camera
// viewport as a rectangle.
func drawMinimap(dst *ebiten.Image, c *Client) {
	scale := minimapScale(minimapW, minimapH, worldWidth, worldHeight)
	x0 := float32(c.viewW - minimapW - minimapPad)
	y0 := float32(minimapPad)

	vector.DrawFilledRect(dst, x0, y0, minimapW, minimapH, minimapBG, false)
	vector.StrokeRect(dst, x0, y0, float32(float64(worldWidth)*scale), float32(float64(worldHeight)*scale), 1, minimapCamera, false)

	c.entities.forEach(func(e *Entity) {
		col := minimapOther
		if e.ID == c.playerID {
			col = minimapSelf
		}
		px := x0 + float32(e.X*scale)
		py := y0 + float32(e.Y*scale)
		vector.DrawFilledRect(dst, px-1, py-1, 3, 3, col, false)
	})

	vector.StrokeRect(dst,
		x0+float32(c.camX*scale), y0+float32(c.camY*scale),
		float32(float64(c.viewW)*scale), float32(float64(c.viewH)*scale),
		1, minimapCamera, false)
}

// minimapScale is the uniform world-to-minimap factor: the larger world
// axis fits exactly, the other leaves a margin.
func minimapScale(mw, mh, ww, wh int) float64 {
	sx := float64(mw) / float64(ww)
	sy := float64(mh) / float64(wh)
	if sx < sy {
		return sx
	}
	return sy
}

// drawChatLine renders the chat entry box while typing.
func drawChatLine(dst *ebiten.Image, c *Client) {
	if !c.chat.active {
		return
	}
	line := "say: " + c.chat.String() + "_"
	h := float32(20)
	vector.DrawFilledRect(dst, 0, float32(c.viewH)-h, float32(c.viewW), h, color.NRGBA{0, 0, 0, 0xa0}, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(6, float64(c.viewH)-16)
	op.ColorScale.ScaleWithColor(labelColor)
	text.Draw(dst, line, labelFace(), op)
}

// bannerText is the session status line: joining, join refused, or
// connection lost. Empty when the session is healthy.
func bannerText(c *Client) string {
	switch {
	case c.joinErr != "":
		return "join failed: " + c.joinErr
	case !c.connected:
		return "connection lost"
	case !c.joined:
		return "joining as " + c.username + "..."
	}
	return ""
}

func drawBanner(dst *ebiten.Image, c *Client) {
	msg := bannerText(c)
	if msg == "" {
		return
	}
	face := labelFace()
	w, _ := text.Measure(msg, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(c.viewW)/2-w/2, 24)
	op.ColorScale.ScaleWithColor(bannerColor)
	text.Draw(dst, msg, face, op)
}

func drawDebug(dst *ebiten.Image, c *Client) {
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf(
		"entities=%d cam=(%.0f,%.0f) msgs=%d drops=%d renders=%d camups=%d steps=%d",
		c.entities.count(), c.camX, c.camY,
		c.stats.messages, c.stats.dropped, c.stats.renderRequests,
		c.stats.cameraUpdates, c.stats.footstepCues),
		2, c.viewH-36)
}
