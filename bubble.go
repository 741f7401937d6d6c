package main

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// bubbleLife is how long a chat bubble stays visible after it is placed.
const bubbleLife = 3000 * time.Millisecond

type bubbleState struct {
	text   string
	placed time.Time
}

// bubbleTracker holds at most one live chat bubble per entity. Expiry is
// evaluated lazily: reading an expired bubble hides it and deletes it, so
// the map never needs a sweep timer to stay bounded.
type bubbleTracker struct {
	bubbles map[string]*bubbleState
}

func newBubbleTracker() *bubbleTracker {
	return &bubbleTracker{bubbles: make(map[string]*bubbleState)}
}

// set places or replaces the bubble for id. A replacement restarts the
// visibility window, so a server echo of a locally echoed chat line simply
// renews the same bubble.
func (t *bubbleTracker) set(id, txt string, now time.Time) {
	t.bubbles[id] = &bubbleState{text: txt, placed: now}
}

// visible reports whether id has a live bubble at now, purging it as a side
// effect when it has expired.
func (t *bubbleTracker) visible(id string, now time.Time) bool {
	b, ok := t.bubbles[id]
	if !ok {
		return false
	}
	if now.Sub(b.placed) >= bubbleLife {
		delete(t.bubbles, id)
		return false
	}
	return true
}

// text returns the bubble text for id. Only meaningful right after visible
// returned true for the same logical now.
func (t *bubbleTracker) text(id string) string {
	if b, ok := t.bubbles[id]; ok {
		return b.text
	}
	return ""
}

// anyLive reports whether any bubble is still visible at now, deleting
// expired entries as it sweeps. Bubbles whose owner never appeared in the
// entity store have no draw read to purge them, so this sweep is what
// keeps the map bounded.
func (t *bubbleTracker) anyLive(now time.Time) bool {
	live := false
	for id, b := range t.bubbles {
		if now.Sub(b.placed) >= bubbleLife {
			delete(t.bubbles, id)
			continue
		}
		live = true
	}
	return live
}

// drop removes an entity's bubble immediately, e.g. when the entity leaves.
func (t *bubbleTracker) drop(id string) {
	delete(t.bubbles, id)
}

// whiteImage is a reusable 1x1 white pixel for drawing filled shapes via
// DrawTriangles without allocating per-shape textures.
var whiteImage *ebiten.Image

func fillSource() *ebiten.Image {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(1, 1)
		whiteImage.Fill(color.White)
	}
	return whiteImage
}

// adjustBubbleRect computes the on-screen rectangle for a bubble whose tail
// tip sits at (x, y), clamped to the sw x sh screen. With noTail the
// rectangle's bottom sits directly on y.
func adjustBubbleRect(x, y, width, height, tailHeight, sw, sh int, noTail bool) (left, top, right, bottom int) {
	bottom = y
	if !noTail {
		bottom = y - tailHeight
	}
	left = x - width/2
	top = bottom - height

	if left < 0 {
		left = 0
	}
	if left+width > sw {
		left = sw - width
	}
	if top < 0 {
		top = 0
	}
	if top+height > sh {
		top = sh - height
	}

	right = left + width
	bottom = top + height
	return
}

// drawBubble renders a rounded chat bubble anchored so (x, y) is the tip of
// the tail pointing at the speaker. The bubble is clamped to the screen
// while the tail stays anchored.
func drawBubble(screen *ebiten.Image, txt string, x, y, sw, sh int, maxWidth float64) {
	if txt == "" {
		return
	}
	const pad = 6
	const tailHeight = 10
	const tailHalf = 6

	face := bubbleFace()
	width, lines := wrapText(txt, face, maxWidth-2*pad)
	metrics := face.Metrics()
	lineHeight := int(math.Ceil(metrics.HAscent) + math.Ceil(metrics.HDescent) + math.Ceil(metrics.HLineGap))
	width += 2 * pad
	height := lineHeight*len(lines) + 2*pad

	noTail := x < 0 || x >= sw || y < 0 || y >= sh
	left, top, right, bottom := adjustBubbleRect(x, y, width, height, tailHeight, sw, sh, noTail)
	baseX := left + width/2

	const radius = 4
	var body vector.Path
	body.MoveTo(float32(left)+radius, float32(top))
	body.LineTo(float32(right)-radius, float32(top))
	body.Arc(float32(right)-radius, float32(top)+radius, radius, -math.Pi/2, 0, vector.Clockwise)
	body.LineTo(float32(right), float32(bottom)-radius)
	body.Arc(float32(right)-radius, float32(bottom)-radius, radius, 0, math.Pi/2, vector.Clockwise)
	body.LineTo(float32(left)+radius, float32(bottom))
	body.Arc(float32(left)+radius, float32(bottom)-radius, radius, math.Pi/2, math.Pi, vector.Clockwise)
	body.LineTo(float32(left), float32(top)+radius)
	body.Arc(float32(left)+radius, float32(top)+radius, radius, math.Pi, 3*math.Pi/2, vector.Clockwise)
	body.Close()

	if !noTail {
		body.MoveTo(float32(baseX-tailHalf), float32(bottom))
		body.LineTo(float32(x), float32(y))
		body.LineTo(float32(baseX+tailHalf), float32(bottom))
		body.Close()
	}

	fillPath(screen, &body, color.NRGBA{0xff, 0xff, 0xff, 0xd9})
	strokePath(screen, &body, color.NRGBA{0x20, 0x20, 0x20, 0xff}, 1)

	textTop := top + pad
	textLeft := left + pad
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(textLeft), float64(textTop+i*lineHeight))
		op.ColorScale.ScaleWithColor(color.Black)
		text.Draw(screen, line, face, op)
	}
}

// fillPath draws p filled with the given color.
func fillPath(screen *ebiten.Image, p *vector.Path, col color.Color) {
	r, g, b, a := col.RGBA()
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 0
		vs[i].SrcY = 0
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha, AntiAlias: true}
	screen.DrawTriangles(vs, is, fillSource(), op)
}

// strokePath draws p's outline with the given color and width.
func strokePath(screen *ebiten.Image, p *vector.Path, col color.Color, width float32) {
	r, g, b, a := col.RGBA()
	vs, is := p.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: width})
	for i := range vs {
		vs[i].SrcX = 0
		vs[i].SrcY = 0
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha, AntiAlias: true}
	screen.DrawTriangles(vs, is, fillSource(), op)
}
