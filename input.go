package main

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/text/unicode/norm"
)

// movementKeys maps physical keys to movement directions. Both WASD and the
// arrow keys steer.
var movementKeys = map[ebiten.Key]Direction{
	ebiten.KeyW:          DirUp,
	ebiten.KeyArrowUp:    DirUp,
	ebiten.KeyS:          DirDown,
	ebiten.KeyArrowDown:  DirDown,
	ebiten.KeyA:          DirLeft,
	ebiten.KeyArrowLeft:  DirLeft,
	ebiten.KeyD:          DirRight,
	ebiten.KeyArrowRight: DirRight,
}

// keyTracker is the per-key press state machine. A key's transition from
// released to pressed emits one move intent; a release that empties the
// pressed set emits one stop intent. Holding a key emits nothing further,
// so OS key repeat never reaches the wire.
type keyTracker struct {
	held map[ebiten.Key]Direction
}

func newKeyTracker() *keyTracker {
	return &keyTracker{held: make(map[ebiten.Key]Direction)}
}

// press records a key-down. It reports whether a move intent should be
// emitted, which is exactly when the key was not already held.
func (t *keyTracker) press(k ebiten.Key, d Direction) bool {
	if _, ok := t.held[k]; ok {
		return false
	}
	t.held[k] = d
	return true
}

// release records a key-up. It reports whether a stop intent should be
// emitted, which is exactly when the pressed set transitions to empty.
func (t *keyTracker) release(k ebiten.Key) bool {
	if _, ok := t.held[k]; !ok {
		return false
	}
	delete(t.held, k)
	return len(t.held) == 0
}

func (t *keyTracker) anyHeld() bool { return len(t.held) > 0 }

// releaseAll forgets every held key. Used when chat entry captures the
// keyboard: release edges go unobserved while typing, so keys left in the
// set would otherwise read as held forever.
func (t *keyTracker) releaseAll() {
	clear(t.held)
}

// chatEntry is the minimal in-game chat line: Enter opens it, runes are
// appended as typed, Enter sends and Escape cancels.
type chatEntry struct {
	active  bool
	buf     []rune
	scratch []rune
}

func (e *chatEntry) String() string { return string(e.buf) }

func (e *chatEntry) reset() {
	e.active = false
	e.buf = e.buf[:0]
}

// pollInput translates this tick's raw input into outbound intents. Chat
// entry, while open, captures the keyboard so movement keys do not leak
// move intents mid-sentence.
func (c *Client) pollInput(now time.Time) {
	if c.chat.active {
		c.pollChatEntry(now)
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		c.openChat()
		return
	}

	for k, d := range movementKeys {
		if inpututil.IsKeyJustPressed(k) && c.keys.press(k, d) {
			c.send(newMoveDirMsg(d))
		}
		if inpututil.IsKeyJustReleased(k) && c.keys.release(k) {
			c.send(newStopMsg())
		}
	}

	// A click always emits a point move, held keys or not.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		sx, sy := ebiten.CursorPosition()
		wx := int(c.camX) + sx
		wy := int(c.camY) + sy
		c.send(newMovePointMsg(wx, wy))
	}
}

// openChat enters chat entry mode. Any keys held at that moment are
// flushed with a stop intent first: their release edges will not be seen
// while the chat line has the keyboard, and a stale held set would both
// keep the player walking and swallow the next press of the same key.
func (c *Client) openChat() {
	if c.keys.anyHeld() {
		c.keys.releaseAll()
		c.send(newStopMsg())
	}
	c.chat.active = true
	c.requestRender()
}

// pollChatEntry handles one tick of chat typing.
func (c *Client) pollChatEntry(now time.Time) {
	c.chat.scratch = ebiten.AppendInputChars(c.chat.scratch[:0])
	for _, r := range c.chat.scratch {
		if r >= ' ' {
			c.chat.buf = append(c.chat.buf, r)
			c.requestRender()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(c.chat.buf) > 0 {
		c.chat.buf = c.chat.buf[:len(c.chat.buf)-1]
		c.requestRender()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		c.chat.reset()
		c.requestRender()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		msg := strings.TrimSpace(norm.NFC.String(c.chat.String()))
		c.chat.reset()
		c.requestRender()
		if msg != "" {
			c.sendChat(msg, now)
		}
	}
}

// sendChat emits the chat intent and places an optimistic local bubble so
// the sender sees their line immediately. The server's echo of the same
// message later replaces the bubble through the ordinary chat path,
// restarting the visibility window rather than duplicating it.
func (c *Client) sendChat(msg string, now time.Time) {
	c.send(newChatMsg(msg))
	if c.playerID != "" {
		c.bubbles.set(c.playerID, msg, now)
		c.requestRender()
	}
}
