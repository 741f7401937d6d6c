package main

import (
	"time"
)

// sender is the outbound half of the transport. Sends are fire-and-forget;
// a closed channel drops the intent silently and the next relevant input
// event re-emits naturally.
type sender interface {
	send(v any)
	close()
}

// Client owns the local world model and applies every event source to it:
// inbound protocol messages, asset-load completions and translated input.
// All mutation happens on the update tick, one event at a time, so a
// message's effects are atomic with respect to rendering.
type Client struct {
	gs       *settings
	entities *entityStore
	bubbles  *bubbleTracker
	avatars  *avatarCache
	keys     *keyTracker
	chat     chatEntry
	steps    *footsteps
	defs     map[string]AvatarDef

	out    sender
	events chan event

	joined    bool
	joinErr   string
	connected bool
	playerID  string
	username  string

	viewW, viewH int
	camX, camY   float64
	dirty        bool

	stats struct {
		messages       uint64
		dropped        uint64
		renderRequests uint64
		cameraUpdates  uint64
		footstepCues   uint64
	}
}

func newClient(gs *settings, steps *footsteps) *Client {
	events := make(chan event, 256)
	return &Client{
		gs:       gs,
		entities: newEntityStore(),
		bubbles:  newBubbleTracker(),
		avatars:  newAvatarCache(events),
		keys:     newKeyTracker(),
		steps:    steps,
		defs:     make(map[string]AvatarDef),
		events:   events,
		viewW:    initialWindowW,
		viewH:    initialWindowH,
	}
}

// requestRender marks the scene dirty. It is a hint consumed once per
// animation tick, so a burst of mutations still costs one redraw.
func (c *Client) requestRender() {
	c.dirty = true
	c.stats.renderRequests++
}

// recenter recomputes the camera from the local player's position. The
// camera is derived state and is only ever recomputed, never patched.
func (c *Client) recenter() {
	local, ok := c.entities.get(c.playerID)
	if !ok {
		return
	}
	c.camX, c.camY = cameraPos(local.X, local.Y, c.viewW, c.viewH, worldWidth, worldHeight)
	c.stats.cameraUpdates++
}

// resize updates the viewport dimensions, which invalidates the derived
// camera and the scene.
func (c *Client) resize(w, h int) {
	if w == c.viewW && h == c.viewH {
		return
	}
	c.viewW, c.viewH = w, h
	c.recenter()
	c.requestRender()
}

// send forwards an intent to the server if the connection is open,
// otherwise drops it.
func (c *Client) send(v any) {
	if !c.connected || c.out == nil {
		logDebug("drop intent %T: connection closed", v)
		return
	}
	c.out.send(v)
}

// registerAvatar merges one avatar definition into the table and starts its
// asset load. Definitions are immutable, so a repeat of a known id is a
// no-op.
func (c *Client) registerAvatar(def AvatarDef) {
	if def.ID == "" {
		return
	}
	if _, ok := c.defs[def.ID]; !ok {
		c.defs[def.ID] = def
	}
	c.avatars.beginLoad(def)
}

// dispatch applies one event to the world model. Each case mirrors one row
// of the protocol handling table; no case may leave the stores partially
// updated on a bad record, which decode-time validation guarantees.
func (c *Client) dispatch(ev event, now time.Time) {
	c.stats.messages++
	switch ev := ev.(type) {
	case joinResult:
		if !ev.ok {
			// A refused join is terminal for this session; nothing is
			// mutated so a later successful result could still apply
			// cleanly.
			c.joinErr = ev.reason
			logError("join failed: %s", ev.reason)
			c.requestRender()
			return
		}
		c.joined = true
		c.joinErr = ""
		c.playerID = ev.playerID
		c.entities.replaceAll(ev.players)
		c.defs = make(map[string]AvatarDef, len(ev.avatars))
		for _, def := range ev.avatars {
			c.registerAvatar(def)
		}
		c.recenter()
		c.requestRender()
		logDebug("joined as %q with %d players, %d avatars", ev.playerID, len(ev.players), len(ev.avatars))

	case playersUpdate:
		for _, e := range ev.players {
			c.entities.upsert(e)
			if e.ID == c.playerID && e.Moving {
				if c.steps.step(now) {
					c.stats.footstepCues++
				}
			}
		}
		// One camera recompute and one render request per batch, not per
		// entity.
		c.recenter()
		c.requestRender()

	case playerJoined:
		c.entities.upsert(ev.player)
		if ev.avatar != nil {
			c.registerAvatar(*ev.avatar)
		}
		c.requestRender()

	case playerLeft:
		c.entities.remove(ev.id)
		c.bubbles.drop(ev.id)
		c.requestRender()

	case chatEvent:
		if ev.text == "" {
			c.stats.dropped++
			logWarn("chat from %q with empty text dropped", ev.id)
			return
		}
		// The entity may not be known yet; the bubble is stored anyway and
		// becomes visible if the entity joins within its lifetime.
		c.bubbles.set(ev.id, ev.text, now)
		c.requestRender()

	case assetLoaded:
		c.avatars.apply(ev)
		c.requestRender()

	case disconnected:
		c.connected = false
		c.steps.stopAll()
		if ev.err != nil {
			logError("connection lost: %v", ev.err)
		}
		c.requestRender()

	default:
		c.stats.dropped++
		logWarn("unhandled event %T", ev)
	}
}

// drainEvents applies everything queued since the last tick.
func (c *Client) drainEvents(now time.Time) {
	for {
		select {
		case ev := <-c.events:
			c.dispatch(ev, now)
		default:
			return
		}
	}
}
