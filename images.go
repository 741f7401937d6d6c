package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/remeh/sizedwaitgroup"
	xdraw "golang.org/x/image/draw"
)

// maxConcurrentFetches bounds in-flight frame downloads per avatar.
const maxConcurrentFetches = 4

// frameSlot is one directional animation frame. The decoded pixels arrive
// asynchronously; the GPU texture is created lazily on the first draw so
// decode work never needs a graphics context (and neither do tests).
type frameSlot struct {
	src    image.Image
	gpu    *ebiten.Image
	failed bool
}

func (s *frameSlot) ready() bool { return s.src != nil && !s.failed }

// sprite returns the drawable texture, uploading it on first use. Call only
// from the draw path.
func (s *frameSlot) sprite() *ebiten.Image {
	if s.gpu == nil && s.ready() {
		s.gpu = ebiten.NewImageFromImage(s.src)
	}
	return s.gpu
}

// avatarCache maps avatar ids to their directional frame slots. beginLoad
// is idempotent and stores placeholders synchronously, so a draw racing a
// load never re-issues fetches. Slots fill in as assetLoaded events are
// applied on the update tick; a failed fetch leaves its slot permanently
// not-ready without disturbing other frames or avatars.
type avatarCache struct {
	frames map[string]map[Direction][]*frameSlot
	fetch  func(src string) (image.Image, int, error)
	events chan<- event
}

func newAvatarCache(events chan<- event) *avatarCache {
	return &avatarCache{
		frames: make(map[string]map[Direction][]*frameSlot),
		fetch:  fetchFrameImage,
		events: events,
	}
}

// hasLoaded reports whether loading has begun for the avatar id. It is
// stable from the first beginLoad call on.
func (c *avatarCache) hasLoaded(id string) bool {
	_, ok := c.frames[id]
	return ok
}

// beginLoad starts fetching every frame of def. Calling it again for the
// same id is a no-op.
func (c *avatarCache) beginLoad(def AvatarDef) {
	if def.ID == "" || c.hasLoaded(def.ID) {
		return
	}
	dirs := make(map[Direction][]*frameSlot, len(def.Frames))
	for dir, srcs := range def.Frames {
		slots := make([]*frameSlot, len(srcs))
		for i := range srcs {
			slots[i] = &frameSlot{}
		}
		dirs[dir] = slots
	}
	c.frames[def.ID] = dirs
	go c.fetchAvatar(def)
}

// fetchAvatar downloads all frame sources for one avatar with bounded
// concurrency and posts an assetLoaded event per slot. Completions for an
// avatar nobody references anymore just fill a cache entry that is never
// drawn.
func (c *avatarCache) fetchAvatar(def AvatarDef) {
	start := time.Now()
	sw := sizedwaitgroup.New(maxConcurrentFetches)
	var fetched atomic.Int64
	for dir, srcs := range def.Frames {
		for i, src := range srcs {
			sw.Add()
			go func(dir Direction, i int, src string) {
				defer sw.Done()
				img, size, err := c.fetch(src)
				fetched.Add(int64(size))
				c.events <- assetLoaded{avatar: def.ID, dir: dir, idx: i, img: img, err: err, size: size}
			}(dir, i, src)
		}
	}
	sw.Wait()
	logDebug("avatar %q: fetched %s in %v", def.ID, humanize.Bytes(uint64(fetched.Load())), time.Since(start).Round(time.Millisecond))
}

// apply records one finished fetch. Stale or out-of-range completions are
// tolerated and dropped.
func (c *avatarCache) apply(ev assetLoaded) {
	slots := c.frames[ev.avatar][ev.dir]
	if ev.idx < 0 || ev.idx >= len(slots) {
		return
	}
	slot := slots[ev.idx]
	if ev.err != nil {
		slot.failed = true
		logWarn("avatar %q %s[%d]: %v", ev.avatar, ev.dir, ev.idx, ev.err)
		return
	}
	slot.src = ev.img
}

// frame returns the slot for (id, dir, frameIndex) or nil when it is not
// ready. The index wraps around the frame list so a running animation
// counter needs no clamping by the caller. Never blocks.
func (c *avatarCache) frame(id string, dir Direction, idx int) *frameSlot {
	slots := c.frames[id][dir]
	if len(slots) == 0 {
		return nil
	}
	s := slots[((idx%len(slots))+len(slots))%len(slots)]
	if !s.ready() {
		return nil
	}
	return s
}

var frameFetchClient = &http.Client{Timeout: 15 * time.Second}

// fetchFrameImage loads one frame source, either a data: URI or an http(s)
// URL, decodes it and scales it to the uniform sprite size.
func fetchFrameImage(src string) (image.Image, int, error) {
	var raw []byte
	if strings.HasPrefix(src, "data:") {
		comma := strings.IndexByte(src, ',')
		if comma < 0 {
			return nil, 0, fmt.Errorf("malformed data uri")
		}
		var err error
		raw, err = base64.StdEncoding.DecodeString(src[comma+1:])
		if err != nil {
			return nil, 0, fmt.Errorf("decode data uri: %w", err)
		}
	} else {
		resp, err := frameFetchClient.Get(src)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch %s: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, 0, fmt.Errorf("fetch %s: status %s", src, resp.Status)
		}
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", src, err)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, len(raw), fmt.Errorf("decode image: %w", err)
	}
	return scaleFrame(img), len(raw), nil
}

// scaleFrame resamples a frame to spriteSize x spriteSize.
func scaleFrame(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == spriteSize && b.Dy() == spriteSize {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, spriteSize, spriteSize))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
