package main

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"golang.org/x/time/rate"
)

const sampleRate = 44100

// footstepGap is the minimum spacing between footstep cues. It is a gate on
// process time, not on any one entity's movement cadence.
const footstepGap = 300 * time.Millisecond

// footsteps renders the footstep cue once, caches the PCM, and plays it as
// one-shot buffers gated by a monotonic limiter.
type footsteps struct {
	ctx     *audio.Context
	pcm     []byte
	gate    *rate.Limiter
	gs      *settings
	players map[*audio.Player]struct{}
}

func newFootsteps(ctx *audio.Context, gs *settings) *footsteps {
	return &footsteps{
		ctx:     ctx,
		pcm:     footstepPCM(),
		gate:    rate.NewLimiter(rate.Every(footstepGap), 1),
		gs:      gs,
		players: make(map[*audio.Player]struct{}),
	}
}

// step plays the footstep cue unless the cooldown gate is still closed.
// It reports whether the cue fired; when muted the gate is not consumed.
func (f *footsteps) step(now time.Time) bool {
	if f.gs.Mute || !f.gs.FootstepSound {
		return false
	}
	if !f.gate.AllowN(now, 1) {
		return false
	}
	if f.ctx == nil {
		// Headless: the cue "fires" for gating purposes with no audio out.
		return true
	}

	for p := range f.players {
		if !p.IsPlaying() {
			p.Close()
			delete(f.players, p)
		}
	}

	p := f.ctx.NewPlayerFromBytes(f.pcm)
	p.SetVolume(f.gs.MasterVolume)
	f.players[p] = struct{}{}
	p.Play()
	return true
}

// stopAll halts and disposes every active cue player, e.g. when the
// connection drops.
func (f *footsteps) stopAll() {
	for p := range f.players {
		_ = p.Close()
		delete(f.players, p)
	}
}

// footstepPCM synthesizes a short soft thud: a decaying noise burst run
// through a one-pole low-pass, rendered as 16-bit little-endian stereo.
func footstepPCM() []byte {
	const dur = 120 * time.Millisecond
	n := int(float64(sampleRate) * dur.Seconds())
	out := make([]byte, n*4)
	rng := rand.New(rand.NewSource(7))
	lp := 0.0
	for i := 0; i < n; i++ {
		env := math.Exp(-9 * float64(i) / float64(n))
		noise := rng.Float64()*2 - 1
		lp += 0.12 * (noise - lp)
		v := int16(lp * env * 0.6 * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}
