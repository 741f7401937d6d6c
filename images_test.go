package main

import (
	"fmt"
	"image"
	"sync/atomic"
	"testing"
	"time"
)

func collectAssetEvents(t *testing.T, events <-chan event, n int) []assetLoaded {
	t.Helper()
	out := make([]assetLoaded, 0, n)
	for i := 0; i < n; i++ {
		select {
		case ev := <-events:
			out = append(out, ev.(assetLoaded))
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
	return out
}

func TestBeginLoadIsIdempotent(t *testing.T) {
	events := make(chan event, 16)
	c := newAvatarCache(events)
	var fetches atomic.Int32
	c.fetch = func(string) (image.Image, int, error) {
		fetches.Add(1)
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), 4, nil
	}

	def := testAvatar("fox") // 5 frame sources
	c.beginLoad(def)
	c.beginLoad(def)
	c.beginLoad(def)

	evs := collectAssetEvents(t, events, 5)
	for _, ev := range evs {
		c.apply(ev)
	}
	if got := fetches.Load(); got != 5 {
		t.Fatalf("fetched %d times, want 5", got)
	}
	if !c.hasLoaded("fox") {
		t.Fatal("hasLoaded should be true after beginLoad")
	}

	// No further events may arrive from the duplicate calls.
	select {
	case ev := <-events:
		t.Fatalf("unexpected extra event %#v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLargeAvatarFetchesEveryFrame(t *testing.T) {
	// Far more frame sources than the fetch concurrency bound; every
	// slot must still complete without the pipeline stalling.
	events := make(chan event, 256)
	c := newAvatarCache(events)
	var fetches atomic.Int32
	c.fetch = func(string) (image.Image, int, error) {
		fetches.Add(1)
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), 4, nil
	}

	srcs := make([]string, 100)
	for i := range srcs {
		srcs[i] = fmt.Sprintf("f%d", i)
	}
	c.beginLoad(AvatarDef{ID: "big", Frames: map[Direction][]string{DirDown: srcs}})

	for _, ev := range collectAssetEvents(t, events, len(srcs)) {
		c.apply(ev)
	}
	if got := fetches.Load(); got != int32(len(srcs)) {
		t.Fatalf("fetched %d of %d sources", got, len(srcs))
	}
	if c.frame("big", DirDown, len(srcs)-1) == nil {
		t.Fatal("last frame never became ready")
	}
}

func TestPlaceholderVisibleBeforeCompletion(t *testing.T) {
	events := make(chan event, 16)
	c := newAvatarCache(events)
	block := make(chan struct{})
	c.fetch = func(string) (image.Image, int, error) {
		<-block
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), 4, nil
	}

	c.beginLoad(testAvatar("fox"))
	if !c.hasLoaded("fox") {
		t.Fatal("placeholder should be stored synchronously")
	}
	if c.frame("fox", DirDown, 0) != nil {
		t.Fatal("pending frame must read as not ready, not block")
	}
	close(block)
	for _, ev := range collectAssetEvents(t, events, 5) {
		c.apply(ev)
	}
	if c.frame("fox", DirDown, 0) == nil {
		t.Fatal("frame should be ready after completion")
	}
}

func TestFailedFrameIsIsolated(t *testing.T) {
	events := make(chan event, 16)
	c := newAvatarCache(events)
	c.fetch = func(src string) (image.Image, int, error) {
		if src == "d0" {
			return nil, 0, fmt.Errorf("boom")
		}
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), 4, nil
	}

	c.beginLoad(testAvatar("fox"))
	for _, ev := range collectAssetEvents(t, events, 5) {
		c.apply(ev)
	}

	if c.frame("fox", DirDown, 0) != nil {
		t.Fatal("failed slot should stay not ready")
	}
	if c.frame("fox", DirDown, 1) == nil {
		t.Fatal("sibling frame should be unaffected")
	}
	if c.frame("fox", DirUp, 0) == nil {
		t.Fatal("other directions should be unaffected")
	}
}

func TestStaleCompletionTolerated(t *testing.T) {
	events := make(chan event, 16)
	c := newAvatarCache(events)
	// Completions for unknown avatars or out-of-range slots must not
	// panic; they fill nothing.
	c.apply(assetLoaded{avatar: "gone", dir: DirUp, idx: 0, img: image.NewRGBA(image.Rect(0, 0, 1, 1))})
	c.apply(assetLoaded{avatar: "gone", dir: DirUp, idx: 99, err: fmt.Errorf("late failure")})
	if c.hasLoaded("gone") {
		t.Fatal("stale completion must not create an avatar entry")
	}
}

func TestFrameUnknownAvatar(t *testing.T) {
	c := newAvatarCache(make(chan event, 1))
	if c.frame("nobody", DirDown, 0) != nil {
		t.Fatal("unknown avatar should read as not ready")
	}
}

func TestScaleFrameUniformSize(t *testing.T) {
	img := scaleFrame(image.NewRGBA(image.Rect(0, 0, 17, 31)))
	b := img.Bounds()
	if b.Dx() != spriteSize || b.Dy() != spriteSize {
		t.Fatalf("scaled to %dx%d, want %dx%d", b.Dx(), b.Dy(), spriteSize, spriteSize)
	}
}
