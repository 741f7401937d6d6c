package main

// World geometry is a client-side constant: the server never announces it.
const worldWidth, worldHeight = 2048, 2048

const initialWindowW, initialWindowH = 800, 600

// spriteSize is the logical edge length avatar frames are scaled to when
// they are fetched, so entities render at a uniform size regardless of the
// source image dimensions.
const spriteSize = 64

// entityCullMargin is how far outside the viewport an entity may sit before
// its sprite and label are skipped. Bubbles render above the avatar and get
// a wider margin so a bubble whose owner is just off-screen still shows.
const entityCullMargin = 50
const bubbleCullMargin = 120

const minimapW, minimapH = 160, 160
const minimapPad = 8

// settings holds user-facing tunables. They are owned by the Client rather
// than living in package globals so tests can construct isolated clients.
type settings struct {
	MasterVolume  float64
	FootstepSound bool
	Mute          bool
	ShowDebug     bool
	GridStep      int
	BubbleMaxWide float64 // fraction of viewport width a bubble may span
}

var gsdef = settings{
	MasterVolume:  1.0,
	FootstepSound: true,
	GridStep:      256,
	BubbleMaxWide: 0.25,
}
