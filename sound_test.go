package main

import (
	"testing"
	"time"
)

func TestFootstepGate(t *testing.T) {
	gs := gsdef
	f := newFootsteps(nil, &gs)
	t0 := time.Now()

	if !f.step(t0) {
		t.Fatal("first step should fire")
	}
	if f.step(t0.Add(100 * time.Millisecond)) {
		t.Fatal("step inside the gate should not fire")
	}
	if f.step(t0.Add(299 * time.Millisecond)) {
		t.Fatal("step just inside the gate should not fire")
	}
	if !f.step(t0.Add(301 * time.Millisecond)) {
		t.Fatal("step past the gate should fire")
	}
}

func TestFootstepMutedDoesNotConsumeGate(t *testing.T) {
	gs := gsdef
	gs.Mute = true
	f := newFootsteps(nil, &gs)
	t0 := time.Now()

	if f.step(t0) {
		t.Fatal("muted step should not fire")
	}
	gs.Mute = false
	if !f.step(t0) {
		t.Fatal("gate should still be open after muted attempts")
	}
}

func TestFootstepPCMShape(t *testing.T) {
	pcm := footstepPCM()
	if len(pcm) == 0 || len(pcm)%4 != 0 {
		t.Fatalf("pcm length %d is not whole stereo 16-bit frames", len(pcm))
	}
}
