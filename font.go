package main

import (
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// The client ships no font asset; labels and bubbles use the basicfont face
// wrapped for the text/v2 API. The wrappers are built once on first use so
// tests that never draw do not touch text rendering.
var labelFaceV, bubbleFaceV text.Face

func labelFace() text.Face {
	if labelFaceV == nil {
		labelFaceV = text.NewGoXFace(basicfont.Face7x13)
	}
	return labelFaceV
}

func bubbleFace() text.Face {
	if bubbleFaceV == nil {
		bubbleFaceV = text.NewGoXFace(basicfont.Face7x13)
	}
	return bubbleFaceV
}
