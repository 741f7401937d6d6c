package main

// cameraPos derives the top-left world coordinate of the viewport: centered
// on the local player, then clamped per axis to [0, max(0, world-view)].
// When the world is smaller than the viewport on an axis the clamp
// collapses to 0 so the viewport covers the whole world there. It is a pure
// function; the camera is never pushed a delta of its own.
func cameraPos(px, py float64, viewW, viewH, worldW, worldH int) (float64, float64) {
	x := clampAxis(px-float64(viewW)/2, worldW-viewW)
	y := clampAxis(py-float64(viewH)/2, worldH-viewH)
	return x, y
}

func clampAxis(v float64, max int) float64 {
	if max < 0 {
		max = 0
	}
	if v < 0 {
		return 0
	}
	if v > float64(max) {
		return float64(max)
	}
	return v
}
