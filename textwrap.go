package main

import (
	"math"
	"strings"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// wrapText splits s into lines no wider than maxWidth when rendered with
// face, returning the widest used line width and the lines. Words stay
// intact when they fit; a single word longer than maxWidth is broken across
// lines rune by rune. Runs of spaces are preserved so chat text keeps its
// spacing.
func wrapText(s string, face text.Face, maxWidth float64) (int, []string) {
	var (
		lines   []string
		maxUsed float64
	)
	for _, para := range strings.Split(s, "\n") {
		tokens := strings.SplitAfter(para, " ")
		var builder strings.Builder
		curWidth := 0.0
		flush := func() {
			if curWidth > maxUsed {
				maxUsed = curWidth
			}
			lines = append(lines, builder.String())
			builder.Reset()
			curWidth = 0
		}
		for _, tok := range tokens {
			if tok == "" {
				continue
			}
			w, _ := text.Measure(tok, face, 0)
			if curWidth+w <= maxWidth {
				builder.WriteString(tok)
				curWidth += w
				continue
			}
			if builder.Len() > 0 {
				flush()
			}
			if w <= maxWidth {
				builder.WriteString(tok)
				curWidth = w
				continue
			}
			for _, r := range tok {
				rw, _ := text.Measure(string(r), face, 0)
				if curWidth+rw > maxWidth && builder.Len() > 0 {
					flush()
				}
				builder.WriteRune(r)
				curWidth += rw
			}
		}
		if curWidth > maxUsed {
			maxUsed = curWidth
		}
		lines = append(lines, builder.String())
	}
	return int(math.Ceil(maxUsed)), lines
}
