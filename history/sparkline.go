package history

import (
	"math"
	"strings"
)

// graphDots is indexed by left*5 + right, each a bar height 0..4.
var graphDots = [25]string{
	" ", "⢀", "⢠", "⢰", "⢸",
	"⡀", "⣀", "⣠", "⣰", "⣸",
	"⡄", "⣄", "⣤", "⣴", "⣼",
	"⡆", "⣆", "⣦", "⣶", "⣾",
	"⡇", "⣇", "⣧", "⣷", "⣿",
}

func level(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return min(4, int(math.Round(v/100*4)))
}

// Sparkline renders the newest 2*width percentages as width braille cells,
// two samples per cell, left-padded with spaces when history is short.
func Sparkline(samples []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(samples) > 2*width {
		samples = samples[len(samples)-2*width:]
	}
	cells := (len(samples) + 1) / 2

	var b strings.Builder
	b.Grow(width * 3)
	b.WriteString(strings.Repeat(" ", width-cells))
	for i := 0; i < len(samples); i += 2 {
		left := samples[i]
		right := left
		if i+1 < len(samples) {
			right = samples[i+1]
		}
		b.WriteString(graphDots[level(left)*5+level(right)])
	}
	return b.String()
}
