package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/fitdex/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders one block per value scaled to the largest value.
// When there are more values than width, neighbouring values are summed
// into width columns.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	t := theme.Active
	values = Resample(values, width)

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Resample sums values into at most n buckets, preserving order.
func Resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i, v := range values {
		out[i*n/len(values)] += v
	}
	return out
}

// HBar renders a horizontal bar of value relative to maxValue.
func HBar(value, maxValue float64, width int, color lipgloss.Color) string {
	t := theme.Active
	if width <= 0 {
		return ""
	}
	filled := 0
	if maxValue > 0 {
		filled = int(value / maxValue * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	fill := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return fill.Render(strings.Repeat("━", filled)) + empty.Render(strings.Repeat("─", width-filled))
}
