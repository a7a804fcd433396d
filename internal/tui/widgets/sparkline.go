// ABOUTME: Sparkline widget for the monthly spend trend
// ABOUTME: Resamples a series to a fixed width of block characters

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values (oldest first) as width block characters.
// Short series are left-padded with the series minimum so the padding
// draws as the lowest block.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := resample(values, width)
	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]rune, len(sampled))
	for i, v := range sampled {
		out[i] = block(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(out))
}

func resample(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}
	out := make([]float64, width)
	if len(values) < width {
		floor := values[0]
		for _, v := range values {
			floor = min(floor, v)
		}
		pad := width - len(values)
		for i := range pad {
			out[i] = floor
		}
		copy(out[pad:], values)
		return out
	}
	ratio := float64(len(values)) / float64(width)
	for i := range width {
		idx := min(int(float64(i)*ratio), len(values)-1)
		out[i] = values[idx]
	}
	return out
}

func block(v, lo, hi float64) rune {
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(SparklineBlocks)-1))
	idx = max(0, min(idx, len(SparklineBlocks)-1))
	return SparklineBlocks[idx]
}
