// ABOUTME: Horizontal bars showing a category's share of total spend
// ABOUTME: Bars take the category's own color when it is a valid hex code

package widgets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// EmptyColor fills the unused part of a bar
var EmptyColor = lipgloss.Color("#374151")

// DefaultBarColor is used when a category has no usable color
var DefaultBarColor = lipgloss.Color("#7C3AED")

// CategoryColor returns hex as a lipgloss color, or DefaultBarColor
func CategoryColor(hex string) lipgloss.Color {
	if hexColor.MatchString(hex) {
		return lipgloss.Color(hex)
	}
	return DefaultBarColor
}

// Share returns part as a percentage of total, 0 when total is not positive
func Share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// ShareBar renders a bracketed bar filled to percent (clamped to 0..100)
func ShareBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 20
	}
	percent = max(0, min(percent, 100))
	filled := int(percent / 100 * float64(width))

	return "[" +
		lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(EmptyColor).Render(strings.Repeat("░", width-filled)) +
		"]"
}

// ShareBarWithLabel appends the percentage to a ShareBar
func ShareBarWithLabel(percent float64, width int, color lipgloss.Color) string {
	label := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%3.0f%%", percent))
	return ShareBar(percent, width, color) + " " + label
}

// CompactBar renders an unbracketed bar for tight spaces
func CompactBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	percent = max(0, min(percent, 100))
	filled := int(percent / 100 * float64(width))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(EmptyColor).Render(strings.Repeat("░", width-filled))
}
