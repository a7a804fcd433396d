// ABOUTME: Bordered metric blocks for the home dashboard
// ABOUTME: Title sits in the top border; value and caption below

package widgets

import (
	"fmt"
	"strings"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
	"github.com/charmbracelet/lipgloss"
)

// BlockConfig holds configuration for a metric block
type BlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultBlockConfig returns sensible defaults
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		Width:       24,
		BorderColor: lipgloss.Color("#6B7280"),
		TitleColor:  lipgloss.Color("#7C3AED"),
		ValueColor:  lipgloss.Color("#F9FAFB"),
	}
}

func (cfg BlockConfig) inner() int {
	if cfg.Width <= 0 {
		cfg.Width = 24
	}
	return cfg.Width - 4
}

// Block renders a value with a caption. Lines is optional extra content
// placed between the value and caption, already styled.
func Block(icon icons.Icon, title, value, caption string, cfg BlockConfig, lines ...string) string {
	inner := cfg.inner()
	border := lipgloss.NewStyle().Foreground(cfg.BorderColor)

	heading := truncate(fmt.Sprintf("%s %s", icon, title), inner-1)
	top := border.Render("┌─ ") +
		lipgloss.NewStyle().Foreground(cfg.TitleColor).Render(heading) +
		border.Render(" "+strings.Repeat("─", max(0, inner-lipgloss.Width(heading)-1))+"┐")

	rows := []string{top}
	rows = append(rows, row(border, lipgloss.NewStyle().Foreground(cfg.ValueColor).Bold(true).Render(truncate(value, inner)), inner))
	for _, l := range lines {
		rows = append(rows, row(border, l, inner))
	}
	rows = append(rows, row(border, lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(truncate(caption, inner)), inner))
	rows = append(rows, border.Render("└"+strings.Repeat("─", inner+2)+"┘"))
	return strings.Join(rows, "\n")
}

func row(border lipgloss.Style, content string, inner int) string {
	pad := max(0, inner-lipgloss.Width(content))
	return border.Render("│ ") + content + strings.Repeat(" ", pad) + border.Render(" │")
}

// CountBlock renders an integer metric such as the number of venues
func CountBlock(icon icons.Icon, title string, count int, caption string, cfg BlockConfig) string {
	return Block(icon, title, fmt.Sprintf("%d", count), caption, cfg)
}

// AlertBlock renders a count whose value is highlighted when non-zero,
// used for overdue reminders and pending follow-ups.
func AlertBlock(icon icons.Icon, title string, count int, caption string, level Level, cfg BlockConfig) string {
	if count > 0 {
		cfg.ValueColor = level.Color()
	}
	return CountBlock(icon, title, count, caption, cfg)
}

// TrendBlock renders a value with a sparkline of its history
func TrendBlock(icon icons.Icon, title, value string, history []float64, caption string, cfg BlockConfig) string {
	width := min(12, cfg.inner())
	return Block(icon, title, value, caption, cfg, Sparkline(history, width, cfg.TitleColor))
}

// truncate shortens s to maxLen display cells with an ellipsis
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 1 {
		return string(r[:max(0, maxLen)])
	}
	for lipgloss.Width(string(r)) > maxLen-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
