// ABOUTME: Boxed step indicator for multi-step forms
// ABOUTME: Marks finished, current and upcoming steps with a fill bar

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
)

var (
	stepDone    = lipgloss.Color("#10B981")
	stepCurrent = lipgloss.Color("#7C3AED")
	stepMuted   = lipgloss.Color("#6B7280")
	stepEmpty   = lipgloss.Color("#374151")
)

// Steps renders names as a progress box. current is 1-based; a value past
// the last step shows every step finished. The box is at least 40 wide.
func Steps(names []string, current, width int) string {
	width = max(width, 40)
	border := lipgloss.NewStyle().Foreground(stepMuted)

	parts := make([]string, len(names))
	for i, name := range names {
		n := i + 1
		switch {
		case n < current:
			parts[i] = lipgloss.NewStyle().Foreground(stepDone).Render(icons.CheckOK.String()) + " " +
				lipgloss.NewStyle().Foreground(stepMuted).Render(name)
		case n == current:
			st := lipgloss.NewStyle().Foreground(stepCurrent).Bold(true)
			parts[i] = st.Render("●") + " " + st.Render(name)
		default:
			st := lipgloss.NewStyle().Foreground(stepMuted)
			parts[i] = st.Render("○") + " " + st.Render(name)
		}
	}
	line := strings.Join(parts, "    ")

	barWidth := width - 5
	done := min(current, len(names))
	filled := 0
	if len(names) > 0 {
		filled = done * barWidth / len(names)
	}
	bar := lipgloss.NewStyle().Foreground(stepCurrent).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(stepEmpty).Render(strings.Repeat("─", barWidth-filled))

	title := "Progress"
	top := border.Render("┌─ ") + lipgloss.NewStyle().Foreground(stepCurrent).Render(title) +
		border.Render(" "+strings.Repeat("─", max(0, width-5-lipgloss.Width(title)))+"┐")
	mid := border.Render("│ ") + line + strings.Repeat(" ", max(0, width-4-lipgloss.Width(line))) + border.Render(" │")
	prog := border.Render("│  ") + bar + border.Render(" │")
	bottom := border.Render("└" + strings.Repeat("─", width-2) + "┘")

	return strings.Join([]string{top, mid, prog, bottom}, "\n")
}
