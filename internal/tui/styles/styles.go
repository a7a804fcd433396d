// ABOUTME: Shared lipgloss styles for the venue console
// ABOUTME: Palette, text and chat line styles plus the huh form theme

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Stage palette
	Primary   = lipgloss.Color("#E11D48") // Rose
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#DC2626")
	Muted     = lipgloss.Color("#71717A")
	Text      = lipgloss.Color("#FAFAF9")
	Accent    = lipgloss.Color("#FB7185")
	Surface   = lipgloss.Color("#3F3F46")
	Info      = lipgloss.Color("#38BDF8")

	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	Subtitle = lipgloss.NewStyle().Foreground(Muted).MarginBottom(1)
	Help     = lipgloss.NewStyle().Foreground(Muted).MarginTop(1)

	StatusOK      = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	StatusWarning = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	KeyStyle   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)

	// Chat lines
	Author        = lipgloss.NewStyle().Foreground(Info).Bold(true)
	OwnAuthor     = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Timestamp     = lipgloss.NewStyle().Foreground(Muted)
	PendingText   = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	InlineError   = lipgloss.NewStyle().Foreground(Danger)
	InlineSuccess = lipgloss.NewStyle().Foreground(Secondary)
)

// FormTheme returns the huh theme used by every form in the console.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().Foreground(Primary).Bold(true).MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().Foreground(Muted).MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Primary)
	t.Focused.Title = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(Danger).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(Danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(Primary).SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().Foreground(Text)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(Secondary).SetString("[x] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(Muted).SetString("[ ] ")
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(Primary)
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(Muted).
		Background(Surface).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(Muted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().SetString("  ")

	return t
}
