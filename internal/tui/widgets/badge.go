// ABOUTME: Inline badges for reminder priorities, opportunity statuses and counts
// ABOUTME: Maps domain values to colored severity levels

package widgets

import (
	"fmt"
	"strings"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
	"github.com/charmbracelet/lipgloss"
)

// Level is the visual severity of a badge
type Level int

const (
	LevelNeutral Level = iota
	LevelOK
	LevelInfo
	LevelWarning
	LevelCritical
)

var levelColors = map[Level][2]lipgloss.Color{
	LevelOK:       {"#10B981", "#FFFFFF"},
	LevelInfo:     {"#3B82F6", "#FFFFFF"},
	LevelWarning:  {"#F59E0B", "#000000"},
	LevelCritical: {"#EF4444", "#FFFFFF"},
	LevelNeutral:  {"#6B7280", "#FFFFFF"},
}

// Color returns the accent color of a level
func (l Level) Color() lipgloss.Color {
	return levelColors[l][0]
}

// Badge renders text on a background colored by level
func Badge(text string, level Level) string {
	c, ok := levelColors[level]
	if !ok {
		c = levelColors[LevelNeutral]
	}
	return lipgloss.NewStyle().
		Background(c[0]).
		Foreground(c[1]).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// PriorityLevel maps a reminder priority to a level
func PriorityLevel(priority string) Level {
	switch priority {
	case client.PriorityUrgent:
		return LevelCritical
	case client.PriorityHigh:
		return LevelWarning
	case client.PriorityMedium:
		return LevelInfo
	case client.PriorityLow:
		return LevelOK
	}
	return LevelNeutral
}

// PriorityBadge renders a reminder priority
func PriorityBadge(priority string) string {
	if priority == "" {
		return Badge("--", LevelNeutral)
	}
	return Badge(strings.ToUpper(priority), PriorityLevel(priority))
}

// OpportunityLevel maps an opportunity status to a level
func OpportunityLevel(status string) Level {
	switch status {
	case client.StatusAccepted, client.StatusOfferReceived:
		return LevelOK
	case client.StatusInterviewing:
		return LevelInfo
	case client.StatusActive:
		return LevelWarning
	case client.StatusDeclined:
		return LevelCritical
	}
	return LevelNeutral
}

// StatusLabel turns a status slug into its display form, e.g. "OFFER RECEIVED"
func StatusLabel(status string) string {
	return strings.ToUpper(strings.ReplaceAll(status, "_", " "))
}

// OpportunityBadge renders an opportunity status badge
func OpportunityBadge(status string) string {
	return Badge(StatusLabel(status), OpportunityLevel(status))
}

// CountBadge renders the unread notification count. Zero renders nothing so
// the header stays quiet; counts above 99 are capped.
func CountBadge(n int) string {
	if n <= 0 {
		return ""
	}
	text := fmt.Sprintf("%s %d", icons.Bell, n)
	if n > 99 {
		text = fmt.Sprintf("%s 99+", icons.Bell)
	}
	return Badge(text, LevelCritical)
}

// LevelIcon returns the colored icon for a level
func LevelIcon(level Level) string {
	style := lipgloss.NewStyle().Foreground(level.Color())
	switch level {
	case LevelOK:
		return style.Render(icons.CheckOK.String())
	case LevelWarning:
		return style.Render(icons.Warning.String())
	case LevelCritical:
		return style.Render(icons.Critical.String())
	case LevelInfo:
		return style.Render(icons.Info.String())
	}
	return style.Render("•")
}

// StatusText returns text prefixed by the level icon
func StatusText(text string, level Level) string {
	return LevelIcon(level) + " " + lipgloss.NewStyle().Foreground(level.Color()).Render(text)
}
