// ABOUTME: Main navigation menu of the console
// ABOUTME: A huh select embedded as a bubbletea model

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
)

// Destination is a screen reachable from the menu
type Destination int

const (
	DestHome Destination = iota
	DestVenues
	DestFollowups
	DestConnections
	DestEvents
	DestOpportunities
	DestReminders
	DestNotifications
	DestBudget
	DestExpenses
	DestAudio
	DestChat
	DestDiscover
	DestLogout
)

// SelectedMsg is sent when a destination is chosen
type SelectedMsg struct {
	Dest Destination
}

// CancelledMsg is sent when the user leaves the menu with q or esc
type CancelledMsg struct{}

type option struct {
	icon  icons.Icon
	label string
	dest  Destination
}

var options = []option{
	{icons.Home, "Home", DestHome},
	{icons.Venue, "Venues", DestVenues},
	{icons.Contact, "Contact follow-ups", DestFollowups},
	{icons.Connection, "Connections", DestConnections},
	{icons.Event, "Events", DestEvents},
	{icons.Opportunity, "Opportunities", DestOpportunities},
	{icons.Reminder, "Reminders", DestReminders},
	{icons.Bell, "Notifications", DestNotifications},
	{icons.Budget, "Budget", DestBudget},
	{icons.Budget, "Expenses", DestExpenses},
	{icons.Audio, "Audio files", DestAudio},
	{icons.Chat, "Chat rooms", DestChat},
	{icons.Discover, "Discover venues", DestDiscover},
	{icons.Back, "Log out", DestLogout},
}

// Menu is the navigation model
type Menu struct {
	form   *huh.Form
	choice Destination
}

// New creates a menu with the cursor on last
func New(last Destination) *Menu {
	m := &Menu{choice: last}
	m.form = m.build()
	return m
}

func (m *Menu) build() *huh.Form {
	opts := make([]huh.Option[Destination], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.icon.String()+"  "+o.label, o.dest))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Destination]().
				Title("Where to?").
				Options(opts...).
				Value(&m.choice),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc":
			return m, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		dest := m.choice
		m.form = m.build()
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return SelectedMsg{Dest: dest} })
	}
	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// String returns the label of a destination
func (d Destination) String() string {
	for _, o := range options {
		if o.dest == d {
			return o.label
		}
	}
	return "unknown"
}
