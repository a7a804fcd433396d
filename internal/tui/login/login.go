// ABOUTME: Login form shown when the console has no valid session
// ABOUTME: Collects credentials and hands them to the app to submit

package login

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
)

// SubmitMsg carries the entered credentials
type SubmitMsg struct {
	Username string
	Password string
}

// Login is the login screen model
type Login struct {
	form     *huh.Form
	username string
	password string
	err      string
	busy     bool
	notice   string
}

// New creates a login form. notice is shown above the form, e.g. when a
// session expired.
func New(username, notice string) *Login {
	l := &Login{username: username, notice: notice}
	l.form = l.build()
	return l
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(label + " is required")
		}
		return nil
	}
}

func (l *Login) build() *huh.Form {
	l.password = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&l.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(required("password")),
		).Title("Sign in").
			Description("Log in to your venue account"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.busy {
		return l, nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		l.err = ""
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.busy = true
		submit := SubmitMsg{Username: strings.TrimSpace(l.username), Password: l.password}
		return l, func() tea.Msg { return submit }
	}
	return l, cmd
}

// Failed shows err and resets the form for another attempt, keeping the
// username.
func (l *Login) Failed(err error) tea.Cmd {
	l.busy = false
	l.err = err.Error()
	l.form = l.build()
	return l.form.Init()
}

// Busy reports whether a submission is in flight
func (l *Login) Busy() bool { return l.busy }

// View implements tea.Model
func (l *Login) View() string {
	var b strings.Builder
	if l.notice != "" {
		b.WriteString(styles.StatusWarning.Render(l.notice))
		b.WriteString("\n\n")
	}
	if l.busy {
		b.WriteString(styles.Subtitle.Render("Signing in as " + l.username + "..."))
		return b.String()
	}
	b.WriteString(l.form.View())
	if l.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.InlineError.Render(l.err))
	}
	return b.String()
}
