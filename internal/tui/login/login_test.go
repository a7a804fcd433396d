// ABOUTME: Tests for the login screen
// ABOUTME: Drives the huh form with key messages

package login

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(l *Login, s string) {
	for _, r := range s {
		l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestFailedKeepsUsernameAndShowsError(t *testing.T) {
	l := New("dana", "")
	l.busy = true
	l.password = "secret"

	l.Failed(errors.New("backend error: Unable to log in with provided credentials."))

	if l.Busy() {
		t.Error("expected busy to clear after failure")
	}
	if l.username != "dana" {
		t.Errorf("expected username kept, got %q", l.username)
	}
	if l.password != "" {
		t.Error("expected password cleared")
	}
	if !strings.Contains(l.View(), "Unable to log in") {
		t.Error("expected error in view")
	}
}

func TestNoticeShown(t *testing.T) {
	l := New("", "Session expired, please log in again")
	if !strings.Contains(l.View(), "Session expired") {
		t.Error("expected notice in view")
	}
}

func TestBusyIgnoresInput(t *testing.T) {
	l := New("dana", "")
	l.Init()
	l.busy = true
	typeText(l, "x")
	if l.username != "dana" {
		t.Errorf("expected input ignored while busy, got %q", l.username)
	}
	if !strings.Contains(l.View(), "Signing in as dana") {
		t.Error("expected busy message")
	}
}

func TestRequired(t *testing.T) {
	if err := required("username")("  "); err == nil {
		t.Error("expected error for blank value")
	}
	if err := required("username")("dana"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
