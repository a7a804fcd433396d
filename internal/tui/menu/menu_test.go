// ABOUTME: Tests for the navigation menu
// ABOUTME: Validates labels, selection and cancellation

package menu

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDestinationString(t *testing.T) {
	tests := []struct {
		dest     Destination
		expected string
	}{
		{DestHome, "Home"},
		{DestFollowups, "Contact follow-ups"},
		{DestLogout, "Log out"},
		{Destination(99), "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.dest.String(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestEveryDestinationHasOption(t *testing.T) {
	for d := DestHome; d <= DestLogout; d++ {
		if d.String() == "unknown" {
			t.Errorf("destination %d has no menu option", d)
		}
	}
}

func TestViewListsOptions(t *testing.T) {
	m := New(DestHome)
	m.Init()
	view := m.View()
	for _, want := range []string{"Where to?", "Venues", "Chat rooms"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected menu view to contain %q", want)
		}
	}
}

func TestCancelKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		m := New(DestHome)
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected command", key)
		}
		if _, ok := cmd().(CancelledMsg); !ok {
			t.Errorf("%s: expected CancelledMsg", key)
		}
	}
}
