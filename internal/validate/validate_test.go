// ABOUTME: Tests for form-level input checks
// ABOUTME: Verifies choice fields, amounts, radius and audio edit parameters

package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

func TestName(t *testing.T) {
	if err := Name("name", "The Fillmore"); err != nil {
		t.Errorf("expected valid name, got %v", err)
	}
	for _, bad := range []string{"", "   ", strings.Repeat("x", 256)} {
		err := Name("name", bad)
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != "name" {
			t.Errorf("Name(%q): expected FieldError on name, got %v", bad, err)
		}
	}
}

func TestOpportunityStatus(t *testing.T) {
	for _, s := range client.OpportunityStatuses {
		if err := OpportunityStatus(s); err != nil {
			t.Errorf("OpportunityStatus(%q) returned error: %v", s, err)
		}
	}
	for _, bad := range []string{"", "Active", "pending", "active\n"} {
		if err := OpportunityStatus(bad); err == nil {
			t.Errorf("OpportunityStatus(%q) returned nil, expected error", bad)
		}
	}
}

func TestOpportunityStatusSanitizesMessage(t *testing.T) {
	err := OpportunityStatus("bad\x1b[31m")
	if err == nil || strings.ContainsRune(err.Error(), 0x1b) {
		t.Errorf("expected control characters stripped from %q", err)
	}
}

func TestPriority(t *testing.T) {
	for _, p := range []string{"", "low", "medium", "high", "urgent"} {
		if err := Priority(p); err != nil {
			t.Errorf("Priority(%q) returned error: %v", p, err)
		}
	}
	if err := Priority("critical"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want client.Decimal
		ok   bool
	}{
		{"12", "12", true},
		{"12.5", "12.5", true},
		{"$49.99", "49.99", true},
		{" 3.00 ", "3.00", true},
		{"0", "", false},
		{"0.00", "", false},
		{"-5", "", false},
		{"1.999", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := Amount(tt.in)
		if tt.ok && err != nil {
			t.Errorf("Amount(%q) returned error: %v", tt.in, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("Amount(%q) returned nil, expected error", tt.in)
		}
		if got != tt.want {
			t.Errorf("Amount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRadius(t *testing.T) {
	for _, r := range []int{1, 10, 100} {
		if err := Radius(r); err != nil {
			t.Errorf("Radius(%d) returned error: %v", r, err)
		}
	}
	for _, r := range []int{0, -1, 101} {
		if err := Radius(r); err == nil {
			t.Errorf("Radius(%d) returned nil, expected error", r)
		}
	}
}

func TestColorAndDate(t *testing.T) {
	if err := Color("#1f77b4"); err != nil {
		t.Errorf("unexpected color error: %v", err)
	}
	if err := Color("blue"); err == nil {
		t.Error("expected error for named color")
	}
	if err := Date("start_date", ""); err != nil {
		t.Errorf("empty date should be allowed, got %v", err)
	}
	if err := Date("start_date", "2024-02-30"); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestEditParams(t *testing.T) {
	tests := []struct {
		name     string
		editType string
		params   map[string]any
		wantErr  string
	}{
		{"speed ok", client.EditSpeed, map[string]any{"speed_factor": 1.5}, ""},
		{"speed too fast", client.EditSpeed, map[string]any{"speed_factor": 3.0}, "speed_factor"},
		{"volume boundary", client.EditVolume, map[string]any{"volume_change_db": -12}, ""},
		{"volume too loud", client.EditVolume, map[string]any{"volume_change_db": 13.0}, "volume_change_db"},
		{"reverb defaults", client.EditReverb, map[string]any{}, ""},
		{"reverb damping", client.EditReverb, map[string]any{"damping": 1.2}, "damping"},
		{"trim ok", client.EditTrim, map[string]any{"start_ms": 1000.0, "end_ms": 5000.0}, ""},
		{"trim reversed", client.EditTrim, map[string]any{"start_ms": 5000.0, "end_ms": 1000.0}, "end_ms"},
		{"unknown param", client.EditSpeed, map[string]any{"pitch": 2.0}, "pitch"},
		{"not a number", client.EditSpeed, map[string]any{"speed_factor": "fast"}, "speed_factor"},
		{"unknown type", "echo", map[string]any{}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EditParams(tt.editType, tt.params)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Field != tt.wantErr {
				t.Errorf("expected error on %s, got %s", tt.wantErr, fe.Field)
			}
		})
	}
}

func TestEditParamsFillsDefaults(t *testing.T) {
	params := map[string]any{}
	if err := EditParams(client.EditReverb, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params["room_scale"] != 0.7 || params["damping"] != 0.5 {
		t.Errorf("expected defaults, got %v", params)
	}
}

func TestParseParams(t *testing.T) {
	got, err := ParseParams([]string{"start_ms=1000", " end_ms = 2500.5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["start_ms"] != 1000.0 || got["end_ms"] != 2500.5 {
		t.Errorf("unexpected params %v", got)
	}
	for _, bad := range []string{"start_ms", "=3", "speed_factor=fast"} {
		if _, err := ParseParams([]string{bad}); err == nil {
			t.Errorf("ParseParams(%q) returned nil, expected error", bad)
		}
	}
}
