// ABOUTME: Tests for the audio edit wizard
// ABOUTME: Walks the steps and checks parameter validation

package audioedit

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

func track() *client.AudioFile {
	d := 42.5
	return &client.AudioFile{ID: 7, Title: "Demo Take 3", Duration: &d, WaveformData: json.RawMessage(`[0.1,0.4,0.9,0.3]`)}
}

func TestTrimDefaultsToFileLength(t *testing.T) {
	w := New(track(), 80)
	w.advance()

	if w.step != 2 {
		t.Fatalf("expected step 2, got %d", w.step)
	}
	if got := *w.values["end_ms"]; got != "42500" {
		t.Errorf("expected end_ms from duration, got %q", got)
	}
	if got := *w.values["start_ms"]; got != "0" {
		t.Errorf("expected start_ms 0, got %q", got)
	}
}

func TestOutOfRangeStaysOnParameters(t *testing.T) {
	w := New(track(), 80)
	w.editType = client.EditSpeed
	w.advance()
	*w.values["speed_factor"] = "3"

	w.advance()
	if w.step != 2 {
		t.Errorf("expected to remain on step 2, got %d", w.step)
	}
	if !strings.Contains(w.err, "speed_factor") {
		t.Errorf("expected speed_factor error, got %q", w.err)
	}
	if got := *w.values["speed_factor"]; got != "3" {
		t.Errorf("expected entered value kept, got %q", got)
	}
}

func TestConfirmEmitsApply(t *testing.T) {
	w := New(track(), 80)
	w.editType = client.EditReverb
	w.advance()
	*w.values["room_scale"] = "0.9"
	w.advance()
	if w.step != 3 {
		t.Fatalf("expected confirm step, got %d", w.step)
	}

	_, cmd := w.advance()
	msg, ok := cmd().(ApplyMsg)
	if !ok {
		t.Fatalf("expected ApplyMsg, got %T", cmd())
	}
	if msg.FileID != 7 || msg.EditType != client.EditReverb {
		t.Errorf("unexpected apply %+v", msg)
	}
	if msg.Params["room_scale"] != 0.9 || msg.Params["damping"] != 0.5 {
		t.Errorf("unexpected params %v", msg.Params)
	}
	if !w.busy {
		t.Error("expected busy while applying")
	}
}

func TestDeclineReturnsToParameters(t *testing.T) {
	w := New(track(), 80)
	w.editType = client.EditVolume
	w.advance()
	w.advance()
	w.confirm = false

	_, cmd := w.advance()
	if w.step != 2 {
		t.Errorf("expected step 2 after declining, got %d", w.step)
	}
	if cmd != nil {
		if _, ok := cmd().(ApplyMsg); ok {
			t.Error("expected no apply after declining")
		}
	}
}

func TestAppliedAndError(t *testing.T) {
	w := New(track(), 80)
	w.SetApplied(&client.AudioEdit{ID: 3, EditType: client.EditTrim})
	if !strings.Contains(w.View(), "trim applied (edit #3)") {
		t.Errorf("expected applied message, got:\n%s", w.View())
	}
	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := cmd().(DoneMsg); !ok {
		t.Error("expected DoneMsg after applied")
	}

	w = New(track(), 80)
	w.busy = true
	w.SetError(errors.New("backend error: Failed to process audio"))
	if w.busy || w.step != 2 || !strings.Contains(w.View(), "Failed to process audio") {
		t.Error("expected error shown on parameters step")
	}
}

func TestWaveform(t *testing.T) {
	if got := Waveform(track()); len(got) != 4 {
		t.Errorf("expected 4 samples, got %v", got)
	}
	if Waveform(&client.AudioFile{WaveformData: json.RawMessage(`{"peaks":[]}`)}) != nil {
		t.Error("expected nil for unknown shape")
	}
	if Waveform(nil) != nil {
		t.Error("expected nil for nil file")
	}
}
