// ABOUTME: Tests for the profile and outreach commands
// ABOUTME: Runs them against a fake email generator backend

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

func TestRunProfile(t *testing.T) {
	phone := "555-0100"
	mux := http.NewServeMux()
	mux.HandleFunc("/profiles/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.Profile{
			ID:          1,
			ArtistName:  "Maya and the Night Shift",
			Bio:         "Four-piece soul band.",
			Genres:      []string{"soul", "funk"},
			PhoneNumber: &phone,
			SocialLinks: []client.ProfileLink{{Label: "Bandcamp", URL: "https://nightshift.bandcamp.com"}},
		})
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	if code := runProfile(context.Background(), e, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	for _, want := range []string{"Maya and the Night Shift", "soul, funk", "555-0100", "Bandcamp: https://nightshift.bandcamp.com", "Four-piece soul band."} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestRunOutreachGenerate(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/email-generator/generate/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, client.Generated{Email: "Hi Roxy team,", OutreachID: 9})
	})
	e := newTestEnv(t, mux)
	outreachVenue, outreachEventDate = "  The Roxy ", "2026-11-20"
	defer func() { outreachVenue, outreachEventDate = "", "" }()

	var buf bytes.Buffer
	if code := runOutreachGenerate(context.Background(), e, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if got["venue_name"] != "The Roxy" || got["event_date"] != "2026-11-20" {
		t.Errorf("unexpected payload %v", got)
	}
	if _, ok := got["notes"]; ok {
		t.Error("expected empty notes to be omitted")
	}
	if !strings.Contains(buf.String(), "Hi Roxy team,") || !strings.Contains(buf.String(), "outreach #9") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunOutreachGenerate_BadDate(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/email-generator/generate/", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	e := newTestEnv(t, mux)
	outreachVenue, outreachEventDate = "The Roxy", "next friday"
	defer func() { outreachVenue, outreachEventDate = "", "" }()

	var buf bytes.Buffer
	if code := runOutreachGenerate(context.Background(), e, &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if called {
		t.Error("did not expect a request for an invalid date")
	}
}

func TestRunOutreachHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/email-generator/outreach/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"results": []client.Outreach{
			{ID: 3, VenueName: "The Roxy", SentDate: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)},
		}})
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	if code := runOutreachHistory(context.Background(), e, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "The Roxy") || !strings.Contains(buf.String(), "2026-10-01") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunOutreachShow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/email-generator/outreach/3/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.Outreach{ID: 3, VenueName: "The Roxy", EmailContent: "Hi Roxy team,"})
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	if code := runOutreachShow(context.Background(), e, "3", &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "To: The Roxy") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
