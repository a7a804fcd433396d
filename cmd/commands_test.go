// ABOUTME: Tests for the resource commands against a fake backend
// ABOUTME: Covers output formatting, input checks before requests, and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/store"
)

func TestRunVenuesList(t *testing.T) {
	capacity := 500
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/venues/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, []client.Venue{{ID: 1, Name: "The Roxy", City: "Los Angeles", StateAbbreviation: "CA", Capacity: &capacity}})
	})
	e := newTestEnv(t, mux)
	venueStateFilter = 5
	defer func() { venueStateFilter = 0 }()

	var buf bytes.Buffer
	if code := runVenuesList(context.Background(), e, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if gotPath != "/venues/states/5/venues/" {
		t.Errorf("expected the per-state path, got %s", gotPath)
	}
	for _, want := range []string{"The Roxy", "Los Angeles", "500"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestRunVenueAdd_RequiresName(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/venues/", func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	e := newTestEnv(t, mux)
	venueAdd = client.VenueInput{Name: "   ", State: 1}
	defer func() { venueAdd = client.VenueInput{} }()

	var buf bytes.Buffer
	if code := runVenueAdd(context.Background(), e, false, &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if calls.Load() != 0 {
		t.Error("expected no request for invalid input")
	}
}

func TestRunReminderCheck(t *testing.T) {
	overdue := []client.Reminder{
		{ID: 1, Title: "Call booker", DueDate: time.Now().Add(-48 * time.Hour)},
		{ID: 2, Title: "Send EPK", DueDate: time.Now().Add(-2 * time.Hour)},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/reminders/overdue/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, overdue)
	})
	mux.HandleFunc("/notifications/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("read") != "false" {
			t.Errorf("expected unread filter, got %q", r.URL.RawQuery)
		}
		writeJSON(w, []client.ReminderNotification{{ID: 9}})
	})

	tests := []struct {
		name       string
		maxOverdue int
		maxUnread  int
		wantCode   int
		wantText   string
	}{
		{"within thresholds", 2, 1, exitOK, "PASSED"},
		{"too many overdue", 1, -1, exitFailed, "FAILED: 1"},
		{"too many unread", 5, 0, exitFailed, "Unread notifications: 1 (threshold: 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, copyMux(mux))
			maxOverdue, maxUnread = tt.maxOverdue, tt.maxUnread
			defer func() { maxOverdue, maxUnread = 0, -1 }()

			var buf bytes.Buffer
			code := runReminderCheck(context.Background(), e, &buf)
			if code != tt.wantCode {
				t.Errorf("expected exit %d, got %d: %s", tt.wantCode, code, buf.String())
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("expected %q in output:\n%s", tt.wantText, buf.String())
			}
		})
	}
}

// copyMux wraps mux so each test env can register its own /auth/user/
func copyMux(inner *http.ServeMux) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", inner)
	return mux
}

func TestRunReminderCheck_JSON(t *testing.T) {
	withJSON(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/reminders/overdue/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []client.Reminder{{ID: 1, DueDate: time.Now().Add(-time.Hour)}})
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	code := runReminderCheck(context.Background(), e, &buf)

	var out struct {
		Status string `json:"status"`
		Checks []struct {
			Value  int  `json:"value"`
			Passed bool `json:"passed"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("expected JSON, got %q: %v", buf.String(), err)
	}
	if code != exitFailed || out.Status != "failed" || len(out.Checks) != 1 || out.Checks[0].Value != 1 {
		t.Errorf("unexpected result %d %+v", code, out)
	}
}

func TestRunRemindersList_OpenByDefault(t *testing.T) {
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("/reminders/", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, []client.Reminder{{ID: 3, Title: "Book studio", DueDate: time.Now().Add(-time.Hour), Priority: "high"}})
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	if code := runRemindersList(context.Background(), e, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(query, "completed=false") {
		t.Errorf("expected open reminders only, got query %q", query)
	}
	if !strings.Contains(buf.String(), "(overdue)") {
		t.Errorf("expected the overdue marker, got:\n%s", buf.String())
	}
}

func TestParseDue(t *testing.T) {
	for _, in := range []string{"2026-05-31", "2026-05-31T09:00", "2026-05-31 09:00", "2026-05-31T09:00:00Z"} {
		if _, err := parseDue(in); err != nil {
			t.Errorf("parseDue(%q): %v", in, err)
		}
	}
	if _, err := parseDue("next tuesday"); err == nil {
		t.Error("expected an error for free text")
	}
}

func TestRunOpportunityStatus_Invalid(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/networking/", func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	code := runOpportunityStatus(context.Background(), e, "4", "hired", &buf)

	if code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(buf.String(), "offer_received") {
		t.Errorf("expected the allowed statuses, got %q", buf.String())
	}
	if calls.Load() != 0 {
		t.Error("expected no request for an invalid status")
	}
}

func TestRunOpportunityStatus(t *testing.T) {
	var body map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/networking/opportunities/4/update_status/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, client.Opportunity{ID: 4, Title: "Summer residency", Status: body["status"]})
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	if code := runOpportunityStatus(context.Background(), e, "4", "interviewing", &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if body["status"] != "interviewing" {
		t.Errorf("unexpected body %v", body)
	}
	if !strings.Contains(buf.String(), "Summer residency is now interviewing") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestExpenseFilter(t *testing.T) {
	defer func() { budgetFrom, budgetTo = "", "" }()

	budgetFrom, budgetTo = "2026-01-01", "2026-03-31"
	f, err := expenseFilter()
	if err != nil || f.StartDate != "2026-01-01" || f.EndDate != "2026-03-31" {
		t.Errorf("unexpected filter %+v, %v", f, err)
	}

	budgetFrom, budgetTo = "2026-03-31", "2026-01-01"
	if _, err := expenseFilter(); err == nil {
		t.Error("expected an error for a reversed range")
	}

	budgetFrom, budgetTo = "March", ""
	if _, err := expenseFilter(); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestRunExpenseAdd(t *testing.T) {
	var got client.ExpenseInput
	mux := http.NewServeMux()
	mux.HandleFunc("/budget/expenses/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, client.Expense{ID: 11, Amount: got.Amount, Date: got.Date})
	})
	e := newTestEnv(t, mux)
	expenseAmount, expenseDate = "$42.5", "2026-04-02"
	defer func() { expenseAmount, expenseDate = "", "" }()

	var buf bytes.Buffer
	if code := runExpenseAdd(context.Background(), e, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if got.Amount != "42.5" || got.Date != "2026-04-02" {
		t.Errorf("unexpected payload %+v", got)
	}
	if !strings.Contains(buf.String(), "Recorded $42.50 on 2026-04-02") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunExpenseAdd_BadAmount(t *testing.T) {
	e := newTestEnv(t, http.NewServeMux())
	expenseAmount = "12.345"
	defer func() { expenseAmount = "" }()

	var buf bytes.Buffer
	if code := runExpenseAdd(context.Background(), e, &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
}

func TestRunBudgetSummary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/budget/expenses/summary/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start_date") != "2026-01-01" {
			t.Errorf("expected start_date, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"total": 120.5, "by_category": [{"id": 1, "name": "Travel", "total": "100.00"}], "by_month": [{"month": "2026-01", "total": 120.5}]}`)
	})
	e := newTestEnv(t, mux)
	budgetFrom = "2026-01-01"
	defer func() { budgetFrom = "" }()

	var buf bytes.Buffer
	if code := runBudgetSummary(context.Background(), e, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	for _, want := range []string{"Total: $120.50", "Travel", "$100.00", "2026-01"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestRunDiscoverImport(t *testing.T) {
	var body map[string][]int
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/searches/42/import/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, client.ImportResult{Imported: 2})
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	if code := runDiscoverImport(context.Background(), e, []string{"42", "0", "3"}, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if got := body["venue_indices"]; len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("unexpected indices %v", got)
	}
	if !strings.Contains(buf.String(), "Imported 2 venue(s)") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunDiscoverImport_BadIndex(t *testing.T) {
	e := newTestEnv(t, http.NewServeMux())

	var buf bytes.Buffer
	if code := runDiscoverImport(context.Background(), e, []string{"42", "-1"}, &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
}

func TestRunDiscoverVenues_RadiusChecked(t *testing.T) {
	e := newTestEnv(t, http.NewServeMux())
	discoverState, discoverCity, discoverRadius = "California", "Oakland", 500
	defer func() { discoverState, discoverCity, discoverRadius = "", "", 25 }()

	var buf bytes.Buffer
	if code := runDiscoverVenues(context.Background(), e, &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(buf.String(), "radius") {
		t.Errorf("expected a radius error, got %q", buf.String())
	}
}

func TestPrintSearch(t *testing.T) {
	s := &client.Search{
		ID: 7, State: "California", City: "Oakland", Radius: 25,
		Results: json.RawMessage(`[{"name": "Fox Theater", "city": "Oakland"}, {"name": "The New Parish"}]`),
	}
	var buf bytes.Buffer
	printSearch(&buf, s)

	for _, want := range []string{"Search #7", "Fox Theater", "The New Parish", "venue discover import 7"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestRunChatSend_Empty(t *testing.T) {
	e := newTestEnv(t, http.NewServeMux())

	var buf bytes.Buffer
	if code := runChatSend(context.Background(), e, "1", "   ", &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
}

func TestRunChatMessages_Limit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/rooms/1/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []client.Message{
			{ID: 1, Content: "first", Sender: client.User{Username: "maya"}},
			{ID: 2, Content: "second", Sender: client.User{Username: "jo"}},
			{ID: 3, Content: "third", Sender: client.User{Username: "maya"}},
		})
	})
	e := newTestEnv(t, mux)
	chatLimit = 2
	defer func() { chatLimit = 20 }()

	var buf bytes.Buffer
	if code := runChatMessages(context.Background(), e, "1", &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if strings.Contains(buf.String(), "first") || !strings.Contains(buf.String(), "jo: second") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunChatTail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/rooms/1/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.Room{ID: 1, Name: "Bookers"})
	})
	mux.HandleFunc("/chat/rooms/1/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []client.Message{{ID: 5, Content: "anyone free friday?", Sender: client.User{Username: "jo"}}})
	})
	e := newTestEnv(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if code := runChatTail(ctx, e, "1", &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if n := strings.Count(buf.String(), "anyone free friday?"); n != 1 {
		t.Errorf("expected the message printed once, got %d times:\n%s", n, buf.String())
	}
}

func TestRunAudioUpload_RejectsUnknownType(t *testing.T) {
	e := newTestEnv(t, http.NewServeMux())
	path := filepath.Join(t.TempDir(), "notes.txt")
	os.WriteFile(path, []byte("hello"), 0o600)

	var buf bytes.Buffer
	if code := runAudioUpload(context.Background(), e, path, &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
}

func TestRunAudioUpload_RemembersFile(t *testing.T) {
	var title string
	mux := http.NewServeMux()
	mux.HandleFunc("/audio/", func(w http.ResponseWriter, r *http.Request) {
		title = r.FormValue("title")
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, client.AudioFile{ID: 3, Title: title})
	})
	e := newTestEnv(t, mux)
	path := filepath.Join(t.TempDir(), "demo take.mp3")
	os.WriteFile(path, []byte("ID3"), 0o600)

	var buf bytes.Buffer
	if code := runAudioUpload(context.Background(), e, path, &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if title != "demo take" {
		t.Errorf("expected the file name as title, got %q", title)
	}
	recent := store.NewRecentFiles(e.cfg.ConfigDir).List()
	if len(recent) != 1 || filepath.Base(recent[0]) != "demo take.mp3" {
		t.Errorf("expected the upload in recent files, got %v", recent)
	}
}

func TestRunAudioEdit_ParamsChecked(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/audio/", func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	e := newTestEnv(t, mux)
	audioEditType, audioParams = "volume", []string{"volume_change_db=40"}
	defer func() { audioEditType, audioParams = "", nil }()

	var buf bytes.Buffer
	if code := runAudioEdit(context.Background(), e, "3", &buf); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if calls.Load() != 0 {
		t.Error("expected no request for an out-of-range parameter")
	}
}

func TestRunAudioDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/audio/3/download/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		io.WriteString(w, "ID3-audio-bytes")
	})
	e := newTestEnv(t, mux)
	audioOutput = filepath.Join(t.TempDir(), "out.mp3")
	defer func() { audioOutput = "" }()

	var buf bytes.Buffer
	if code := runAudioDownload(context.Background(), e, "3", &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	data, err := os.ReadFile(audioOutput)
	if err != nil || string(data) != "ID3-audio-bytes" {
		t.Errorf("unexpected file %q, %v", data, err)
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		af   client.AudioFile
		want string
	}{
		{client.AudioFile{ID: 1, Title: "Demo", File: "/media/audio/demo_x1.mp3"}, "Demo.mp3"},
		{client.AudioFile{ID: 2, Title: "a/b", FileType: "wav"}, "a_b.wav"},
		{client.AudioFile{ID: 3, Title: " "}, "audio-3"},
	}
	for _, tt := range tests {
		if got := downloadName(&tt.af); got != tt.want {
			t.Errorf("downloadName(%+v) = %q, want %q", tt.af, got, tt.want)
		}
	}
}

func TestFormatParams(t *testing.T) {
	got := formatParams(map[string]any{"end_ms": 3000.0, "start_ms": 500.0})
	if got != "start_ms=500 end_ms=3000" {
		t.Errorf("unexpected %q", got)
	}
}
