// ABOUTME: Tests for the unread notification badge
// ABOUTME: Uses an httptest backend behind the real client

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBadgeCountsUnread(t *testing.T) {
	var unread atomic.Int32
	unread.Store(2)
	var lastQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.RawQuery)
		items := make([]client.ReminderNotification, unread.Load())
		for i := range items {
			items[i] = client.ReminderNotification{ID: i + 1, ReminderTitle: "Call promoter"}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}))
	defer server.Close()

	api := client.New(server.URL)
	badge := NewBadge(api.Notifications, 5*time.Millisecond)
	badge.Start(context.Background())
	defer badge.Stop()

	waitFor(t, func() bool {
		n, known := badge.Count()
		return known && n == 2
	})
	if q, _ := lastQuery.Load().(string); q != "read=false" {
		t.Errorf("expected read=false query, got %q", q)
	}

	unread.Store(0)
	waitFor(t, func() bool {
		n, _ := badge.Count()
		return n == 0
	})
	if got := len(badge.Latest()); got != 0 {
		t.Errorf("expected no latest items, got %d", got)
	}
}

type flakyAPI struct {
	calls atomic.Int32
}

func (f *flakyAPI) Unread(ctx context.Context) ([]client.ReminderNotification, error) {
	if f.calls.Add(1) == 1 {
		return []client.ReminderNotification{{ID: 1}, {ID: 2}, {ID: 3}}, nil
	}
	return nil, &client.NetworkError{BaseURL: "http://x", Err: context.DeadlineExceeded}
}

func TestBadgeKeepsCountOnError(t *testing.T) {
	api := &flakyAPI{}
	badge := NewBadge(api, 5*time.Millisecond)
	badge.Start(context.Background())
	waitFor(t, func() bool { return api.calls.Load() >= 3 })
	badge.Stop()

	if n, known := badge.Count(); !known || n != 3 {
		t.Errorf("expected last good count 3, got %d (known=%v)", n, known)
	}
	select {
	case <-badge.Updates():
	default:
		t.Error("expected one update for the first count")
	}
}

func TestBadgeStopHaltsPolling(t *testing.T) {
	api := &flakyAPI{}
	badge := NewBadge(api, 5*time.Millisecond)
	badge.Start(context.Background())
	waitFor(t, func() bool { return api.calls.Load() >= 2 })
	badge.Stop()

	before := api.calls.Load()
	badge.Refresh()
	time.Sleep(30 * time.Millisecond)
	if after := api.calls.Load(); after != before {
		t.Errorf("expected no polls after Stop, got %d more", after-before)
	}
}
