// ABOUTME: Unread reminder-notification counter shown in the console header
// ABOUTME: Polls the notifications endpoint on a fixed interval

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/poll"
)

// UnreadAPI lists unread notifications
type UnreadAPI interface {
	Unread(ctx context.Context) ([]client.ReminderNotification, error)
}

// Badge keeps the last known unread count.
type Badge struct {
	api      UnreadAPI
	interval time.Duration

	mu      sync.Mutex
	count   int
	latest  []client.ReminderNotification
	known   bool
	task    *poll.Task
	updates chan struct{}
}

// NewBadge creates a stopped badge
func NewBadge(api UnreadAPI, interval time.Duration) *Badge {
	return &Badge{
		api:      api,
		interval: interval,
		updates:  make(chan struct{}, 1),
	}
}

// Start begins polling until Stop or ctx is done.
func (b *Badge) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.task != nil {
		return
	}
	b.task = poll.Start(ctx, b.interval, b.refresh)
}

// Stop ends polling
func (b *Badge) Stop() {
	b.mu.Lock()
	task := b.task
	b.task = nil
	b.mu.Unlock()
	if task != nil {
		task.Stop()
	}
}

// Refresh asks for an immediate recount, e.g. after marking items read.
func (b *Badge) Refresh() {
	b.mu.Lock()
	task := b.task
	b.mu.Unlock()
	if task != nil {
		task.Trigger()
	}
}

func (b *Badge) refresh(ctx context.Context) {
	items, err := b.api.Unread(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Debug("Notification poll failed, keeping last count", "error", err)
		}
		return
	}

	b.mu.Lock()
	changed := !b.known || b.count != len(items)
	b.count = len(items)
	b.latest = items
	b.known = true
	b.mu.Unlock()

	if changed {
		select {
		case b.updates <- struct{}{}:
		default:
		}
	}
}

// Count returns the unread count and whether any poll has succeeded yet.
func (b *Badge) Count() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count, b.known
}

// Latest returns the unread notifications from the last successful poll.
func (b *Badge) Latest() []client.ReminderNotification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]client.ReminderNotification(nil), b.latest...)
}

// Updates signals when the count changes
func (b *Badge) Updates() <-chan struct{} { return b.updates }
