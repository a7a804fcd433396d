// ABOUTME: Polling synchronizer for a single chat room
// ABOUTME: Keeps the confirmed message list in step with the backend and reconciles optimistic sends

package chat

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/config"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/poll"
)

var (
	// ErrReauthenticate is shown when the backend rejects the credential.
	ErrReauthenticate = errors.New("authentication error, please log in again")
	// ErrFetchFailed is shown for any other failed poll.
	ErrFetchFailed = errors.New("network error when fetching messages")
)

// MessageAPI is the part of the chat service a Room needs.
type MessageAPI interface {
	Room(ctx context.Context, id int) (*client.Room, error)
	Messages(ctx context.Context, roomID int) ([]client.Message, error)
	Send(ctx context.Context, roomID int, content string) (*client.Message, error)
}

// State of a room view
type State int

const (
	StateLoading State = iota
	StateSynchronized
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSynchronized:
		return "synchronized"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Entry is one displayed line. Pending entries have no server ID yet.
type Entry struct {
	ID        int
	Seq       uint64
	Author    string
	Content   string
	Timestamp time.Time
	Pending   bool
}

// View is a consistent copy of the room state for rendering. Err is the
// last poll failure; SendErr is the last failed send and survives polls.
type View struct {
	State     State
	Room      *client.Room
	Messages  []Entry
	Err       error
	SendErr   error
	LastFetch time.Time
}

type pendingSend struct {
	seq     uint64
	content string
	at      time.Time
	// acked is set once the create call succeeds. serverID may still be
	// zero when the backend answered without an id.
	acked    bool
	serverID int
	// confirmedGen is the fetch generation current when the send was acked.
	confirmedGen uint64
}

// Option configures a Room
type Option func(*Room)

// WithInterval sets the poll period.
func WithInterval(d time.Duration) Option {
	return func(r *Room) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Room) { r.now = now }
}

// Room synchronizes one chat room by polling.
type Room struct {
	api      MessageAPI
	roomID   int
	self     string
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	state     State
	room      *client.Room
	confirmed []client.Message
	pending   []pendingSend
	err       error
	sendErr   error
	lastFetch time.Time
	seq       uint64
	fetchGen  uint64
	applied   uint64
	task      *poll.Task
	stopped   bool

	updates chan struct{}
}

// NewRoom creates a synchronizer for roomID. self is the display name used
// for optimistic entries.
func NewRoom(api MessageAPI, roomID int, self string, opts ...Option) *Room {
	r := &Room{
		api:      api,
		roomID:   roomID,
		self:     self,
		interval: config.DefaultPollInterval,
		now:      time.Now,
		state:    StateLoading,
		updates:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the room identifier
func (r *Room) ID() int { return r.roomID }

// Updates signals after every visible change. Signals are coalesced.
func (r *Room) Updates() <-chan struct{} { return r.updates }

func (r *Room) notify() {
	select {
	case r.updates <- struct{}{}:
	default:
	}
}

// Start loads the room and begins polling. It returns immediately; the first
// fetch runs in the background. Calling Start on a running room does
// nothing; a stopped room can be started again.
func (r *Room) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.task != nil {
		return
	}
	r.stopped = false
	r.task = poll.Start(ctx, r.interval, r.tick)
	slog.Debug("Chat polling started", "room", r.roomID, "interval", r.interval)
}

// Stop ends polling and waits for an in-flight fetch. No fetch is issued
// after Stop returns.
func (r *Room) Stop() {
	r.mu.Lock()
	task := r.task
	r.task = nil
	r.stopped = true
	r.mu.Unlock()
	if task == nil {
		return
	}
	task.Stop()
	slog.Debug("Chat polling stopped", "room", r.roomID)
}

func (r *Room) tick(ctx context.Context) {
	r.mu.Lock()
	needRoom := r.room == nil
	r.mu.Unlock()

	if needRoom {
		room, err := r.api.Room(ctx, r.roomID)
		if err != nil {
			slog.Debug("Chat room metadata fetch failed", "room", r.roomID, "error", err)
		} else {
			r.mu.Lock()
			r.room = room
			r.mu.Unlock()
			r.notify()
		}
	}
	r.FetchMessages(ctx)
}

// FetchMessages replaces the confirmed list with the backend's. On failure
// the previous list is kept and the error is recorded for display.
func (r *Room) FetchMessages(ctx context.Context) error {
	r.mu.Lock()
	r.fetchGen++
	gen := r.fetchGen
	r.mu.Unlock()

	msgs, err := r.api.Messages(ctx, r.roomID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		slog.Debug("Chat fetch failed", "room", r.roomID, "error", err)
		shown := ErrFetchFailed
		if errors.Is(err, client.ErrUnauthorized) {
			shown = ErrReauthenticate
		}
		if r.state != StateError || r.err != shown {
			r.state = StateError
			r.err = shown
			r.notify()
		}
		return shown
	}

	// An older fetch that finished late must not overwrite a newer result.
	if gen < r.applied {
		return nil
	}
	r.applied = gen

	changed := r.state != StateSynchronized || listChanged(r.confirmed, msgs)
	r.confirmed = msgs
	r.err = nil
	r.state = StateSynchronized
	r.lastFetch = r.now()

	kept := r.pending[:0]
	for _, p := range r.pending {
		switch {
		case p.acked && p.serverID != 0 && containsID(msgs, p.serverID):
		case p.acked && gen > p.confirmedGen:
			// Confirmed before this fetch began but absent from it.
		default:
			kept = append(kept, p)
			continue
		}
		changed = true
	}
	r.pending = kept

	if changed {
		r.notify()
	}
	return nil
}

// Send posts text to the room. Blank text is ignored. The message is shown
// as pending until the backend confirms it; a failed send removes it and is
// kept in SendErr until the next successful send or DismissSendError. Either
// way a reconciling fetch follows.
func (r *Room) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.pending = append(r.pending, pendingSend{seq: seq, content: text, at: r.now()})
	r.mu.Unlock()
	r.notify()

	msg, err := r.api.Send(ctx, r.roomID, text)

	r.mu.Lock()
	idx := slices.IndexFunc(r.pending, func(p pendingSend) bool { return p.seq == seq })
	var serverID int
	if msg != nil {
		serverID = msg.ID
	}
	switch {
	case err != nil:
		if idx >= 0 {
			r.pending = slices.Delete(r.pending, idx, idx+1)
		}
		slog.Debug("Chat send failed", "room", r.roomID, "error", err)
		if errors.Is(err, client.ErrUnauthorized) {
			err = ErrReauthenticate
		}
		r.sendErr = err
	case idx >= 0 && serverID != 0 && containsID(r.confirmed, serverID):
		r.pending = slices.Delete(r.pending, idx, idx+1)
		r.sendErr = nil
	case idx >= 0:
		// Without an id the entry is dropped by the next fetch that starts
		// after this point, whatever it contains.
		r.pending[idx].acked = true
		r.pending[idx].serverID = serverID
		r.pending[idx].confirmedGen = r.fetchGen
		r.sendErr = nil
	default:
		r.sendErr = nil
	}
	r.mu.Unlock()
	r.notify()

	r.reconcile(ctx)
	return err
}

// DismissSendError clears the last send failure.
func (r *Room) DismissSendError() {
	r.mu.Lock()
	cleared := r.sendErr != nil
	r.sendErr = nil
	r.mu.Unlock()
	if cleared {
		r.notify()
	}
}

// reconcile asks the poller for an immediate fetch, or fetches inline when
// the room was never started. A stopped room does not fetch.
func (r *Room) reconcile(ctx context.Context) {
	r.mu.Lock()
	task, stopped := r.task, r.stopped
	r.mu.Unlock()

	if stopped {
		return
	}
	if task != nil {
		task.Trigger()
		return
	}
	r.FetchMessages(ctx)
}

// Snapshot returns a copy of the current state. Pending entries follow the
// confirmed ones.
func (r *Room) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.confirmed)+len(r.pending))
	for _, m := range r.confirmed {
		entries = append(entries, Entry{
			ID:        m.ID,
			Author:    m.Author(),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	for _, p := range r.pending {
		if p.serverID != 0 && containsID(r.confirmed, p.serverID) {
			continue
		}
		entries = append(entries, Entry{
			Seq:       p.seq,
			Author:    r.self,
			Content:   p.content,
			Timestamp: p.at,
			Pending:   true,
		})
	}

	var room *client.Room
	if r.room != nil {
		cp := *r.room
		room = &cp
	}
	return View{
		State:     r.state,
		Room:      room,
		Messages:  entries,
		Err:       r.err,
		SendErr:   r.sendErr,
		LastFetch: r.lastFetch,
	}
}

// listChanged compares by length and trailing id.
func listChanged(prev, next []client.Message) bool {
	if len(prev) != len(next) {
		return true
	}
	if len(next) == 0 {
		return false
	}
	return prev[len(prev)-1].ID != next[len(next)-1].ID
}

func containsID(msgs []client.Message, id int) bool {
	return slices.ContainsFunc(msgs, func(m client.Message) bool { return m.ID == id })
}
