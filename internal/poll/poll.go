// ABOUTME: Cancellable fixed-interval task used by the chat room and notification badge
// ABOUTME: Runs a function immediately, then on every tick, until stopped

package poll

import (
	"context"
	"sync"
	"time"
)

// Task is a running periodic function. The zero value is not usable; use Start.
type Task struct {
	cancel  context.CancelFunc
	trigger chan struct{}
	done    chan struct{}

	stopOnce sync.Once
}

// Start runs fn once right away and then every interval until ctx is done or
// Stop is called. Runs never overlap.
func Start(ctx context.Context, interval time.Duration, fn func(context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel:  cancel,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go t.loop(ctx, interval, fn)
	return t
}

func (t *Task) loop(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		// Stop may have raced with the tick that woke us.
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		case <-t.trigger:
			run()
			ticker.Reset(interval)
		}
	}
}

// Trigger asks for an extra run as soon as possible. Requests made while one
// is already queued collapse into it.
func (t *Task) Trigger() {
	select {
	case t.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the task and waits for an in-flight run to return. Once Stop
// returns, fn is never called again. Safe to call more than once.
func (t *Task) Stop() {
	t.stopOnce.Do(t.cancel)
	<-t.done
}

// Done is closed when the loop has exited.
func (t *Task) Done() <-chan struct{} { return t.done }
