// ABOUTME: Tests for the periodic task
// ABOUTME: Verifies immediate run, ticking, coalesced triggers and stop semantics

package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
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

func TestRunsImmediately(t *testing.T) {
	var calls atomic.Int32
	task := Start(context.Background(), time.Hour, func(context.Context) { calls.Add(1) })
	defer task.Stop()

	waitFor(t, func() bool { return calls.Load() == 1 })
}

func TestRunsOnEachTick(t *testing.T) {
	var calls atomic.Int32
	task := Start(context.Background(), 10*time.Millisecond, func(context.Context) { calls.Add(1) })
	defer task.Stop()

	waitFor(t, func() bool { return calls.Load() >= 4 })
}

func TestTrigger(t *testing.T) {
	var calls atomic.Int32
	task := Start(context.Background(), time.Hour, func(context.Context) { calls.Add(1) })
	defer task.Stop()

	waitFor(t, func() bool { return calls.Load() == 1 })
	task.Trigger()
	waitFor(t, func() bool { return calls.Load() == 2 })
}

func TestTriggerCoalesces(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	task := Start(context.Background(), time.Hour, func(context.Context) {
		if calls.Add(1) == 1 {
			<-release
		}
	})
	defer task.Stop()

	waitFor(t, func() bool { return calls.Load() == 1 })
	for i := 0; i < 5; i++ {
		task.Trigger()
	}
	close(release)

	waitFor(t, func() bool { return calls.Load() == 2 })
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 2 {
		t.Errorf("expected triggers to coalesce into 1 extra run, got %d runs", n)
	}
}

func TestNoCallsAfterStop(t *testing.T) {
	var calls atomic.Int32
	task := Start(context.Background(), 5*time.Millisecond, func(context.Context) { calls.Add(1) })

	waitFor(t, func() bool { return calls.Load() >= 2 })
	task.Stop()
	after := calls.Load()

	task.Trigger()
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != after {
		t.Errorf("expected no calls after Stop, got %d more", n-after)
	}

	// second Stop is a no-op
	task.Stop()
}

func TestStopWaitsForInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	task := Start(context.Background(), time.Hour, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	task.Stop()
	if !finished.Load() {
		t.Error("expected Stop to wait for the running call")
	}
}

func TestParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Start(ctx, time.Hour, func(context.Context) {})
	cancel()

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected task to exit when parent context is canceled")
	}
}
