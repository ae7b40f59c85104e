package ingest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestMonitorFinalTickAtBudgetExpiry(t *testing.T) {
	var ticks atomic.Int32
	m := &Monitor{}

	done := m.Watch(context.Background(), 25*time.Millisecond, 10*time.Millisecond,
		func(context.Context) bool {
			ticks.Add(1)
			return false
		})
	<-done

	// Two interval ticks plus the mandatory final one at expiry.
	if got := ticks.Load(); got < 3 {
		t.Fatalf("ticks = %d, want at least 3 (including final tick)", got)
	}
}

func TestMonitorEarlyExitOnPredicate(t *testing.T) {
	var ticks atomic.Int32
	m := &Monitor{}

	start := time.Now()
	done := m.Watch(context.Background(), time.Second, 5*time.Millisecond,
		func(context.Context) bool {
			return ticks.Add(1) >= 2
		})
	<-done

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("watch ran %v, expected early exit well before the budget", elapsed)
	}
	if got := ticks.Load(); got != 2 {
		t.Fatalf("ticks = %d, want 2", got)
	}
}

func TestMonitorNewWatchCancelsPrevious(t *testing.T) {
	var first, second atomic.Int32
	m := &Monitor{}

	m.Watch(context.Background(), time.Second, 5*time.Millisecond,
		func(context.Context) bool {
			first.Add(1)
			return false
		})

	// Replacing the watch must stop the first loop before the second runs.
	done := m.Watch(context.Background(), 30*time.Millisecond, 5*time.Millisecond,
		func(context.Context) bool {
			second.Add(1)
			return false
		})

	firstAtSwap := first.Load()
	<-done

	if first.Load() != firstAtSwap {
		t.Fatalf("first watch ticked after being replaced: %d -> %d", firstAtSwap, first.Load())
	}
	if second.Load() == 0 {
		t.Fatal("second watch never ticked")
	}
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	m := &Monitor{}
	m.Stop() // never started

	done := m.Watch(context.Background(), time.Second, 5*time.Millisecond,
		func(context.Context) bool { return false })
	m.Stop()
	m.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not exit after Stop")
	}
}

func TestMonitorHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Monitor{}

	done := m.Watch(ctx, time.Minute, 5*time.Millisecond,
		func(context.Context) bool { return false })
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not exit after context cancellation")
	}
}
