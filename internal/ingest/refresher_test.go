package ingest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRefresherRunsOnInterval(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(5*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})

	r.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	r.Stop()

	if got := calls.Load(); got < 2 {
		t.Fatalf("refresh calls = %d, want at least 2", got)
	}
}

func TestRefresherStopHaltsLoop(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(2*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})

	r.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	r.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("refresher kept running after Stop: %d -> %d", after, calls.Load())
	}
}

func TestRefresherStartIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(time.Hour, func(context.Context) {
		calls.Add(1)
	})

	ctx := context.Background()
	r.Start(ctx)
	r.Start(ctx) // no-op, must not spawn a second loop
	r.Stop()
	r.Stop() // safe after stopping

	if calls.Load() != 0 {
		t.Fatalf("refresher with hour-long interval ticked %d times", calls.Load())
	}
}

func TestRefresherStopsWithParentContext(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRefresher(2*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})

	r.Start(ctx)
	cancel()
	time.Sleep(10 * time.Millisecond)

	after := calls.Load()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != after {
		t.Fatal("refresher kept ticking after its parent context was cancelled")
	}
	r.Stop()
}
