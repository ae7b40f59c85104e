package ingest

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshInterval is how often the candidate list is re-read while
// an upload session is active.
const DefaultRefreshInterval = 2 * time.Second

// Refresher re-runs a read callback on a timer, independent of chunk
// boundaries, so newly created records appear even during a slow chunk. It
// owns its cancellation handle: Stop always terminates the timer goroutine
// and never lets it outlive the session that started it.
type Refresher struct {
	interval time.Duration
	refresh  func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher. A non-positive interval falls back to
// the default.
func NewRefresher(interval time.Duration, refresh func(ctx context.Context)) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{interval: interval, refresh: refresh}
}

// Start launches the refresh loop. Starting an already running refresher is
// a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				r.refresh(loopCtx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. Safe to call multiple
// times and on a refresher that never started.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
