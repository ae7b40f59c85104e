package ingest

import (
	"context"
	"sync"
	"time"
)

// Poll cadence and budgets. The server exposes no push channel for analysis
// progress, so completion is observed only by repeated reads until the time
// budget runs out.
const (
	DefaultPollInterval     = 5 * time.Second
	ManualPollBudget        = 60 * time.Second
	AutoAnalyzePollBudget   = 120 * time.Second
	CandidatePollBudget     = 30 * time.Second
	DefaultCandidateRefresh = 2 * time.Second
)

// Monitor runs at most one polling loop at a time. Starting a new watch
// cancels the previous one, so overlapping timers can never double-refresh
// or leak after the owning session ends.
type Monitor struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Watch polls tick on the given cadence until the budget expires, with one
// final tick at expiry. A tick returning true ends the watch early; the
// generic bulk-upload flow never signals done and simply runs out the
// budget. The returned channel closes when the watch ends.
func (m *Monitor) Watch(ctx context.Context, budget, interval time.Duration, tick func(ctx context.Context) bool) <-chan struct{} {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		prev := m.done
		m.mu.Unlock()
		<-prev
		m.mu.Lock()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	go func() {
		defer close(done)
		defer m.clear(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		deadline := time.NewTimer(budget)
		defer deadline.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-deadline.C:
				// One last refresh so the final state is visible.
				tick(loopCtx)
				return
			case <-ticker.C:
				if tick(loopCtx) {
					return
				}
			}
		}
	}()

	return done
}

// Stop cancels the active watch, if any, and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// clear forgets the handles once the watch identified by done has exited,
// unless a newer watch has already replaced them.
func (m *Monitor) clear(done chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done == done {
		m.cancel = nil
		m.done = nil
	}
}
