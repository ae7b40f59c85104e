package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Analysis trigger timing. The settle delay gives just-written candidate
// records time to become consistently readable before the analysis run
// queries them.
const (
	DefaultAnalysisSettleDelay = 500 * time.Millisecond
	DefaultAnalysisRetryDelay  = 2 * time.Second
)

// AnalysisJobHandle identifies a started server-side analysis run. The run
// has no terminal event; its end is inferred by polling or elapsed time.
type AnalysisJobHandle struct {
	ID        string
	JobID     string
	StartedAt time.Time
	Attempt   int
}

// analysisTrigger starts the post-upload analysis run with a single fixed
// retry.
type analysisTrigger struct {
	client      Client
	jobID       string
	sessionID   string
	settleDelay time.Duration
	retryDelay  time.Duration
}

// maybeStart fires only when auto-analyze is on and something was actually
// uploaded. It requests analysis of newly-uploaded candidates only (force
// is never set here). Returns nil, nil when skipped.
func (t *analysisTrigger) maybeStart(ctx context.Context, autoAnalyze bool, uploadedCount int) (*AnalysisJobHandle, error) {
	if !autoAnalyze || uploadedCount <= 0 {
		return nil, nil
	}

	if err := sleepCtx(ctx, t.settleDelay); err != nil {
		return nil, err
	}

	err := t.client.StartAnalysis(ctx, t.jobID, false)
	if err == nil {
		return t.handle(1), nil
	}
	fmt.Printf("[Ingest %s] analysis trigger failed, retrying once in %s: %v\n",
		t.sessionID[:8], t.retryDelay, err)

	if err := sleepCtx(ctx, t.retryDelay); err != nil {
		return nil, err
	}

	if err := t.client.StartAnalysis(ctx, t.jobID, false); err != nil {
		return nil, fmt.Errorf(
			"analysis could not be started automatically; run analysis manually from the job page: %w", err)
	}
	return t.handle(2), nil
}

func (t *analysisTrigger) handle(attempt int) *AnalysisJobHandle {
	return &AnalysisJobHandle{
		ID:        uuid.New().String(),
		JobID:     t.jobID,
		StartedAt: time.Now(),
		Attempt:   attempt,
	}
}
