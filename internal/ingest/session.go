// Package ingest orchestrates bulk resume ingestion: pre-flight validation,
// chunked sequential upload with bounded retry and deferred replay,
// progress snapshots, background candidate refresh, and the best-effort
// trigger-and-poll protocol for server-side analysis.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/decipher6/greenstoneResume-sub000/internal/models"
)

// DefaultInlineRetries is the extra attempt budget per chunk inside the
// main pass.
const DefaultInlineRetries = 1

// DefaultBackoffStep is the linear backoff unit between inline retries:
// step, 2*step, ...
const DefaultBackoffStep = 500 * time.Millisecond

// EventRecorder receives session lifecycle events, typically for an on-disk
// journal. A nil recorder disables recording.
type EventRecorder interface {
	RecordStage(sessionID string, stage Stage)
	RecordChunk(sessionID string, outcome UploadOutcome)
	RecordFinal(report *FinalReport)
}

// Options configures one ingestion session. Zero fields take defaults, so
// tests can shrink every duration to milliseconds.
type Options struct {
	ChunkSize           int
	InlineRetries       int
	BackoffStep         time.Duration
	RefreshInterval     time.Duration
	AnalysisSettleDelay time.Duration
	AnalysisRetryDelay  time.Duration
	PollInterval        time.Duration
	AutoPollBudget      time.Duration
	ManualPollBudget    time.Duration
	CandidatePollBudget time.Duration
	AutoAnalyze         bool
	Recorder            EventRecorder
}

// DefaultOptions returns production timings.
func DefaultOptions() Options {
	return Options{
		ChunkSize:           DefaultChunkSize,
		InlineRetries:       DefaultInlineRetries,
		BackoffStep:         DefaultBackoffStep,
		RefreshInterval:     DefaultRefreshInterval,
		AnalysisSettleDelay: DefaultAnalysisSettleDelay,
		AnalysisRetryDelay:  DefaultAnalysisRetryDelay,
		PollInterval:        DefaultPollInterval,
		AutoPollBudget:      AutoAnalyzePollBudget,
		ManualPollBudget:    ManualPollBudget,
		CandidatePollBudget: CandidatePollBudget,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.InlineRetries < 0 {
		o.InlineRetries = d.InlineRetries
	}
	if o.BackoffStep <= 0 {
		o.BackoffStep = d.BackoffStep
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = d.RefreshInterval
	}
	if o.AnalysisSettleDelay <= 0 {
		o.AnalysisSettleDelay = d.AnalysisSettleDelay
	}
	if o.AnalysisRetryDelay <= 0 {
		o.AnalysisRetryDelay = d.AnalysisRetryDelay
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.AutoPollBudget <= 0 {
		o.AutoPollBudget = d.AutoPollBudget
	}
	if o.ManualPollBudget <= 0 {
		o.ManualPollBudget = d.ManualPollBudget
	}
	if o.CandidatePollBudget <= 0 {
		o.CandidatePollBudget = d.CandidatePollBudget
	}
	return o
}

// Session is one ingestion run against a single job. It owns all mutable
// state for the run: the pending file set, the progress record (single
// writer: the session), the retry queue, and the cancellation handles of
// its background refresher and polling monitor. The auto-analyze preference
// is read once from Options and held fixed for the session.
type Session struct {
	ID    string
	JobID string

	client   Client
	opts     Options
	pending  *PendingFileSet
	progress *Progress
	queue    *RetryQueue
	monitor  *Monitor

	mu         sync.RWMutex
	candidates []models.Candidate
}

// NewSession creates a session for a job. Files are accumulated through
// Pending() before Run is called.
func NewSession(client Client, jobID string, opts Options) *Session {
	return &Session{
		ID:       uuid.New().String(),
		JobID:    jobID,
		client:   client,
		opts:     opts.withDefaults(),
		pending:  NewPendingFileSet(),
		progress: NewProgress(),
		queue:    &RetryQueue{},
		monitor:  &Monitor{},
	}
}

// Pending exposes the set of files awaiting upload.
func (s *Session) Pending() *PendingFileSet { return s.pending }

// Progress returns the current progress snapshot. Safe to call from any
// goroutine at any time.
func (s *Session) Progress() ProgressState { return s.progress.Snapshot() }

// Candidates returns the most recently refreshed candidate list. The cache
// is last-write-wins: reads are idempotent and uploads are the only
// writers server-side, so concurrent refreshes need no reconciliation.
func (s *Session) Candidates() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Run executes the full ingestion pipeline: validate, upload chunks
// sequentially, replay deferred chunks, trigger analysis when configured,
// then poll until the time budget expires. A FinalReport is returned on
// every path, including pre-flight rejection. Cancelling ctx stops the
// session cooperatively at the next suspension point.
func (s *Session) Run(ctx context.Context) (*FinalReport, error) {
	files := s.pending.Files()
	report := &FinalReport{
		SessionID:  s.ID,
		JobID:      s.JobID,
		TotalFiles: len(files),
		StartedAt:  time.Now(),
	}
	defer func() {
		report.FinishedAt = time.Now()
		if s.opts.Recorder != nil {
			s.opts.Recorder.RecordFinal(report)
		}
	}()

	s.setStage(StageValidating)
	if err := ValidateBatch(files); err != nil {
		s.setStage(StageFailed)
		return report, err
	}

	fmt.Printf("[Ingest %s] starting upload of %d files for job %s\n",
		s.ID[:8], len(files), s.JobID)

	refresher := NewRefresher(s.opts.RefreshInterval, s.refreshCandidates)
	refresher.Start(ctx)
	err := s.runChunks(ctx, files, report)
	refresher.Stop()
	if err != nil {
		s.setStage(StageFailed)
		return report, err
	}

	handle, err := s.triggerAnalysis(ctx, report)
	if err != nil {
		s.setStage(StageFailed)
		return report, err
	}

	if handle != nil {
		s.setStage(StagePolling)
		done := s.monitor.Watch(ctx, s.opts.AutoPollBudget, s.opts.PollInterval,
			func(tickCtx context.Context) bool {
				s.refreshCandidates(tickCtx)
				return false
			})
		<-done
	}

	s.setStage(StageDone)
	fmt.Printf("[Ingest %s] session complete: %d uploaded, %d failed\n",
		s.ID[:8], report.Uploaded, report.Failed)
	return report, nil
}

// runChunks drives the main sequential pass and the single deferred replay
// of the retry queue. A chunk's terminal failure never aborts the batch.
func (s *Session) runChunks(ctx context.Context, files []PendingFile, report *FinalReport) error {
	chunks := SplitChunks(files, s.opts.ChunkSize)
	exec := &executor{
		client:      s.client,
		jobID:       s.JobID,
		sessionID:   s.ID,
		maxInline:   s.opts.InlineRetries,
		backoffStep: s.opts.BackoffStep,
		queue:       s.queue,
	}

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.progress.Set(ProgressState{
			Stage:            StageUploading,
			CurrentChunk:     chunk.Index + 1,
			TotalChunks:      len(chunks),
			FilesProcessed:   report.Uploaded + report.Failed,
			TotalFiles:       len(files),
			CurrentChunkSize: len(chunk.Files),
		})
		outcome := exec.execute(ctx, chunk, true)
		report.fold(outcome)
		if s.opts.Recorder != nil {
			s.opts.Recorder.RecordChunk(s.ID, outcome)
		}
		// Re-read after every outcome so new records show up without
		// waiting for the whole batch.
		s.refreshCandidates(ctx)
	}

	for _, chunk := range s.queue.Drain() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.progress.Set(ProgressState{
			Stage:            StageRetrying,
			CurrentChunk:     chunk.Index + 1,
			TotalChunks:      len(chunks),
			FilesProcessed:   report.Uploaded + report.Failed,
			TotalFiles:       len(files),
			CurrentChunkSize: len(chunk.Files),
			Retrying:         true,
		})
		outcome := exec.execute(ctx, chunk, false)
		report.fold(outcome)
		if s.opts.Recorder != nil {
			s.opts.Recorder.RecordChunk(s.ID, outcome)
		}
		s.refreshCandidates(ctx)
	}

	return ctx.Err()
}

// triggerAnalysis runs the post-upload analysis trigger and records the
// handle on the report.
func (s *Session) triggerAnalysis(ctx context.Context, report *FinalReport) (*AnalysisJobHandle, error) {
	if s.opts.AutoAnalyze && report.Uploaded > 0 {
		s.setStage(StageAnalyzing)
	}
	trigger := &analysisTrigger{
		client:      s.client,
		jobID:       s.JobID,
		sessionID:   s.ID,
		settleDelay: s.opts.AnalysisSettleDelay,
		retryDelay:  s.opts.AnalysisRetryDelay,
	}
	handle, err := trigger.maybeStart(ctx, s.opts.AutoAnalyze, report.Uploaded)
	if err != nil {
		return nil, err
	}
	report.Analysis = handle
	return handle, nil
}

// RunAnalysis drives the manual "run analysis" flow: start a server-side
// run (optionally re-scoring everything) and poll on the shorter manual
// budget.
func (s *Session) RunAnalysis(ctx context.Context, force bool) error {
	if err := s.client.StartAnalysis(ctx, s.JobID, force); err != nil {
		return err
	}
	s.setStage(StagePolling)
	done := s.monitor.Watch(ctx, s.opts.ManualPollBudget, s.opts.PollInterval,
		func(tickCtx context.Context) bool {
			s.refreshCandidates(tickCtx)
			return false
		})
	<-done
	s.setStage(StageDone)
	return nil
}

// ReanalyzeCandidate re-scores one candidate and polls until that
// candidate's status leaves the analysis pipeline, or the shorter
// single-candidate budget expires. This is the one polling flow with an
// early-exit condition.
func (s *Session) ReanalyzeCandidate(ctx context.Context, candidateID string) error {
	if err := s.client.ReanalyzeCandidate(ctx, candidateID); err != nil {
		return err
	}
	done := s.monitor.Watch(ctx, s.opts.CandidatePollBudget, s.opts.RefreshInterval,
		func(tickCtx context.Context) bool {
			s.refreshCandidates(tickCtx)
			cand, err := s.client.GetCandidate(tickCtx, candidateID)
			if err != nil {
				return false
			}
			return cand.Status.Terminal()
		})
	<-done
	return nil
}

// Stop cancels any active polling monitor. The session's refresher is
// scoped to Run and cannot outlive it.
func (s *Session) Stop() {
	s.monitor.Stop()
}

func (s *Session) refreshCandidates(ctx context.Context) {
	candidates, err := s.client.ListCandidates(ctx, s.JobID)
	if err != nil {
		if ctx.Err() == nil {
			fmt.Printf("[Ingest %s] candidate refresh failed: %v\n", s.ID[:8], err)
		}
		return
	}
	s.mu.Lock()
	s.candidates = candidates
	s.mu.Unlock()
}

func (s *Session) setStage(stage Stage) {
	st := s.progress.Snapshot()
	st.Stage = stage
	st.Retrying = stage == StageRetrying
	s.progress.Set(st)
	if s.opts.Recorder != nil {
		s.opts.Recorder.RecordStage(s.ID, stage)
	}
}
