package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/decipher6/greenstoneResume-sub000/internal/atsclient"
	"github.com/decipher6/greenstoneResume-sub000/internal/models"
)

// OutcomeKind classifies what happened to one chunk submission.
type OutcomeKind int

const (
	// OutcomeSuccess means the server accepted the request; its per-file
	// counts are taken at face value.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeDeferred means inline retries were exhausted on transient
	// errors and the chunk was pushed whole onto the retry queue. Its files
	// are not counted as failed yet.
	OutcomeDeferred
	// OutcomeTerminal means the server definitively rejected the chunk (or
	// the deferred replay failed); every file in it is failed.
	OutcomeTerminal
)

// UploadOutcome is the result of submitting one chunk.
type UploadOutcome struct {
	ChunkIndex  int
	Kind        OutcomeKind
	Uploaded    int
	Failed      int
	FailedFiles []models.FailedFile
	Err         error
}

// executor performs one chunk's network call and applies the retry policy.
type executor struct {
	client      Client
	jobID       string
	sessionID   string
	maxInline   int           // inline retry budget per chunk
	backoffStep time.Duration // linear: step, 2*step, ...
	queue       *RetryQueue
}

// execute uploads one chunk. With inline enabled, transient failures are
// retried up to maxInline times with linear backoff and then deferred to
// the retry queue. With inline disabled (the deferred replay pass), any
// failure is terminal.
func (e *executor) execute(ctx context.Context, chunk Chunk, inline bool) UploadOutcome {
	attempt := 0
	for {
		resp, err := e.client.UploadResumes(ctx, e.jobID, chunk.resumes())
		if err == nil {
			if attempt > 0 {
				fmt.Printf("[Ingest %s] chunk %d succeeded after %d retry attempt(s)\n",
					e.sessionID[:8], chunk.Index+1, attempt)
			}
			return UploadOutcome{
				ChunkIndex:  chunk.Index,
				Kind:        OutcomeSuccess,
				Uploaded:    resp.Uploaded,
				Failed:      resp.Failed,
				FailedFiles: resp.FailedFiles,
			}
		}

		if !atsclient.IsRetriable(err) || ctx.Err() != nil {
			return e.terminal(chunk, err)
		}

		if !inline {
			// Deferred replay pass: a transient failure here is terminal.
			return e.terminal(chunk, err)
		}

		if attempt >= e.maxInline {
			fmt.Printf("[Ingest %s] chunk %d exhausted inline retries, deferring to end of batch: %v\n",
				e.sessionID[:8], chunk.Index+1, err)
			e.queue.Push(chunk)
			return UploadOutcome{ChunkIndex: chunk.Index, Kind: OutcomeDeferred, Err: err}
		}

		attempt++
		wait := time.Duration(attempt) * e.backoffStep
		fmt.Printf("[Ingest %s] chunk %d transient failure (attempt %d), retrying in %s: %v\n",
			e.sessionID[:8], chunk.Index+1, attempt, wait, err)
		if err := sleepCtx(ctx, wait); err != nil {
			return e.terminal(chunk, err)
		}
	}
}

// terminal fails every file in the chunk with the server's reported reason,
// falling back to the transport error text.
func (e *executor) terminal(chunk Chunk, err error) UploadOutcome {
	reason := err.Error()
	var apiErr *atsclient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		reason = apiErr.Detail
	}

	failed := make([]models.FailedFile, len(chunk.Files))
	for i, f := range chunk.Files {
		failed[i] = models.FailedFile{Filename: f.Name, Error: reason}
	}
	fmt.Printf("[Ingest %s] chunk %d failed terminally (%d files): %s\n",
		e.sessionID[:8], chunk.Index+1, len(chunk.Files), reason)
	return UploadOutcome{
		ChunkIndex:  chunk.Index,
		Kind:        OutcomeTerminal,
		Failed:      len(chunk.Files),
		FailedFiles: failed,
		Err:         err,
	}
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
