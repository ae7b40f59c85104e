package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/decipher6/greenstoneResume-sub000/internal/atsclient"
)

func TestSessionRejectsOversizedBatchPreFlight(t *testing.T) {
	client := &fakeClient{}
	session := NewSession(client, "job-1", fastOptions())
	session.Pending().Add(makeFiles(1200)...)

	report, err := session.Run(context.Background())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if report == nil {
		t.Fatal("a report must be produced even on pre-flight rejection")
	}
	if report.Uploaded != 0 || report.Failed != 0 {
		t.Errorf("nothing should be counted, got %d/%d", report.Uploaded, report.Failed)
	}

	uploads, analyses, _ := client.stats()
	if uploads != 0 || analyses != 0 {
		t.Errorf("no network calls may happen before validation passes, got uploads=%d analyses=%d", uploads, analyses)
	}
	if session.Progress().Stage != StageFailed {
		t.Errorf("expected failed stage, got %s", session.Progress().Stage)
	}
}

func TestSessionContinuesAfterTerminalChunk(t *testing.T) {
	detail := "quota exceeded for this job"
	client := &fakeClient{uploadResults: []uploadResult{
		{}, // chunk 1 succeeds
		{err: &atsclient.APIError{Status: 422, Detail: detail}}, // chunk 2 fails terminally
		{}, // chunk 3 succeeds
		{}, // chunk 4 succeeds
	}}

	opts := fastOptions()
	opts.ChunkSize = 2
	session := NewSession(client, "job-1", opts)
	session.Pending().Add(makeFiles(8)...)

	report, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.uploadCalls != 4 {
		t.Fatalf("all 4 chunks must be attempted, got %d calls", client.uploadCalls)
	}
	if report.Uploaded != 6 {
		t.Errorf("expected 6 uploaded, got %d", report.Uploaded)
	}
	if report.Failed != 2 {
		t.Errorf("expected 2 failed, got %d", report.Failed)
	}
	for _, f := range report.FailedFiles {
		if f.Error != detail {
			t.Errorf("expected server detail %q, got %q", detail, f.Error)
		}
	}
	if session.Progress().Stage != StageDone {
		t.Errorf("expected done stage, got %s", session.Progress().Stage)
	}
}

func TestSessionDeferredChunkReplaysAfterMainPass(t *testing.T) {
	client := &fakeClient{uploadResults: []uploadResult{
		{err: retriableErr()}, // chunk 1, attempt 1
		{err: retriableErr()}, // chunk 1, attempt 2 -> deferred
		{},                    // chunk 2 succeeds
		{},                    // deferred replay of chunk 1 succeeds
	}}

	opts := fastOptions()
	opts.ChunkSize = 2
	session := NewSession(client, "job-1", opts)
	session.Pending().Add(makeFiles(4)...)

	report, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Uploaded != 4 || report.Failed != 0 {
		t.Errorf("expected 4/0 after replay, got %d/%d", report.Uploaded, report.Failed)
	}
	if client.uploadCalls != 4 {
		t.Errorf("expected 4 upload calls (2 inline + 1 fresh + 1 replay), got %d", client.uploadCalls)
	}
	// The replayed request carries the whole original chunk.
	last := client.uploadSizes[len(client.uploadSizes)-1]
	if last != 2 {
		t.Errorf("replay must keep the chunk whole, got %d files", last)
	}
}

func TestSessionAutoAnalyzeRetriesOnceThenFails(t *testing.T) {
	serverErr := &atsclient.APIError{Status: 500, Detail: "analysis queue unavailable"}

	t.Run("second attempt succeeds", func(t *testing.T) {
		client := &fakeClient{analysisErrs: []error{serverErr}}
		opts := fastOptions()
		opts.AutoAnalyze = true
		session := NewSession(client, "job-1", opts)
		session.Pending().Add(makeFiles(1)...)

		report, err := session.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, analyses, _ := client.stats(); analyses != 2 {
			t.Errorf("expected exactly 2 trigger attempts, got %d", analyses)
		}
		if report.Analysis == nil || report.Analysis.Attempt != 2 {
			t.Errorf("expected analysis handle from attempt 2, got %+v", report.Analysis)
		}
	})

	t.Run("second failure is terminal and actionable", func(t *testing.T) {
		client := &fakeClient{analysisErrs: []error{serverErr, serverErr}}
		opts := fastOptions()
		opts.AutoAnalyze = true
		session := NewSession(client, "job-1", opts)
		session.Pending().Add(makeFiles(1)...)

		report, err := session.Run(context.Background())
		if err == nil {
			t.Fatal("expected terminal analysis error")
		}
		if !strings.Contains(err.Error(), "manually") {
			t.Errorf("error should point at the manual fallback: %v", err)
		}
		if _, analyses, _ := client.stats(); analyses != 2 {
			t.Errorf("no further automatic retries allowed, got %d attempts", analyses)
		}
		if report.Uploaded != 1 {
			t.Errorf("upload result must survive the analysis failure, got %d", report.Uploaded)
		}
	})
}

func TestSessionSkipsAnalysisWhenNothingUploaded(t *testing.T) {
	client := &fakeClient{uploadResults: []uploadResult{
		{err: &atsclient.APIError{Status: 422, Detail: "bad job"}},
	}}
	opts := fastOptions()
	opts.AutoAnalyze = true
	session := NewSession(client, "job-1", opts)
	session.Pending().Add(makeFiles(3)...)

	if _, err := session.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, analyses, _ := client.stats(); analyses != 0 {
		t.Errorf("analysis must not fire with zero uploads, got %d", analyses)
	}
}

func TestSessionSkipsAnalysisWhenPreferenceOff(t *testing.T) {
	client := &fakeClient{}
	opts := fastOptions()
	opts.AutoAnalyze = false
	session := NewSession(client, "job-1", opts)
	session.Pending().Add(makeFiles(3)...)

	report, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, analyses, _ := client.stats(); analyses != 0 {
		t.Errorf("analysis must not fire when the preference is off, got %d", analyses)
	}
	if report.Analysis != nil {
		t.Error("no analysis handle expected")
	}
}

func TestSessionRefreshesCandidatesAfterEveryChunk(t *testing.T) {
	client := &fakeClient{}
	opts := fastOptions()
	opts.ChunkSize = 2
	opts.AutoAnalyze = false
	session := NewSession(client, "job-1", opts)
	session.Pending().Add(makeFiles(6)...)

	if _, err := session.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, lists := client.stats(); lists < 3 {
		t.Errorf("expected a candidate refresh after each of 3 chunks, got %d reads", lists)
	}
}

func TestSessionCancelledBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := &fakeClient{}
	opts := fastOptions()
	opts.ChunkSize = 1
	session := NewSession(client, "job-1", opts)
	session.Pending().Add(makeFiles(3)...)

	cancel()
	report, err := session.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report == nil {
		t.Fatal("a report must still be produced")
	}
	if session.Progress().Stage != StageFailed {
		t.Errorf("expected failed stage, got %s", session.Progress().Stage)
	}
}
