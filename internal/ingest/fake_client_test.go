package ingest

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/decipher6/greenstoneResume-sub000/internal/atsclient"
	"github.com/decipher6/greenstoneResume-sub000/internal/models"
)

// fakeClient scripts upload results per call for precise failure injection.
// Unscripted calls succeed with every file accepted.
type fakeClient struct {
	mu sync.Mutex

	uploadResults []uploadResult
	uploadCalls   int
	uploadSizes   []int

	analysisErrs  []error
	analysisCalls int

	listCalls  int
	candidates []models.Candidate
}

type uploadResult struct {
	resp *models.UploadResponse
	err  error
}

// retriableErr mimics a transport failure with no HTTP response.
func retriableErr() error {
	return &url.Error{Op: "Post", URL: "http://ats/api/candidates/upload-bulk",
		Err: errors.New("connection reset by peer")}
}

func (f *fakeClient) UploadResumes(_ context.Context, _ string, files []atsclient.Resume) (*models.UploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploadCalls++
	f.uploadSizes = append(f.uploadSizes, len(files))

	if len(f.uploadResults) > 0 {
		r := f.uploadResults[0]
		f.uploadResults = f.uploadResults[1:]
		if r.err != nil {
			return nil, r.err
		}
		if r.resp != nil {
			return r.resp, nil
		}
	}
	return &models.UploadResponse{Uploaded: len(files)}, nil
}

func (f *fakeClient) StartAnalysis(context.Context, string, bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.analysisCalls++
	if len(f.analysisErrs) > 0 {
		err := f.analysisErrs[0]
		f.analysisErrs = f.analysisErrs[1:]
		return err
	}
	return nil
}

func (f *fakeClient) ListCandidates(context.Context, string) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.candidates, nil
}

func (f *fakeClient) GetCandidate(context.Context, string) (*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.candidates) == 0 {
		return nil, &atsclient.APIError{Status: 404, Detail: "Candidate not found"}
	}
	return &f.candidates[0], nil
}

func (f *fakeClient) ReanalyzeCandidate(context.Context, string) error { return nil }

func (f *fakeClient) stats() (uploads, analyses, lists int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploadCalls, f.analysisCalls, f.listCalls
}

// fastOptions shrinks every duration so tests complete in milliseconds.
func fastOptions() Options {
	return Options{
		ChunkSize:           DefaultChunkSize,
		InlineRetries:       DefaultInlineRetries,
		BackoffStep:         time.Millisecond,
		RefreshInterval:     5 * time.Millisecond,
		AnalysisSettleDelay: time.Millisecond,
		AnalysisRetryDelay:  time.Millisecond,
		PollInterval:        2 * time.Millisecond,
		AutoPollBudget:      10 * time.Millisecond,
		ManualPollBudget:    10 * time.Millisecond,
		CandidatePollBudget: 20 * time.Millisecond,
	}
}
