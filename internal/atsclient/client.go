// Package atsclient is the HTTP client for the recruiting backend's bulk
// ingestion surface: bulk resume upload, analysis runs and candidate reads.
package atsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/decipher6/greenstoneResume-sub000/internal/models"
)

// DefaultRequestTimeout bounds a single upload request. It is what turns a
// stalled connection into a retriable timeout error.
const DefaultRequestTimeout = 120 * time.Second

// Resume is one file handed to the bulk upload endpoint.
type Resume struct {
	Filename string
	Content  []byte
}

// Client talks to the ATS HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL. The token may be empty for
// deployments without authentication.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// UploadResumes submits one chunk of resume files as a multipart request
// with repeated "files" parts plus a "job_id" field. The returned response
// is the server's authoritative per-file accounting.
func (c *Client) UploadResumes(ctx context.Context, jobID string, files []Resume) (*models.UploadResponse, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("job_id", jobID); err != nil {
		return nil, fmt.Errorf("encode job_id: %w", err)
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Filename)
		if err != nil {
			return nil, fmt.Errorf("encode file %s: %w", f.Filename, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("encode file %s: %w", f.Filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/candidates/upload-bulk", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp models.UploadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartAnalysis asks the server to run AI analysis for a job. With force
// set, already-analyzed candidates are re-scored; otherwise only candidates
// not yet analyzed are queued.
func (c *Client) StartAnalysis(ctx context.Context, jobID string, force bool) error {
	path := fmt.Sprintf("/api/jobs/%s/run-analysis?force=%t", url.PathEscape(jobID), force)
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}

	var ack models.AnalysisAck
	return c.do(req, &ack)
}

// ListCandidates returns all candidate records for a job, including their
// current analysis status.
func (c *Client) ListCandidates(ctx context.Context, jobID string) ([]models.Candidate, error) {
	path := fmt.Sprintf("/api/candidates/job/%s", url.PathEscape(jobID))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	if err := c.do(req, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// GetCandidate returns a single candidate record.
func (c *Client) GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	path := fmt.Sprintf("/api/candidates/%s", url.PathEscape(candidateID))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var candidate models.Candidate
	if err := c.do(req, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ReanalyzeCandidate asks the server to re-score a single candidate.
func (c *Client) ReanalyzeCandidate(ctx context.Context, candidateID string) error {
	path := fmt.Sprintf("/api/candidates/%s/re-analyze", url.PathEscape(candidateID))
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executes the request and decodes the JSON response into out. A non-2xx
// status is converted into an *APIError carrying the server's detail
// message, which classifies as terminal.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		// The server reports failures as {"detail": "..."}. Fall back to
		// the raw body if it is not JSON.
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Detail == "" {
			apiErr.Detail = string(bytes.TrimSpace(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
