// Package atstest is an in-memory mock of the ATS backend's ingestion
// surface. Tests script per-call upload behaviors (success, connection
// drop, definite rejection) and the dev binary serves it for local
// frontend work.
package atstest

import (
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/decipher6/greenstoneResume-sub000/internal/models"
)

// Behavior scripts how the mock answers one bulk-upload call.
type Behavior int

const (
	// Success accepts the chunk and creates a candidate per file.
	Success Behavior = iota
	// DropConnection hijacks and closes the TCP connection without a
	// response, which the client classifies as retriable.
	DropConnection
	// Reject answers 422 with a detail message: a terminal failure.
	Reject
	// ServerError answers 500 with a detail message: also terminal.
	ServerError
)

const defaultReanalyzeTicks = 2

// Server holds the mock's mutable state.
type Server struct {
	mu sync.Mutex
	e  *echo.Echo

	rejectDetail     string
	uploadScript     []Behavior
	analysisFailures int
	perFileErrors    map[string]string
	reanalyzeTicks   map[string]int

	candidates []models.Candidate

	uploadCalls   int
	analysisCalls int
	listCalls     int
}

// New builds a mock server with default behavior (every upload succeeds).
func New() *Server {
	s := &Server{
		rejectDetail:   "Invalid file format. Supported formats: .pdf, .docx, .doc",
		perFileErrors:  make(map[string]string),
		reanalyzeTicks: make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true
	e.POST("/api/candidates/upload-bulk", s.handleUploadBulk)
	e.POST("/api/jobs/:id/run-analysis", s.handleRunAnalysis)
	e.GET("/api/candidates/job/:id", s.handleListByJob)
	e.GET("/api/candidates/:id", s.handleGetCandidate)
	e.POST("/api/candidates/:id/re-analyze", s.handleReanalyze)
	s.e = e
	return s
}

// Handler returns the mock as an http.Handler, for httptest or a real
// listener.
func (s *Server) Handler() http.Handler { return s.e }

// ScriptUploads queues behaviors for the next upload calls, in order. Calls
// beyond the script succeed.
func (s *Server) ScriptUploads(behaviors ...Behavior) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadScript = append(s.uploadScript, behaviors...)
}

// SetRejectDetail overrides the detail message used by Reject and
// ServerError behaviors.
func (s *Server) SetRejectDetail(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectDetail = detail
}

// FailFile marks a filename to be reported failed inside otherwise
// successful upload responses.
func (s *Server) FailFile(filename, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perFileErrors[filename] = reason
}

// FailAnalysisCalls makes the next n run-analysis calls answer 500.
func (s *Server) FailAnalysisCalls(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisFailures = n
}

// CompleteAnalysis flips every analyzing candidate to reviewed, simulating
// the server-side job finishing.
func (s *Server) CompleteAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.candidates {
		if s.candidates[i].Status == models.StatusAnalyzing {
			s.candidates[i].Status = models.StatusReviewed
		}
	}
}

// Candidates returns a snapshot of all stored candidates.
func (s *Server) Candidates() []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// UploadCalls returns how many bulk-upload requests reached the mock.
func (s *Server) UploadCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadCalls
}

// AnalysisCalls returns how many run-analysis requests reached the mock.
func (s *Server) AnalysisCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysisCalls
}

// ListCalls returns how many candidate-list reads reached the mock.
func (s *Server) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *Server) nextUploadBehavior() Behavior {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	if len(s.uploadScript) == 0 {
		return Success
	}
	b := s.uploadScript[0]
	s.uploadScript = s.uploadScript[1:]
	return b
}

func (s *Server) handleUploadBulk(c echo.Context) error {
	behavior := s.nextUploadBehavior()

	switch behavior {
	case DropConnection:
		conn, _, err := c.Response().Hijack()
		if err != nil {
			return err
		}
		return conn.Close()
	case Reject:
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": s.rejectDetail})
	case ServerError:
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": s.rejectDetail})
	}

	jobID := c.FormValue("job_id")
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "multipart form expected"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := models.UploadResponse{FailedFiles: []models.FailedFile{}}
	for _, fh := range form.File["files"] {
		if reason, bad := s.perFileErrors[fh.Filename]; bad {
			resp.Failed++
			resp.FailedFiles = append(resp.FailedFiles, models.FailedFile{
				Filename: fh.Filename,
				Error:    reason,
			})
			continue
		}
		cand := models.Candidate{
			ID:             uuid.New().String(),
			JobID:          jobID,
			Name:           strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)),
			Status:         models.StatusNew,
			ResumeFileName: fh.Filename,
		}
		s.candidates = append(s.candidates, cand)
		resp.Uploaded++
		resp.Candidates = append(resp.Candidates, cand)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRunAnalysis(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analysisCalls++
	if s.analysisFailures > 0 {
		s.analysisFailures--
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "analysis queue unavailable"})
	}

	jobID := c.Param("id")
	force := c.QueryParam("force") == "true"
	queued := 0
	for i := range s.candidates {
		if s.candidates[i].JobID != jobID {
			continue
		}
		if force || s.candidates[i].Status == models.StatusNew {
			s.candidates[i].Status = models.StatusAnalyzing
			queued++
		}
	}

	return c.JSON(http.StatusOK, models.AnalysisAck{
		Message:          "analysis started",
		CandidatesQueued: queued,
		Force:            force,
	})
}

func (s *Server) handleListByJob(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls++
	jobID := c.Param("id")
	out := []models.Candidate{}
	for _, cand := range s.candidates {
		if cand.JobID == jobID {
			out = append(out, cand)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetCandidate(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i := range s.candidates {
		if s.candidates[i].ID != id {
			continue
		}
		// A pending re-analysis completes after a few status reads.
		if ticks, ok := s.reanalyzeTicks[id]; ok {
			if ticks <= 1 {
				delete(s.reanalyzeTicks, id)
				s.candidates[i].Status = models.StatusReviewed
			} else {
				s.reanalyzeTicks[id] = ticks - 1
			}
		}
		return c.JSON(http.StatusOK, s.candidates[i])
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Candidate not found"})
}

func (s *Server) handleReanalyze(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			s.candidates[i].Status = models.StatusAnalyzing
			s.reanalyzeTicks[id] = defaultReanalyzeTicks
			return c.JSON(http.StatusOK, map[string]string{"message": "re-analysis started"})
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Candidate not found"})
}
