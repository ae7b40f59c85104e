package models

import "time"

// CandidateStatus is the status value the ATS reports for a candidate record.
type CandidateStatus string

const (
	StatusNew       CandidateStatus = "new"
	StatusAnalyzing CandidateStatus = "analyzing"
	StatusReviewed  CandidateStatus = "reviewed"
	StatusInterview CandidateStatus = "interview"
	StatusRejected  CandidateStatus = "rejected"
)

// Terminal reports whether a single-candidate analysis has settled, i.e. the
// candidate is no longer waiting for or undergoing analysis.
func (s CandidateStatus) Terminal() bool {
	return s != StatusNew && s != StatusAnalyzing
}

// Candidate is a candidate record as returned by the ATS list endpoint.
// Field names follow the server's snake_case wire format.
type Candidate struct {
	ID              string          `json:"id"`
	JobID           string          `json:"job_id"`
	Name            string          `json:"name"`
	Status          CandidateStatus `json:"status"`
	Score           *float64        `json:"score,omitempty"`
	AIJustification string          `json:"ai_justification,omitempty"`
	ResumeFileName  string          `json:"resume_file_path,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	AnalyzedAt      *time.Time      `json:"analyzed_at,omitempty"`
}

// Job is a job posting record, read-only from the ingestion client's view.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Department     string     `json:"department,omitempty"`
	Status         string     `json:"status"`
	CandidateCount int        `json:"candidate_count"`
	LastRun        *time.Time `json:"last_run,omitempty"`
}
