package ingest

import (
	"context"

	"github.com/decipher6/greenstoneResume-sub000/internal/atsclient"
	"github.com/decipher6/greenstoneResume-sub000/internal/models"
)

// Client is the slice of the ATS API the orchestrator drives. It is
// satisfied by *atsclient.Client.
type Client interface {
	UploadResumes(ctx context.Context, jobID string, files []atsclient.Resume) (*models.UploadResponse, error)
	StartAnalysis(ctx context.Context, jobID string, force bool) error
	ListCandidates(ctx context.Context, jobID string) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error)
	ReanalyzeCandidate(ctx context.Context, candidateID string) error
}
