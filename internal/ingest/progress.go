package ingest

import "sync"

// Stage identifies where a session is in its lifecycle.
type Stage string

const (
	StageValidating Stage = "validating"
	StageUploading  Stage = "uploading"
	StageRetrying   Stage = "retrying"
	StageAnalyzing  Stage = "analyzing"
	StagePolling    Stage = "polling"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// ProgressState is one consistent snapshot of upload progress. Chunk
// numbers are 1-based for display.
type ProgressState struct {
	Stage            Stage `json:"stage"`
	CurrentChunk     int   `json:"currentChunk"`
	TotalChunks      int   `json:"totalChunks"`
	FilesProcessed   int   `json:"filesProcessed"`
	TotalFiles       int   `json:"totalFiles"`
	CurrentChunkSize int   `json:"currentChunkSize"`
	Retrying         bool  `json:"retrying"`
}

// Progress has exactly one writer (the running session) and any number of
// readers. Set replaces the whole record at once, so a Snapshot never
// observes a half-updated state.
type Progress struct {
	mu    sync.RWMutex
	state ProgressState
}

// NewProgress returns a progress tracker in the validating stage.
func NewProgress() *Progress {
	return &Progress{state: ProgressState{Stage: StageValidating}}
}

// Set commits a new snapshot.
func (p *Progress) Set(state ProgressState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}
