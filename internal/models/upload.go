package models

// FailedFile is one file-level failure reported either by the server inside
// an otherwise successful bulk upload, or synthesized client-side when an
// entire chunk fails terminally.
type FailedFile struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResponse is the server's answer to one bulk-upload request. The
// server is authoritative about which individual files in a multi-file
// request actually succeeded.
type UploadResponse struct {
	Uploaded    int          `json:"uploaded"`
	Failed      int          `json:"failed"`
	Candidates  []Candidate  `json:"candidates,omitempty"`
	FailedFiles []FailedFile `json:"failed_files,omitempty"`
}

// AnalysisAck is the acknowledgment returned when a server-side analysis
// run is started. The client needs nothing from it beyond success/failure.
type AnalysisAck struct {
	Message          string `json:"message"`
	CandidatesQueued int    `json:"candidates_queued"`
	Force            bool   `json:"force"`
}
