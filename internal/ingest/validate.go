package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxBatchFiles is the hard cap on a single batch. Batches above it are
// rejected before any network call.
const MaxBatchFiles = 1000

// RecommendedBatchFiles is the sub-batch size suggested to the user when a
// batch exceeds the hard cap.
const RecommendedBatchFiles = 500

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
}

// ValidationError is a pre-flight rejection of the whole batch. Nothing has
// reached the network; the user can edit the selection and retry.
type ValidationError struct {
	Title   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

// ValidateBatch classifies a batch before upload. It is pure and
// idempotent: either the whole batch is acceptable (nil) or none of it is.
func ValidateBatch(files []PendingFile) error {
	if len(files) > MaxBatchFiles {
		return &ValidationError{
			Title: "Batch too large",
			Message: fmt.Sprintf(
				"%d files selected, but at most %d can be uploaded in one batch. Split the upload into sub-batches of %d files or fewer.",
				len(files), MaxBatchFiles, RecommendedBatchFiles),
		}
	}

	var offending []string
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if _, ok := allowedExtensions[ext]; !ok {
			offending = append(offending, f.Name)
		}
	}
	if len(offending) > 0 {
		return &ValidationError{
			Title: "Unsupported file format",
			Message: fmt.Sprintf(
				"Supported formats are .pdf, .docx and .doc. Remove the following files: %s",
				strings.Join(offending, ", ")),
		}
	}

	return nil
}
