package ingest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/decipher6/greenstoneResume-sub000/internal/models"
)

// maxFilenamesPerGroup bounds how many filenames are listed per distinct
// error message in the human-readable summary.
const maxFilenamesPerGroup = 5

// FinalReport is the aggregated result of one ingestion session. It is
// always produced, whether the session was fully successful, partially
// successful or rejected pre-flight.
type FinalReport struct {
	SessionID   string              `json:"sessionId"`
	JobID       string              `json:"jobId"`
	TotalFiles  int                 `json:"totalFiles"`
	Uploaded    int                 `json:"uploaded"`
	Failed      int                 `json:"failed"`
	FailedFiles []models.FailedFile `json:"failedFiles,omitempty"`
	Analysis    *AnalysisJobHandle  `json:"analysis,omitempty"`
	StartedAt   time.Time           `json:"startedAt"`
	FinishedAt  time.Time           `json:"finishedAt"`
}

// fold accumulates one chunk outcome. Deferred chunks contribute nothing
// until their replay settles.
func (r *FinalReport) fold(o UploadOutcome) {
	switch o.Kind {
	case OutcomeSuccess, OutcomeTerminal:
		r.Uploaded += o.Uploaded
		r.Failed += o.Failed
		r.FailedFiles = append(r.FailedFiles, o.FailedFiles...)
	case OutcomeDeferred:
	}
}

// Summary renders totals plus failures grouped by distinct error message,
// each group listing affected filenames (truncated when numerous). Grouping
// keeps the output readable for large batches while staying actionable.
func (r *FinalReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Uploaded %d of %d files", r.Uploaded, r.TotalFiles)
	if r.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", r.Failed)
	}

	if len(r.FailedFiles) == 0 {
		return b.String()
	}

	groups := make(map[string][]string)
	order := make([]string, 0)
	for _, f := range r.FailedFiles {
		if _, seen := groups[f.Error]; !seen {
			order = append(order, f.Error)
		}
		groups[f.Error] = append(groups[f.Error], f.Filename)
	}
	// Largest groups first; ties keep first-seen order.
	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]]) > len(groups[order[j]])
	})

	for _, msg := range order {
		names := groups[msg]
		shown := names
		if len(shown) > maxFilenamesPerGroup {
			shown = shown[:maxFilenamesPerGroup]
		}
		fmt.Fprintf(&b, "\n  %s (%d): %s", msg, len(names), strings.Join(shown, ", "))
		if len(names) > len(shown) {
			fmt.Fprintf(&b, " and %d more", len(names)-len(shown))
		}
	}
	return b.String()
}
