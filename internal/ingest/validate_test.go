package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name        string
		files       []PendingFile
		wantErr     bool
		wantTitle   string
		wantMessage []string
	}{
		{
			name:    "valid mixed extensions",
			files:   named("a.pdf", "b.docx", "c.doc", "D.PDF"),
			wantErr: false,
		},
		{
			name:    "empty batch",
			files:   nil,
			wantErr: false,
		},
		{
			name:        "oversized batch recommends sub-batches",
			files:       makeFiles(1200),
			wantErr:     true,
			wantTitle:   "Batch too large",
			wantMessage: []string{"1200", "1000", "500"},
		},
		{
			name:        "disallowed extensions are all enumerated",
			files:       named("ok.pdf", "notes.txt", "pic.png"),
			wantErr:     true,
			wantTitle:   "Unsupported file format",
			wantMessage: []string{"notes.txt", "pic.png"},
		},
		{
			name:        "extensionless file rejected",
			files:       named("resume"),
			wantErr:     true,
			wantTitle:   "Unsupported file format",
			wantMessage: []string{"resume"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch(tt.files)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if verr.Title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, verr.Title)
			}
			for _, want := range tt.wantMessage {
				if !strings.Contains(verr.Message, want) {
					t.Errorf("message %q does not mention %q", verr.Message, want)
				}
			}
		})
	}
}

func TestValidateBatchIdempotent(t *testing.T) {
	files := named("a.pdf", "bad.txt")

	first := ValidateBatch(files)
	second := ValidateBatch(files)

	if first == nil || second == nil {
		t.Fatal("expected both calls to fail")
	}
	if first.Error() != second.Error() {
		t.Errorf("validation is not idempotent: %q vs %q", first, second)
	}
}

func TestValidateBatchAcceptedTwice(t *testing.T) {
	files := named("a.pdf", "b.doc")
	if err := ValidateBatch(files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateBatch(files); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
}

func named(names ...string) []PendingFile {
	files := make([]PendingFile, len(names))
	for i, n := range names {
		files[i] = NewPendingFile(n, []byte("content"))
	}
	return files
}
