package ingest

import (
	"fmt"
	"testing"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name      string
		files     int
		size      int
		wantSizes []int
	}{
		{name: "37 files in chunks of 15", files: 37, size: 15, wantSizes: []int{15, 15, 7}},
		{name: "16 files in chunks of 15", files: 16, size: 15, wantSizes: []int{15, 1}},
		{name: "exact multiple", files: 30, size: 15, wantSizes: []int{15, 15}},
		{name: "fewer than one chunk", files: 7, size: 15, wantSizes: []int{7}},
		{name: "empty input", files: 0, size: 15, wantSizes: []int{}},
		{name: "zero size falls back to default", files: 20, size: 0, wantSizes: []int{15, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := makeFiles(tt.files)
			chunks := SplitChunks(files, tt.size)

			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("expected %d chunks, got %d", len(tt.wantSizes), len(chunks))
			}
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
				if len(c.Files) != tt.wantSizes[i] {
					t.Errorf("chunk %d: expected %d files, got %d", i, tt.wantSizes[i], len(c.Files))
				}
			}

			// Concatenating all chunks in order must reproduce the input.
			var names []string
			for _, c := range chunks {
				for _, f := range c.Files {
					names = append(names, f.Name)
				}
			}
			if len(names) != len(files) {
				t.Fatalf("chunks cover %d files, expected %d", len(names), len(files))
			}
			for i, name := range names {
				if name != files[i].Name {
					t.Errorf("position %d: expected %s, got %s", i, files[i].Name, name)
				}
			}
		})
	}
}

func makeFiles(n int) []PendingFile {
	files := make([]PendingFile, n)
	for i := range files {
		files[i] = NewPendingFile(fmt.Sprintf("resume-%04d.pdf", i), []byte("pdf content"))
	}
	return files
}
