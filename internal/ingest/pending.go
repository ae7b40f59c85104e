package ingest

import (
	"sync"

	"github.com/google/uuid"
)

// PendingFile is a resume the user selected but has not yet submitted. The
// ID is a client-side correlation identifier so file-level attribution never
// depends on filenames alone.
type PendingFile struct {
	ID      string
	Name    string
	Size    int64
	Content []byte
}

// NewPendingFile wraps raw file content as a pending file.
func NewPendingFile(name string, content []byte) PendingFile {
	return PendingFile{
		ID:      uuid.New().String(),
		Name:    name,
		Size:    int64(len(content)),
		Content: content,
	}
}

// PendingFileSet accumulates files awaiting upload. Files are appended in
// submission order; adding a file whose name already exists in the set is
// silently dropped (dedup by exact name, not content).
type PendingFileSet struct {
	mu    sync.Mutex
	files []PendingFile
	names map[string]struct{}
}

// NewPendingFileSet creates an empty set.
func NewPendingFileSet() *PendingFileSet {
	return &PendingFileSet{
		names: make(map[string]struct{}),
	}
}

// Add merges new files into the set and returns how many were actually
// added. Duplicates by name keep the existing entry.
func (s *PendingFileSet) Add(files ...PendingFile) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, f := range files {
		if _, exists := s.names[f.Name]; exists {
			continue
		}
		s.names[f.Name] = struct{}{}
		s.files = append(s.files, f)
		added++
	}
	return added
}

// Remove drops the file at the given position. Returns false if the index
// is out of range.
func (s *PendingFileSet) Remove(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.files) {
		return false
	}
	delete(s.names, s.files[index].Name)
	s.files = append(s.files[:index], s.files[index+1:]...)
	return true
}

// Clear empties the set. This is the only supported form of cancellation
// before an upload starts.
func (s *PendingFileSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = nil
	s.names = make(map[string]struct{})
}

// Files returns a snapshot of the set in submission order.
func (s *PendingFileSet) Files() []PendingFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PendingFile, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of pending files.
func (s *PendingFileSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
