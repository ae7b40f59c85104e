package ingest

import "github.com/decipher6/greenstoneResume-sub000/internal/atsclient"

// DefaultChunkSize is the maximum number of files per upload request. It
// matches the server's internal processing batch size.
const DefaultChunkSize = 15

// Chunk is an ordered slice of pending files submitted in one upload
// request. Concatenating all chunks in index order reproduces the original
// pending-file order.
type Chunk struct {
	Index int
	Files []PendingFile
}

// SplitChunks partitions files into chunks of at most size files. The last
// chunk may be smaller.
func SplitChunks(files []PendingFile, size int) []Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([]Chunk, 0, (len(files)+size-1)/size)
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Files: files[start:end],
		})
	}
	return chunks
}

// resumes converts the chunk's files to the client's wire type.
func (c Chunk) resumes() []atsclient.Resume {
	out := make([]atsclient.Resume, len(c.Files))
	for i, f := range c.Files {
		out[i] = atsclient.Resume{Filename: f.Name, Content: f.Content}
	}
	return out
}
