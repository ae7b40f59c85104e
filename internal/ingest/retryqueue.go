package ingest

// RetryQueue holds chunks that exhausted their inline retries on transient
// errors. Chunks are kept whole so the deferred replay uses the same
// batching discipline as fresh uploads. The queue is owned by the single
// scheduler goroutine; it needs no locking.
type RetryQueue struct {
	chunks []Chunk
}

// Push appends a deferred chunk.
func (q *RetryQueue) Push(c Chunk) {
	q.chunks = append(q.chunks, c)
}

// Drain removes and returns all deferred chunks in the order they were
// pushed.
func (q *RetryQueue) Drain() []Chunk {
	out := q.chunks
	q.chunks = nil
	return out
}

// Len returns the number of deferred chunks.
func (q *RetryQueue) Len() int {
	return len(q.chunks)
}
