// Package journal persists ingestion session events to an append-only file
// for post-mortem inspection of large batches. Events are msgpack-encoded
// to keep journals of thousand-file sessions small.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/decipher6/greenstoneResume-sub000/internal/ingest"
)

// EventKind discriminates journal entries.
type EventKind string

const (
	KindStage EventKind = "stage"
	KindChunk EventKind = "chunk"
	KindFinal EventKind = "final"
)

// Event is one journal record. Only the fields relevant to its kind are
// populated.
type Event struct {
	At        time.Time `msgpack:"at"`
	Kind      EventKind `msgpack:"kind"`
	SessionID string    `msgpack:"sessionId"`

	Stage string `msgpack:"stage,omitempty"`

	ChunkIndex int    `msgpack:"chunkIndex,omitempty"`
	Uploaded   int    `msgpack:"uploaded,omitempty"`
	Failed     int    `msgpack:"failed,omitempty"`
	Deferred   bool   `msgpack:"deferred,omitempty"`
	Error      string `msgpack:"error,omitempty"`

	TotalFiles int `msgpack:"totalFiles,omitempty"`
}

// Journal writes events to a file. It implements ingest.EventRecorder.
type Journal struct {
	mu  sync.Mutex
	f   *os.File
	enc *msgpack.Encoder
}

// Open creates or truncates a journal file.
func Open(path string) (*Journal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{f: f, enc: msgpack.NewEncoder(f)}, nil
}

// RecordStage appends a stage transition.
func (j *Journal) RecordStage(sessionID string, stage ingest.Stage) {
	j.append(Event{
		At:        time.Now(),
		Kind:      KindStage,
		SessionID: sessionID,
		Stage:     string(stage),
	})
}

// RecordChunk appends one chunk outcome.
func (j *Journal) RecordChunk(sessionID string, o ingest.UploadOutcome) {
	ev := Event{
		At:         time.Now(),
		Kind:       KindChunk,
		SessionID:  sessionID,
		ChunkIndex: o.ChunkIndex,
		Uploaded:   o.Uploaded,
		Failed:     o.Failed,
		Deferred:   o.Kind == ingest.OutcomeDeferred,
	}
	if o.Err != nil {
		ev.Error = o.Err.Error()
	}
	j.append(ev)
}

// RecordFinal appends the session's final report totals.
func (j *Journal) RecordFinal(r *ingest.FinalReport) {
	j.append(Event{
		At:         time.Now(),
		Kind:       KindFinal,
		SessionID:  r.SessionID,
		Uploaded:   r.Uploaded,
		Failed:     r.Failed,
		TotalFiles: r.TotalFiles,
	})
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}

func (j *Journal) append(ev Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	// Journal writes are best-effort; a failed write never disturbs the
	// session that produced the event.
	if err := j.enc.Encode(ev); err != nil {
		fmt.Printf("[Journal] write failed: %v\n", err)
	}
}

// Read loads all events from a journal file.
func Read(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	dec := msgpack.NewDecoder(f)
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return nil, fmt.Errorf("decode journal: %w", err)
		}
		events = append(events, ev)
	}
}
