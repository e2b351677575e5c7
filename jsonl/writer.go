// Package jsonl persists records as newline-delimited JSON.
package jsonl

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkobus/gleaner"
)

// Ensure Writer implements gleaner.RecordWriter at compile time.
var _ gleaner.RecordWriter = (*Writer)(nil)

// Writer appends one JSON object per line to an output file. The file is
// opened in append mode and never truncated, so a prior run's output is
// preserved when a run is resumed against the same path.
//
// Each record is marshaled to a single buffer, newline included, and
// written with one Write call. Combined with O_APPEND semantics this keeps
// lines whole under crashes and under concurrent writers, so one Writer can
// be shared by multiple pipeline lanes.
type Writer struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (or creates) the output file at path for appending.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, gleaner.Errorf(gleaner.EUNAVAILABLE, "cannot open output %q: %v", path, err)
	}
	return &Writer{file: f}, nil
}

// Append serializes the record and appends it as one line.
func (w *Writer) Append(ctx context.Context, record *gleaner.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.file.Write(data)
	return err
}

// Close closes the output file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
