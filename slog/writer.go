package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkobus/gleaner"
)

// Ensure LoggingRecordWriter implements gleaner.RecordWriter.
var _ gleaner.RecordWriter = (*LoggingRecordWriter)(nil)

// LoggingRecordWriter wraps a RecordWriter with debug logging.
type LoggingRecordWriter struct {
	next   gleaner.RecordWriter
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next gleaner.RecordWriter, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, logger: logger}
}

// Append delegates to the wrapped writer and logs the operation.
func (w *LoggingRecordWriter) Append(ctx context.Context, record *gleaner.Record) (err error) {
	defer func(begin time.Time) {
		w.logger.Debug("append",
			"url", record.URL,
			"content_bytes", len(record.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.Append(ctx, record)
}

// Close delegates to the wrapped writer.
func (w *LoggingRecordWriter) Close() error {
	return w.next.Close()
}
