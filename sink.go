package gleaner

import "context"

// RecordWriter persists records durably and incrementally. Writers must be
// append-only: prior output survives a resumed run, and a crash between
// appends leaves only complete records behind.
type RecordWriter interface {
	// Append serializes the record and appends it to the output resource,
	// creating the resource if absent. Each call is an independent durable
	// write. Safe for concurrent use by multiple pipeline lanes.
	Append(ctx context.Context, record *Record) error

	// Close releases the output resource.
	Close() error
}
