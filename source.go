package gleaner

import "context"

// URLSource produces a stream of candidate URLs, one at a time, in source
// order. Implementations must not materialize the full list up front when
// the underlying resource allows streaming, so memory stays O(1) in the
// number of URLs.
type URLSource interface {
	// Next returns the next candidate URL. ok is false once the source is
	// exhausted. A candidate is always trimmed and non-empty; blank lines
	// are consumed silently.
	Next(ctx context.Context) (url string, ok bool, err error)

	// Close releases the underlying resource.
	Close() error
}
