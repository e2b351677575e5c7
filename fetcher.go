package gleaner

import "context"

// WaitPolicy selects the load-completion signal a Fetcher waits for before
// snapshotting the page.
type WaitPolicy string

const (
	// WaitPolicyLoad waits for the page load event. Faster, but may miss
	// content that arrives via late background requests.
	WaitPolicyLoad WaitPolicy = "load"

	// WaitPolicyNetworkIdle waits for the load event and then for network
	// quiescence (no new requests sustained for a fixed interval). Slower,
	// but picks up content loaded by background requests.
	WaitPolicyNetworkIdle WaitPolicy = "networkidle"
)

// Fetcher retrieves rendered HTML from URLs.
// Implementations use browser automation so JavaScript-rendered content is
// present in the returned snapshot.
type Fetcher interface {
	// Fetch navigates to the URL, waits for the configured load-completion
	// signal, and returns the live HTML snapshot taken after the wait, not
	// the initial response body. Fails with code ETIMEOUT when the signal
	// is not reached within the fetcher's timeout and EUNAVAILABLE for any
	// other transport or rendering failure.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
