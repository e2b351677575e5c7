package gleaner

import "context"

// Pacer inserts a delay between consecutive URL visits so target hosts are
// not overwhelmed and trivial bot defenses are not tripped. A courtesy
// mechanism, not a correctness requirement.
type Pacer interface {
	// Wait suspends the pipeline. Returns early with the context's error
	// if the context is canceled during the delay.
	Wait(ctx context.Context) error
}

// HostLimiter enforces an upper request rate per host, for deployments
// running multiple pipeline lanes against overlapping hosts.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	Wait(ctx context.Context, host string) error
}
