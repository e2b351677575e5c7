package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pkobus/gleaner"
)

var _ gleaner.Pacer = (*JitterPacer)(nil)

// Default pacing window. Wide enough to stay under host-side throttling on
// most news sites; override per deployment.
const (
	DefaultDelayMin = 500 * time.Millisecond
	DefaultDelayMax = 1500 * time.Millisecond
)

// JitterPacer delays the pipeline for a duration drawn uniformly from a
// fixed window. Uniform jitter avoids the regular request cadence that
// bot defenses key on.
type JitterPacer struct {
	min time.Duration
	max time.Duration
}

// NewJitterPacer creates a pacer drawing from [min, max). A max at or below
// min collapses the window to a fixed delay of min.
func NewJitterPacer(min, max time.Duration) *JitterPacer {
	if max < min {
		max = min
	}
	return &JitterPacer{min: min, max: max}
}

// Wait suspends until the drawn delay elapses or the context is canceled.
func (p *JitterPacer) Wait(ctx context.Context) error {
	delay := p.min
	if span := p.max - p.min; span > 0 {
		delay += rand.N(span)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
