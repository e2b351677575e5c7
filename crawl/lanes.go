package crawl

import (
	"context"

	"github.com/pkobus/gleaner"
	"golang.org/x/sync/errgroup"
)

// Ensure Feed implements gleaner.URLSource at compile time.
var _ gleaner.URLSource = (*Feed)(nil)

type feedItem struct {
	url string
	err error
}

// Feed fans a single URLSource out to multiple pipeline lanes. Each
// candidate goes to exactly one lane, so lanes own disjoint slices of the
// input by construction. Feed is safe for concurrent Next calls.
type Feed struct {
	items <-chan feedItem
}

// NewFeed starts pumping the source into a channel the lanes draw from.
// The pump stops when the source is exhausted or the context is canceled;
// the caller still owns closing the source.
func NewFeed(ctx context.Context, source gleaner.URLSource) *Feed {
	items := make(chan feedItem)
	go func() {
		defer close(items)
		for {
			url, ok, err := source.Next(ctx)
			if err != nil {
				select {
				case items <- feedItem{err: err}:
				case <-ctx.Done():
				}
				return
			}
			if !ok {
				return
			}
			select {
			case items <- feedItem{url: url}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return &Feed{items: items}
}

// Next returns the next candidate from the shared feed.
func (f *Feed) Next(ctx context.Context) (string, bool, error) {
	select {
	case item, ok := <-f.items:
		if !ok {
			return "", false, nil
		}
		if item.err != nil {
			return "", false, item.err
		}
		return item.url, true, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Close is a no-op; the underlying source is closed by its owner.
func (f *Feed) Close() error {
	return nil
}

// RunLanes runs independent pipeline lanes in parallel and sums their
// results. Each lane must own its own Fetcher (browser session); the
// record writer may be shared because writers serialize appends.
func RunLanes(ctx context.Context, pipelines []*Pipeline) (*Result, error) {
	g, gctx := errgroup.WithContext(ctx)

	results := make([]*Result, len(pipelines))
	for i, p := range pipelines {
		g.Go(func() error {
			result, err := p.Run(gctx)
			results[i] = result
			return err
		})
	}

	err := g.Wait()

	total := &Result{}
	for _, r := range results {
		if r != nil {
			total.add(r)
		}
	}
	return total, err
}
