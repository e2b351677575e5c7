// Package mock provides function-field mocks for gleaner interfaces.
package mock

import (
	"context"

	"github.com/pkobus/gleaner"
)

var _ gleaner.URLSource = (*URLSource)(nil)

// URLSource is a mock implementation of gleaner.URLSource.
type URLSource struct {
	NextFn  func(ctx context.Context) (string, bool, error)
	CloseFn func() error
}

func (s *URLSource) Next(ctx context.Context) (string, bool, error) {
	return s.NextFn(ctx)
}

func (s *URLSource) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// SliceSource returns a URLSource that yields the given URLs in order.
func SliceSource(urls ...string) *URLSource {
	i := 0
	return &URLSource{
		NextFn: func(ctx context.Context) (string, bool, error) {
			if err := ctx.Err(); err != nil {
				return "", false, err
			}
			if i >= len(urls) {
				return "", false, nil
			}
			u := urls[i]
			i++
			return u, true, nil
		},
	}
}

var _ gleaner.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of gleaner.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ gleaner.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of gleaner.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*gleaner.Article, error)
}

func (e *Extractor) Extract(html, pageURL string) (*gleaner.Article, error) {
	return e.ExtractFn(html, pageURL)
}

var _ gleaner.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of gleaner.RecordWriter.
type RecordWriter struct {
	AppendFn func(ctx context.Context, record *gleaner.Record) error
	CloseFn  func() error
}

func (w *RecordWriter) Append(ctx context.Context, record *gleaner.Record) error {
	return w.AppendFn(ctx, record)
}

func (w *RecordWriter) Close() error {
	if w.CloseFn == nil {
		return nil
	}
	return w.CloseFn()
}

var _ gleaner.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of gleaner.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	if p.WaitFn == nil {
		return nil
	}
	return p.WaitFn(ctx)
}

var _ gleaner.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of gleaner.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, host)
}
