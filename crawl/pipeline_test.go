package crawl_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkobus/gleaner"
	"github.com/pkobus/gleaner/crawl"
	"github.com/pkobus/gleaner/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

// longText is comfortably above the minimum article length.
var longText = strings.Repeat("Article body text. ", 20)

// collectingWriter records every appended record.
type collectingWriter struct {
	mu      sync.Mutex
	records []*gleaner.Record
}

func (w *collectingWriter) Append(_ context.Context, rec *gleaner.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, rec)
	return nil
}

func (w *collectingWriter) Close() error { return nil }

func pipeline(source gleaner.URLSource, fetcher gleaner.Fetcher, extractor gleaner.Extractor, writer gleaner.RecordWriter) *crawl.Pipeline {
	return &crawl.Pipeline{
		Source:    source,
		Fetcher:   fetcher,
		Extractor: extractor,
		Records:   writer,
		Logger:    discard,
	}
}

func TestPipeline_SkipsWithoutInvokingFetcher(t *testing.T) {
	t.Parallel()

	var fetched []string
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			fetched = append(fetched, url)
			return "<html></html>", nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: longText}, nil
		},
	}
	writer := &collectingWriter{}

	source := mock.SliceSource(
		"https://a.test/photo.png",
		"https://a.test/photo.JPG/",
		"https://a.test/paper.pdf",
		"x",
		"https://a.test/blog/post",
	)

	result, err := pipeline(source, fetcher, extractor, writer).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, result.Skipped)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, []string{"https://a.test/blog/post"}, fetched)
}

func TestPipeline_ScenarioImageThenArticle(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<html><body>rendered</body></html>", nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "Post", TextContent: strings.Repeat("x", 250)}, nil
		},
	}
	writer := &collectingWriter{}

	source := mock.SliceSource("http://a.test/photo.png", "http://a.test/blog/post")

	result, err := pipeline(source, fetcher, extractor, writer).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	require.Len(t, writer.records, 1)
	assert.Equal(t, "http://a.test/blog/post", writer.records[0].URL)
}

func TestPipeline_ShortArticleProducesNoRecord(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: strings.Repeat("x", gleaner.MinTextLength-1)}, nil
		},
	}
	writer := &collectingWriter{}

	source := mock.SliceSource("https://a.test/thin-page")

	result, err := pipeline(source, fetcher, extractor, writer).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, writer.records)
}

func TestPipeline_NilArticleTreatedAsExtractFailure(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) { return nil, nil },
	}
	writer := &collectingWriter{}

	result, err := pipeline(mock.SliceSource("https://a.test/empty"), fetcher, extractor, writer).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, writer.records)
}

func TestPipeline_FetchTimeoutContinuesToNextURL(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if strings.Contains(url, "slow") {
				return "", gleaner.Errorf(gleaner.ETIMEOUT, "navigation timeout")
			}
			return "<html></html>", nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: longText}, nil
		},
	}
	writer := &collectingWriter{}

	source := mock.SliceSource("https://a.test/slow", "https://a.test/fast")

	result, err := pipeline(source, fetcher, extractor, writer).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Saved)
	require.Len(t, writer.records, 1)
	assert.Equal(t, "https://a.test/fast", writer.records[0].URL)
}

func TestPipeline_PanicIsContainedToOneURL(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if strings.Contains(url, "bad") {
				panic("renderer exploded")
			}
			return "<html></html>", nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: longText}, nil
		},
	}
	writer := &collectingWriter{}

	source := mock.SliceSource("https://a.test/bad", "https://a.test/good")

	result, err := pipeline(source, fetcher, extractor, writer).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Saved)
}

func TestPipeline_PacerRunsAfterEveryURL(t *testing.T) {
	t.Parallel()

	var waits int
	pacer := &mock.Pacer{
		WaitFn: func(_ context.Context) error {
			waits++
			return nil
		},
	}
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: longText}, nil
		},
	}

	p := pipeline(mock.SliceSource("https://a.test/skip.png", "https://a.test/one", "https://a.test/two"), fetcher, extractor, &collectingWriter{})
	p.Pacer = pacer

	_, err := p.Run(context.Background())

	require.NoError(t, err)
	// Skips pace too; every terminal state is followed by the pacer.
	assert.Equal(t, 3, waits)
}

func TestPipeline_StopsBetweenURLsOnCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			cancel() // cancel while the first fetch is in flight
			return "<html></html>", nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: longText}, nil
		},
	}
	writer := &collectingWriter{}

	source := mock.SliceSource("https://a.test/one", "https://a.test/two", "https://a.test/three")

	result, err := pipeline(source, fetcher, extractor, writer).Run(ctx)

	require.NoError(t, err)
	// The in-flight URL completes; the rest are never started.
	assert.Equal(t, 1, result.Saved)
	require.Len(t, writer.records, 1)
}

func TestPipeline_SourceErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk error")
	source := &mock.URLSource{
		NextFn: func(_ context.Context) (string, bool, error) {
			return "", false, boom
		},
	}

	p := pipeline(source, &mock.Fetcher{}, &mock.Extractor{}, &collectingWriter{})

	_, err := p.Run(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestPipeline_RecordStampedAtNormalization(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: "line one\n\nline two  " + longText}, nil
		},
	}
	writer := &collectingWriter{}

	p := pipeline(mock.SliceSource("https://a.test/post"), fetcher, extractor, writer)
	p.Now = func() time.Time { return now }

	_, err := p.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, writer.records, 1)
	rec := writer.records[0]
	assert.True(t, rec.ScrapedAt.Equal(now))
	assert.NotContains(t, rec.Content, "\n")
	assert.NotContains(t, rec.Content, "  ")
}

func TestPipeline_HostLimiterConsulted(t *testing.T) {
	t.Parallel()

	var hosts []string
	limiter := &mock.HostLimiter{
		WaitFn: func(_ context.Context, host string) error {
			hosts = append(hosts, host)
			return nil
		},
	}
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
	}
	extractor := &mock.Extractor{
		ExtractFn: func(_, _ string) (*gleaner.Article, error) {
			return &gleaner.Article{Title: "T", TextContent: longText}, nil
		},
	}

	p := pipeline(mock.SliceSource("https://a.test/one", "https://b.test/two"), fetcher, extractor, &collectingWriter{})
	p.Hosts = limiter

	_, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.test", "b.test"}, hosts)
}
