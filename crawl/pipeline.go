// Package crawl drives the crawl-and-extract pipeline: it streams
// candidate URLs from a source, renders each page through a browser
// fetcher, extracts article text, and appends records to a sink, pacing
// between visits.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkobus/gleaner"
)

// Pipeline orchestrates one lane of the crawl-and-extract flow. It owns
// overall sequencing and processes exactly one fetch at a time: navigation
// state and interception handlers are shared page state, not safe for
// interleaved use.
type Pipeline struct {
	Source    gleaner.URLSource
	Fetcher   gleaner.Fetcher
	Extractor gleaner.Extractor
	Records   gleaner.RecordWriter

	// Pacer inserts the inter-request delay. Optional; nil disables
	// pacing.
	Pacer gleaner.Pacer

	// Hosts enforces a per-host rate cap across lanes. Optional.
	Hosts gleaner.HostLimiter

	Logger *slog.Logger

	// Now stamps records. Defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of a pipeline run.
type Result struct {
	Saved   int
	Skipped int
	Failed  int
}

// add accumulates another result, for multi-lane totals.
func (r *Result) add(other *Result) {
	r.Saved += other.Saved
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

type outcome int

const (
	outcomeSaved outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Run processes the source to exhaustion. Per-URL failures are local: they
// are logged, counted, and never abort the run. The context is the
// cooperative stop signal, checked between URLs; an in-flight navigation
// completes or times out before the signal takes effect. Cancellation ends
// the run cleanly with the counts so far.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run", uuid.New().String())

	result := &Result{}
	for {
		if ctx.Err() != nil {
			break
		}

		candidate, ok, err := p.Source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return result, err
		}
		if !ok {
			break
		}

		switch p.processOne(ctx, logger, candidate) {
		case outcomeSaved:
			result.Saved++
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Failed++
		}

		if p.Pacer != nil {
			if err := p.Pacer.Wait(ctx); err != nil {
				break
			}
		}
	}

	logger.Info("run complete",
		"saved", result.Saved,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// processOne walks a single URL through filter, fetch, extract, normalize,
// and append. Any panic is contained here so one bad page cannot take down
// the run.
func (p *Pipeline) processOne(ctx context.Context, logger *slog.Logger, candidate string) (oc outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("page processing panic", "url", candidate, "panic", r)
			oc = outcomeFailed
		}
	}()

	if reason := gleaner.Classify(candidate); reason != gleaner.SkipNone {
		logger.Info("skip", "url", candidate, "reason", reason)
		return outcomeSkipped
	}

	if p.Hosts != nil {
		if parsed, err := url.Parse(candidate); err == nil && parsed.Host != "" {
			if err := p.Hosts.Wait(ctx, parsed.Host); err != nil {
				return outcomeFailed
			}
		}
	}

	html, err := p.Fetcher.Fetch(ctx, candidate)
	if err != nil {
		logger.Warn("fetch failed",
			"url", candidate,
			"code", gleaner.ErrorCode(err),
			"err", err,
		)
		return outcomeFailed
	}

	article, err := p.Extractor.Extract(html, candidate)
	if err != nil || !article.Valid() {
		// A heuristic miss and an extraction error get the same
		// treatment: no record, move on.
		logger.Info("no article", "url", candidate, "err", err)
		return outcomeFailed
	}

	now := p.Now
	if now == nil {
		now = time.Now
	}
	record := gleaner.NewRecord(article, candidate, now())

	if err := p.Records.Append(ctx, record); err != nil {
		logger.Error("append failed", "url", candidate, "err", err)
		return outcomeFailed
	}

	logger.Info("saved", "url", candidate, "title", record.Title)
	return outcomeSaved
}
