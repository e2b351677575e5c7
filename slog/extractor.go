// Package slog provides logging decorators for gleaner interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/pkobus/gleaner"
)

// Ensure LoggingExtractor implements gleaner.Extractor.
var _ gleaner.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   gleaner.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next gleaner.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(html, pageURL string) (article *gleaner.Article, err error) {
	defer func(begin time.Time) {
		var textLen int
		if article != nil {
			textLen = len(article.TextContent)
		}
		e.logger.Debug("extract",
			"url", pageURL,
			"html_bytes", len(html),
			"text_bytes", textLen,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, pageURL)
}
