// Package readability extracts article content using go-readability's
// Mozilla-style DOM scoring heuristic.
package readability

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pkobus/gleaner"
)

// Ensure Extractor implements gleaner.Extractor at compile time.
var _ gleaner.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract article text from rendered HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes rendered HTML and returns the main article.
func (e *Extractor) Extract(rawHTML, pageURL string) (*gleaner.Article, error) {
	if rawHTML == "" {
		return nil, gleaner.Errorf(gleaner.EINVALID, "empty HTML input")
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		return nil, err
	}

	var siteName *string
	if article.SiteName != "" {
		siteName = &article.SiteName
	}

	return &gleaner.Article{
		Title:       article.Title,
		TextContent: article.TextContent,
		SiteName:    siteName,
	}, nil
}
