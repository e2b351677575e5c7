// Package goquery provides a selector-based fallback extractor. It does no
// DOM scoring: it takes the text of the first matching content container.
// Use it for sites where the readability-style heuristics misfire.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkobus/gleaner"
)

// Ensure Extractor implements gleaner.Extractor at compile time.
var _ gleaner.Extractor = (*Extractor)(nil)

// contentSelectors are tried in order; the first non-empty match wins.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	"#content",
	"body",
}

// Extractor extracts article text with CSS selectors.
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

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	var text string
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		// Drop obvious boilerplate containers before taking the text.
		sel.Find("nav, header, footer, aside, script, style").Remove()
		text = strings.TrimSpace(sel.Text())
		if text != "" {
			break
		}
	}
	if text == "" {
		return nil, nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && og != "" {
		title = og
	}

	var siteName *string
	if name, ok := doc.Find("meta[property='og:site_name']").Attr("content"); ok && name != "" {
		siteName = &name
	}

	return &gleaner.Article{
		Title:       title,
		TextContent: text,
		SiteName:    siteName,
	}, nil
}
