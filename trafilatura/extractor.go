// Package trafilatura extracts article content using go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pkobus/gleaner"
	"golang.org/x/net/html"
)

// Ensure Extractor implements gleaner.Extractor at compile time.
var _ gleaner.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract article text from rendered HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if parsed, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = parsed
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	text := result.ContentText
	if text == "" && result.ContentNode != nil {
		text = nodeText(result.ContentNode)
	}

	var siteName *string
	if result.Metadata.Sitename != "" {
		siteName = &result.Metadata.Sitename
	}

	return &gleaner.Article{
		Title:       result.Metadata.Title,
		TextContent: text,
		SiteName:    siteName,
	}, nil
}

// nodeText collects the text content of an html.Node subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
