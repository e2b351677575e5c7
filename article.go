package gleaner

// MinTextLength is the minimum extracted text length for an article to be
// considered a real extraction. Anything shorter is treated identically to
// no article at all: boilerplate-removal heuristics routinely return a
// stray caption or cookie banner for pages with no prose.
const MinTextLength = 200

// Article is the result of boilerplate removal on a rendered page.
type Article struct {
	// Title is the page title extracted from metadata.
	Title string

	// TextContent is the main prose with markup and boilerplate removed.
	// Whitespace is not yet normalized; that happens when the article is
	// turned into a Record.
	TextContent string

	// SiteName is the publisher name if the page declares one, nil
	// otherwise. It is passed through as-is; the host name is never
	// substituted for it.
	SiteName *string
}

// Valid reports whether the article carries enough text to persist.
func (a *Article) Valid() bool {
	return a != nil && len(a.TextContent) >= MinTextLength
}

// Extractor extracts the main article from rendered HTML, removing
// boilerplate (navigation, ads, footers). Implementations wrap
// readability-style DOM scoring heuristics.
type Extractor interface {
	// Extract processes rendered HTML and returns the main article.
	// The pageURL resolves relative references and informs metadata
	// extraction. A nil article with a nil error means the heuristic
	// found no content; callers treat that the same as an error.
	Extract(html, pageURL string) (*Article, error)
}
