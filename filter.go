package gleaner

import (
	"net/url"
	"strings"
)

// MinURLLength is the shortest URL worth classifying further. Anything
// shorter cannot carry a scheme and host, so it is skipped before any
// network cost is paid.
const MinURLLength = 4

// SkipReason classifies a candidate URL before fetch. It is derived purely
// from URL syntax and never re-evaluated after fetch.
type SkipReason string

const (
	SkipNone     SkipReason = "none"      // proceed to fetch
	SkipImage    SkipReason = "image"     // URL points at an image file
	SkipPDF      SkipReason = "pdf"       // URL points at a PDF
	SkipTooShort SkipReason = "too-short" // URL too short to be fetchable
)

// imageExtensions are URL path suffixes that identify image resources.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".svg", ".gif"}

// Classify reports whether a URL should be skipped without fetching.
// Extension matching is case-insensitive and tolerates a single trailing
// slash after the extension (CDN-style URLs). This check is purely
// syntactic; it never probes the network.
func Classify(rawURL string) SkipReason {
	if len(rawURL) < MinURLLength {
		return SkipTooShort
	}

	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.ToLower(strings.TrimSuffix(path, "/"))

	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return SkipImage
		}
	}
	if strings.HasSuffix(path, ".pdf") {
		return SkipPDF
	}
	return SkipNone
}
