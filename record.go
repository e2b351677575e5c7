package gleaner

import (
	"strings"
	"time"
)

// Record is the persisted unit of output: one per successfully extracted
// page. Records are immutable once written and are never retracted.
type Record struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	SiteName  *string   `json:"site_name"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	if r.Content == "" {
		return Errorf(EINVALID, "record content required")
	}
	return nil
}

// NewRecord maps an extracted article into the persisted record shape.
// Content whitespace is collapsed and the record is stamped with the
// current UTC wall-clock time.
func NewRecord(article *Article, url string, now time.Time) *Record {
	return &Record{
		URL:       url,
		Title:     strings.TrimSpace(article.Title),
		Content:   CollapseWhitespace(article.TextContent),
		SiteName:  article.SiteName,
		ScrapedAt: now.UTC(),
	}
}

// CollapseWhitespace replaces every maximal run of whitespace characters
// (including newlines and tabs) with a single space and trims the ends.
// Text already free of repeated whitespace comes back unchanged apart from
// the trim.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
