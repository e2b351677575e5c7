package gleaner_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkobus/gleaner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "runs of spaces collapse",
			in:   "one   two    three",
			want: "one two three",
		},
		{
			name: "newlines and tabs collapse",
			in:   "one\n\ntwo\t\tthree",
			want: "one two three",
		},
		{
			name: "leading and trailing whitespace trimmed",
			in:   "  padded  ",
			want: "padded",
		},
		{
			name: "already normalized text is unchanged",
			in:   "one two three",
			want: "one two three",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, gleaner.CollapseWhitespace(tt.in))
		})
	}
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	site := "Example News"
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("CET", 3600))

	article := &gleaner.Article{
		Title:       "  A Headline  ",
		TextContent: "First paragraph.\n\n  Second\tparagraph. ",
		SiteName:    &site,
	}

	rec := gleaner.NewRecord(article, "https://example.com/blog/post", now)

	assert.Equal(t, "https://example.com/blog/post", rec.URL)
	assert.Equal(t, "A Headline", rec.Title)
	assert.Equal(t, "First paragraph. Second paragraph.", rec.Content)
	require.NotNil(t, rec.SiteName)
	assert.Equal(t, "Example News", *rec.SiteName)
	assert.Equal(t, time.UTC, rec.ScrapedAt.Location())
	assert.True(t, rec.ScrapedAt.Equal(now))
}

func TestNewRecord_NilSiteNamePassesThrough(t *testing.T) {
	t.Parallel()

	article := &gleaner.Article{
		Title:       "Headline",
		TextContent: "Body text.",
	}

	rec := gleaner.NewRecord(article, "https://example.com/post", time.Now())

	assert.Nil(t, rec.SiteName)
}

func TestRecord_JSONShape(t *testing.T) {
	t.Parallel()

	rec := gleaner.NewRecord(&gleaner.Article{
		Title:       "Headline",
		TextContent: "Body text.",
	}, "https://example.com/post", time.Now())

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Len(t, fields, 5)
	assert.Contains(t, fields, "url")
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")
	assert.Contains(t, fields, "site_name")
	assert.Contains(t, fields, "scraped_at")
	assert.Nil(t, fields["site_name"])
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	err := (&gleaner.Record{Content: "text"}).Validate()
	assert.Equal(t, gleaner.EINVALID, gleaner.ErrorCode(err))

	err = (&gleaner.Record{URL: "https://example.com"}).Validate()
	assert.Equal(t, gleaner.EINVALID, gleaner.ErrorCode(err))

	assert.NoError(t, (&gleaner.Record{URL: "https://example.com", Content: "text"}).Validate())
}

func TestArticle_Valid(t *testing.T) {
	t.Parallel()

	long := make([]byte, gleaner.MinTextLength)
	for i := range long {
		long[i] = 'a'
	}

	assert.True(t, (&gleaner.Article{TextContent: string(long)}).Valid())
	assert.False(t, (&gleaner.Article{TextContent: string(long[:gleaner.MinTextLength-1])}).Valid())

	var nilArticle *gleaner.Article
	assert.False(t, nilArticle.Valid())
}
