package goquery_test

import (
	"testing"

	"github.com/pkobus/gleaner"
	"github.com/pkobus/gleaner/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="OG Title">
<meta property="og:site_name" content="Example News">
</head>
<body>
<nav>Navigation Boilerplate</nav>
<article>
<header>Article Header Boilerplate</header>
<p>The main article body that should survive extraction.</p>
</article>
<footer>Footer Boilerplate</footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := goquery.NewExtractor()
	_, err := ext.Extract("", "https://example.com/post")

	require.Error(t, err)
	assert.Equal(t, gleaner.EINVALID, gleaner.ErrorCode(err))
}

func TestExtractor_TakesFirstContentContainer(t *testing.T) {
	t.Parallel()

	ext := goquery.NewExtractor()
	article, err := ext.Extract(page, "https://example.com/post")

	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Contains(t, article.TextContent, "main article body")
	assert.NotContains(t, article.TextContent, "Navigation Boilerplate")
	assert.NotContains(t, article.TextContent, "Article Header Boilerplate")
}

func TestExtractor_PrefersOpenGraphTitle(t *testing.T) {
	t.Parallel()

	ext := goquery.NewExtractor()
	article, err := ext.Extract(page, "https://example.com/post")

	require.NoError(t, err)
	assert.Equal(t, "OG Title", article.Title)
}

func TestExtractor_SiteName(t *testing.T) {
	t.Parallel()

	ext := goquery.NewExtractor()
	article, err := ext.Extract(page, "https://example.com/post")

	require.NoError(t, err)
	require.NotNil(t, article.SiteName)
	assert.Equal(t, "Example News", *article.SiteName)
}

func TestExtractor_NoContentYieldsNilArticle(t *testing.T) {
	t.Parallel()

	ext := goquery.NewExtractor()
	article, err := ext.Extract("<html><body></body></html>", "https://example.com/post")

	require.NoError(t, err)
	assert.Nil(t, article)
}
