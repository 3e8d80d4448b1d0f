package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements readlater.Extractor at compile time.
var _ readlater.Extractor = (*trafilatura.Extractor)(nil)

func extractHTML(t *testing.T, html string, opts readlater.ExtractOptions) *readlater.Article {
	t.Helper()
	article, err := trafilatura.NewExtractor().Extract(&readlater.Page{URL: "https://example.com/guide", HTML: html}, opts)
	require.NoError(t, err)
	return article
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("prefers the document title", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Blog</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Getting Started</h1>
<p>This is the main content of the article page, long enough to be kept by the extractor.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		article := extractHTML(t, html, readlater.ExtractOptions{})

		assert.Equal(t, "Getting Started - My Blog", article.Title)
		assert.Equal(t, "https://example.com/guide", article.URL)
	})

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/posts">Posts</a></nav>
<article>
<h1>Writing</h1>
<p>This is important article content that should be extracted from the page body.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<footer>Copyright 2024 Example Corp</footer>
</body>
</html>`

		article := extractHTML(t, html, readlater.ExtractOptions{})

		assert.Contains(t, article.Content, "important article content")
		assert.Contains(t, article.Content, "func main()")
		assert.NotContains(t, article.Content, "Copyright 2024 Example Corp")
	})

	t.Run("reads descriptors through the harvester", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Test</title>
<meta name="description" content="Short description.">
<meta name="keywords" content="go,  web">
</head>
<body><article><p>This is important article content that should be extracted from the page body.</p></article></body>
</html>`

		article := extractHTML(t, html, readlater.ExtractOptions{})

		assert.Equal(t, "Short description.", article.Summary)
		assert.Equal(t, []string{"go", "web"}, article.Tags)
		require.NotNil(t, article.Metadata.WordCount)
		assert.Equal(t, "1 min read", article.Metadata.ReadingTime)
	})

	t.Run("applies basic fidelity", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title><meta name="author" content="Jane"><meta property="og:site_name" content="Site"></head>
<body><article><p>This is important article content that should be extracted from the page body.</p></article></body></html>`

		article := extractHTML(t, html, readlater.ExtractOptions{Fidelity: readlater.FidelityBasic})

		assert.Nil(t, article.Metadata.Author)
		assert.Nil(t, article.Metadata.SiteName)
		assert.Nil(t, article.Metadata.WordCount)
	})

	t.Run("applies selection", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title></head><body><article><p>This is important article content that should be extracted from the page body.</p></article></body></html>`

		article := extractHTML(t, html, readlater.ExtractOptions{Selection: &readlater.Selection{Text: "Chosen words"}})

		assert.Equal(t, "Chosen words", article.Content)
		assert.Equal(t, "Chosen words", article.Summary)
	})

	t.Run("returns EUNAVAILABLE for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract(&readlater.Page{}, readlater.ExtractOptions{})

		assert.Equal(t, readlater.EUNAVAILABLE, readlater.ErrorCode(err))
	})
}
