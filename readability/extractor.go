// Package readability implements readlater.Extractor with go-readability's
// scoring algorithm as an alternative to the pattern-based engine.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/extract"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Extractor implements readlater.Extractor at compile time.
var _ readlater.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the article body from HTML.
// Document descriptors are still read by the extraction engine's
// harvester, so both extractors report tags and metadata the same way.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes the page's raw HTML and returns the article record.
func (e *Extractor) Extract(page *readlater.Page, opts readlater.ExtractOptions) (*readlater.Article, error) {
	if page == nil || strings.TrimSpace(page.HTML) == "" {
		return nil, readlater.Errorf(readlater.EUNAVAILABLE, "empty HTML input")
	}

	doc, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "failed to parse HTML: %v", err)
	}
	desc := extract.Harvest(extract.Wrap(doc))

	// A page URL that does not parse only loses link resolution.
	pageURL, _ := url.Parse(page.URL)
	ra, err := readability.FromReader(strings.NewReader(page.HTML), pageURL)
	if err != nil {
		return nil, err
	}

	article := &readlater.Article{
		Title: ra.Title,
		URL:   page.URL,
		Tags:  desc.Tags(),
	}
	if article.Title == "" {
		article.Title = desc.Title
	}
	if ra.Node != nil {
		article.Content = extract.Normalize(ra.Node)
	} else {
		article.Content = strings.TrimSpace(ra.TextContent)
	}
	article.Summary = summary(desc, ra.Excerpt, article.Content)

	md := &article.Metadata
	md.Author = nonEmpty(ra.Byline)
	md.SiteName = nonEmpty(ra.SiteName)
	md.Image = nonEmpty(ra.Image)

	extract.Complete(article, desc, opts)
	return article, nil
}

func summary(desc *extract.Descriptors, excerpt, content string) string {
	if description, ok := desc.Description(); ok {
		return description
	}
	if excerpt = strings.TrimSpace(excerpt); excerpt != "" {
		return extract.Truncate(excerpt, extract.SummaryLength)
	}
	return extract.Truncate(content, extract.SummaryLength)
}

func nonEmpty(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
