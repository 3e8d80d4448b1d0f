// Package trafilatura implements readlater.Extractor with go-trafilatura,
// which falls back to readability and dom-distiller on hard pages.
package trafilatura

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/extract"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements readlater.Extractor at compile time.
var _ readlater.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the article body from HTML.
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

	topts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(page.URL); err == nil && u.Host != "" {
		topts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(page.HTML), topts)
	if err != nil {
		return nil, err
	}
	meta := result.Metadata

	article := &readlater.Article{
		Title: desc.Title,
		URL:   page.URL,
		Tags:  desc.Tags(),
	}
	if article.Title == "" {
		article.Title = meta.Title
	}
	if len(article.Tags) == 0 && len(meta.Tags) > 0 {
		article.Tags = extract.ParseTags(strings.Join(meta.Tags, ","))
	}
	if result.ContentNode != nil {
		article.Content = extract.Normalize(result.ContentNode)
	} else {
		article.Content = strings.TrimSpace(result.ContentText)
	}

	if description, ok := desc.Description(); ok {
		article.Summary = description
	} else if d := strings.TrimSpace(meta.Description); d != "" {
		article.Summary = extract.Truncate(d, extract.SummaryLength)
	} else {
		article.Summary = extract.Truncate(article.Content, extract.SummaryLength)
	}

	md := &article.Metadata
	md.Author = nonEmpty(meta.Author)
	md.SiteName = nonEmpty(meta.Sitename)
	md.Type = nonEmpty(meta.PageType)
	md.Image = nonEmpty(meta.Image)
	if !meta.Date.IsZero() {
		date := meta.Date.Format(time.RFC3339)
		md.PublishedTime = &date
	}

	extract.Complete(article, desc, opts)
	return article, nil
}

func nonEmpty(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
