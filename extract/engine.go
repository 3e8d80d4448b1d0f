// Package extract implements the article extraction engine.
//
// Extraction runs in four stages over an explicit document tree: the
// locator picks the subtree most likely to hold the article body, the
// pruner removes noise from a private copy of it, the normalizer serializes
// the copy to plain text, and the harvester reads the document's meta
// descriptors. A user selection replaces the content and summary but not
// the metadata, which always describes the whole document.
//
// The engine performs no I/O, keeps no state between calls and never
// mutates its input, so an Engine is safe for concurrent use.
package extract

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
)

// SummaryLength is the number of characters kept when a summary is
// derived from text.
const SummaryLength = 200

// Ellipsis marks a truncated summary.
const Ellipsis = "..."

// Engine extracts articles from markup trees.
type Engine struct {
	contentPatterns []Pattern
	noisePatterns   Patterns
}

// Option configures an Engine.
type Option func(*Engine)

// WithContentPatterns replaces the locator's priority list.
func WithContentPatterns(patterns ...Pattern) Option {
	return func(e *Engine) {
		e.contentPatterns = patterns
	}
}

// WithNoisePatterns replaces the pruner's noise patterns.
func WithNoisePatterns(patterns ...Pattern) Option {
	return func(e *Engine) {
		e.noisePatterns = patterns
	}
}

// NewEngine creates an Engine using DefaultContentPatterns and
// DefaultNoisePatterns unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		contentPatterns: DefaultContentPatterns,
		noisePatterns:   DefaultNoisePatterns,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract derives an article from doc.
//
// The only failure is a nil document, reported as EUNAVAILABLE. Sparse or
// malformed markup always degrades to empty or absent fields instead.
func (e *Engine) Extract(doc readlater.Node, pageURL string, opts readlater.ExtractOptions) (*readlater.Article, error) {
	if doc == nil {
		return nil, readlater.Errorf(readlater.EUNAVAILABLE, "no document to extract from")
	}

	work := clone(doc, nil)
	desc := harvest(work)
	article := &readlater.Article{
		Title: desc.Title,
		URL:   pageURL,
		Tags:  desc.Tags(),
	}

	pruned, _, _ := e.run(work)
	article.Content = Normalize(pruned)
	article.Summary = summarize(desc, pruned, article.Content)

	Complete(article, desc, opts)
	return article, nil
}

// Complete finishes an article whose content and summary were derived
// from the document. Reading time and, at full fidelity, word count are
// computed from that document content. A selection then replaces content
// and summary only. Metadata fields still absent are filled from desc; at
// basic fidelity the extended descriptors are cleared.
func Complete(article *readlater.Article, desc *Descriptors, opts readlater.ExtractOptions) {
	words := WordCount(article.Content)
	md := &article.Metadata
	md.ReadingTime = ReadingTime(words)

	if opts.HasSelection() {
		article.Content = opts.Selection.Text
		article.Summary = Truncate(opts.Selection.Text, SummaryLength)
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}

	if opts.Fidelity == readlater.FidelityBasic {
		md.Author, md.PublishedTime, md.SiteName, md.Type, md.Image = nil, nil, nil, nil, nil
		md.WordCount = nil
		return
	}

	if desc != nil {
		md.Author = orLookup(md.Author, desc, KeyAuthor)
		if md.PublishedTime == nil {
			md.PublishedTime = desc.PublishedTime()
		}
		md.SiteName = orLookup(md.SiteName, desc, KeySiteName)
		md.Type = orLookup(md.Type, desc, KeyType)
		md.Image = orLookup(md.Image, desc, KeyImage)
	}
	md.WordCount = &words
}

func orLookup(v *string, desc *Descriptors, key string) *string {
	if v != nil {
		return v
	}
	return desc.Lookup(key)
}

// Truncate keeps the first limit characters of s and appends Ellipsis.
// Text no longer than limit is returned unchanged.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + Ellipsis
}

// summarize applies the summary fallback chain: the description descriptor,
// then the first non-blank paragraph of the pruned copy, then the content.
func summarize(desc *Descriptors, pruned *html.Node, content string) string {
	if description, ok := desc.Description(); ok {
		return description
	}
	if p := firstParagraph(pruned); p != "" {
		return Truncate(p, SummaryLength)
	}
	return Truncate(content, SummaryLength)
}

func firstParagraph(root *html.Node) string {
	var text string
	find(root, Tag("p")).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = Normalize(s.Get(0))
		return text == ""
	})
	return text
}

// Inspection describes how the engine treated a document.
type Inspection struct {
	// Match labels the located subtree: a pattern label, "body" or "root".
	Match string

	// Removed is the number of noise subtrees pruned.
	Removed int

	// Pruned is the engine's pruned copy of the located subtree.
	Pruned *html.Node

	// Content is the normalized text of Pruned.
	Content string
}

// Inspect runs the locator, pruner and normalizer and reports their
// intermediate results.
func (e *Engine) Inspect(doc readlater.Node) (*Inspection, error) {
	if doc == nil {
		return nil, readlater.Errorf(readlater.EUNAVAILABLE, "no document to inspect")
	}
	pruned, match, removed := e.run(clone(doc, nil))
	return &Inspection{
		Match:   match,
		Removed: removed,
		Pruned:  pruned,
		Content: Normalize(pruned),
	}, nil
}

// run locates the article body in an engine-owned tree, detaches it and
// prunes it in place. It returns the pruned subtree, the label of what
// located it and the number of noise subtrees removed.
func (e *Engine) run(work *html.Node) (*html.Node, string, int) {
	located, match, _ := e.locate(work)
	located = detach(located)
	return located, match, e.prune(located)
}
