package goquery

import (
	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/extract"
)

// Ensure Extractor implements readlater.Extractor at compile time.
var _ readlater.Extractor = (*Extractor)(nil)

// Extractor parses raw HTML with goquery and runs the extraction engine
// over the resulting tree.
type Extractor struct {
	engine *extract.Engine
}

// NewExtractor creates a new Extractor. A nil engine uses the defaults.
func NewExtractor(engine *extract.Engine) *Extractor {
	if engine == nil {
		engine = extract.NewEngine()
	}
	return &Extractor{engine: engine}
}

// Extract parses the page and extracts its article.
func (e *Extractor) Extract(page *readlater.Page, opts readlater.ExtractOptions) (*readlater.Article, error) {
	if page == nil {
		return nil, readlater.Errorf(readlater.EUNAVAILABLE, "no page to extract from")
	}
	doc, err := Parse(page.HTML)
	if err != nil {
		return nil, err
	}
	return e.engine.Extract(doc.Root(), page.URL, opts)
}

// Inspect parses the page and reports how the engine treats it.
func (e *Extractor) Inspect(page *readlater.Page) (*extract.Inspection, error) {
	if page == nil {
		return nil, readlater.Errorf(readlater.EUNAVAILABLE, "no page to inspect")
	}
	doc, err := Parse(page.HTML)
	if err != nil {
		return nil, err
	}
	return e.engine.Inspect(doc.Root())
}
