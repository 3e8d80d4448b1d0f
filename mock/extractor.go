package mock

import "github.com/fwojciec/readlater"

var _ readlater.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of readlater.Extractor.
type Extractor struct {
	ExtractFn func(page *readlater.Page, opts readlater.ExtractOptions) (*readlater.Article, error)
}

func (e *Extractor) Extract(page *readlater.Page, opts readlater.ExtractOptions) (*readlater.Article, error) {
	return e.ExtractFn(page, opts)
}
