package mock

import (
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
)

var _ readlater.Converter = (*Converter)(nil)

// Converter is a mock implementation of readlater.Converter.
type Converter struct {
	ConvertFn     func(markup string) (string, error)
	ConvertNodeFn func(n *html.Node) (string, error)
}

func (c *Converter) Convert(markup string) (string, error) {
	return c.ConvertFn(markup)
}

func (c *Converter) ConvertNode(n *html.Node) (string, error) {
	return c.ConvertNodeFn(n)
}
