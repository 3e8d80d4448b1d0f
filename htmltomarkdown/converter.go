// Package htmltomarkdown renders markup as Markdown, used to show what the
// extraction engine kept of a page.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
)

// Ensure Converter implements readlater.Converter at compile time.
var _ readlater.Converter = (*Converter)(nil)

// Converter renders markup as Markdown with the base, commonmark and table
// plugins of html-to-markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert parses markup and renders it as Markdown.
func (c *Converter) Convert(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", readlater.Errorf(readlater.EINVALID, "empty HTML input")
	}
	md, err := c.conv.ConvertString(markup)
	if err != nil {
		return "", readlater.Errorf(readlater.EINTERNAL, "converting to markdown: %v", err)
	}
	return md, nil
}

// ConvertNode renders a parsed subtree, such as the extraction engine's
// pruned copy, without serializing it back to markup first.
func (c *Converter) ConvertNode(n *html.Node) (string, error) {
	if n == nil {
		return "", readlater.Errorf(readlater.EINVALID, "no node to convert")
	}
	md, err := c.conv.ConvertNode(n)
	if err != nil {
		return "", readlater.Errorf(readlater.EINTERNAL, "converting to markdown: %v", err)
	}
	return strings.TrimSpace(string(md)), nil
}
