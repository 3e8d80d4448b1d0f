// Package goquery parses HTML with goquery and adapts the result to the
// readlater.Node tree the extraction engine reads.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/extract"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse parses raw HTML into a Document.
// Returns EUNAVAILABLE for blank input.
func Parse(html string) (*Document, error) {
	if strings.TrimSpace(html) == "" {
		return nil, readlater.Errorf(readlater.EUNAVAILABLE, "empty HTML input")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc}, nil
}

// Root returns the document root as a readlater.Node.
func (d *Document) Root() readlater.Node {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	return extract.Wrap(d.doc.Nodes[0])
}

// SelectText returns the text of the first element matching the CSS
// selector, the way a user highlighting that element would copy it.
// The bool is false when nothing matches or the match has no text.
func (d *Document) SelectText(selector string) (string, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(sel.Text())
	return text, text != ""
}

// SelectText parses html and captures the text of the first element
// matching selector as a user selection.
// Returns nil when nothing matches.
func SelectText(html, selector string) (*readlater.Selection, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	text, ok := doc.SelectText(selector)
	if !ok {
		return nil, nil
	}
	return &readlater.Selection{Text: text}, nil
}
