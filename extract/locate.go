package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
)

// Location is the result of locating the article body.
type Location struct {
	// Node is the located subtree.
	Node readlater.Node

	// Match labels what selected Node: a pattern label, "body" or "root".
	Match string

	// Matched is false when no content pattern matched and Node is a fallback.
	Matched bool
}

// Locate returns the subtree of root most likely to hold the article body.
//
// Patterns are a strict priority list: the first pattern that matches any
// element wins, and under that pattern the first matching element in
// document order wins. When nothing matches, the body element is returned,
// or root itself if there is no body.
func (e *Engine) Locate(root readlater.Node) Location {
	origin := make(map[*html.Node]readlater.Node)
	n, match, matched := e.locate(clone(root, origin))
	return Location{Node: origin[n], Match: match, Matched: matched}
}

// locate is Locate over an engine-owned tree.
func (e *Engine) locate(root *html.Node) (*html.Node, string, bool) {
	for _, p := range e.contentPatterns {
		if n := first(root, p); n != nil {
			return n, p.String(), true
		}
	}
	if body := first(root, Tag("body")); body != nil {
		return body, "body", false
	}
	return root, "root", false
}

// find selects root and its descendants matching m, in document order.
func find(root *html.Node, m goquery.Matcher) *goquery.Selection {
	sel := goquery.NewDocumentFromNode(root).Selection
	return sel.FilterMatcher(m).AddSelection(sel.FindMatcher(m))
}

// first returns the first node selected by find, or nil.
func first(root *html.Node, m goquery.Matcher) *html.Node {
	sel := find(root, m)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Nodes[0]
}
