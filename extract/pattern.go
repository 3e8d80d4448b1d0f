package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
)

// Ensure patterns can drive goquery selections at compile time.
var (
	_ goquery.Matcher = Pattern{}
	_ goquery.Matcher = Patterns{}
)

// PatternKind identifies what a Pattern compares against.
type PatternKind int

// Pattern kinds.
const (
	KindTag PatternKind = iota
	KindClass
	KindID
	KindAttr
)

// Pattern is a structural or semantic signature of an element. Patterns
// are plain values matched against any readlater.Node, so no query syntax
// is involved. A Pattern is also a goquery.Matcher over x/net/html trees.
type Pattern struct {
	Kind  PatternKind
	Name  string
	Value string
}

// Tag matches elements by name.
func Tag(name string) Pattern {
	return Pattern{Kind: KindTag, Name: strings.ToLower(name)}
}

// Class matches elements whose class list contains token.
func Class(token string) Pattern {
	return Pattern{Kind: KindClass, Name: token}
}

// ID matches the element with the given id.
func ID(id string) Pattern {
	return Pattern{Kind: KindID, Name: id}
}

// Attr matches elements whose attribute key equals value exactly.
func Attr(key, value string) Pattern {
	return Pattern{Kind: KindAttr, Name: key, Value: value}
}

// MatchNode reports whether n is an element satisfying the pattern.
func (p Pattern) MatchNode(n readlater.Node) bool {
	if n.Type() != readlater.ElementNode {
		return false
	}
	switch p.Kind {
	case KindTag:
		return n.Tag() == p.Name
	case KindClass:
		v, ok := readlater.AttrValue(n, "class")
		return ok && hasToken(v, p.Name)
	case KindID:
		v, ok := readlater.AttrValue(n, "id")
		return ok && v == p.Name
	case KindAttr:
		v, ok := readlater.AttrValue(n, p.Name)
		return ok && v == p.Value
	}
	return false
}

// String returns a CSS-like label for logs and inspection output.
func (p Pattern) String() string {
	switch p.Kind {
	case KindClass:
		return "." + p.Name
	case KindID:
		return "#" + p.Name
	case KindAttr:
		return "[" + p.Name + "=" + strconv.Quote(p.Value) + "]"
	default:
		return p.Name
	}
}

// Match reports whether n is an element satisfying the pattern.
func (p Pattern) Match(n *html.Node) bool {
	return n != nil && p.MatchNode(Wrap(n))
}

// MatchAll returns n and its descendants that match, in document order.
func (p Pattern) MatchAll(n *html.Node) []*html.Node {
	return matchAll(n, p.Match)
}

// Filter returns the nodes that match.
func (p Pattern) Filter(nodes []*html.Node) []*html.Node {
	return filter(nodes, p.Match)
}

// Patterns matches an element satisfying any of its patterns.
type Patterns []Pattern

// Match reports whether n satisfies any pattern.
func (ps Patterns) Match(n *html.Node) bool {
	for _, p := range ps {
		if p.Match(n) {
			return true
		}
	}
	return false
}

// MatchAll returns n and its descendants that satisfy any pattern, in
// document order.
func (ps Patterns) MatchAll(n *html.Node) []*html.Node {
	return matchAll(n, ps.Match)
}

// Filter returns the nodes that satisfy any pattern.
func (ps Patterns) Filter(nodes []*html.Node) []*html.Node {
	return filter(nodes, ps.Match)
}

func matchAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if match(cur) {
			nodes = append(nodes, cur)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return nodes
}

func filter(nodes []*html.Node, match func(*html.Node) bool) []*html.Node {
	var kept []*html.Node
	for _, n := range nodes {
		if match(n) {
			kept = append(kept, n)
		}
	}
	return kept
}

func hasToken(list, token string) bool {
	for _, t := range strings.Fields(list) {
		if t == token {
			return true
		}
	}
	return false
}

// DefaultContentPatterns is the locator's priority list, most specific
// semantic container first.
var DefaultContentPatterns = []Pattern{
	Attr("role", "main"),
	Class("post-content"),
	Class("entry-content"),
	Class("article-content"),
	Tag("article"),
	Tag("main"),
	Class("content"),
	ID("content"),
	Class("main-content"),
}

// DefaultNoisePatterns lists the subtrees the pruner removes.
var DefaultNoisePatterns = Patterns{
	Tag("script"),
	Tag("style"),
	Tag("nav"),
	Tag("header"),
	Tag("footer"),
	Class("advertisement"),
	Class("ads"),
	Class("social-share"),
	Class("comments"),
	Class("sidebar"),
	Class("menu"),
	Class("navigation"),
}
