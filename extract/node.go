package extract

import (
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure htmlNode implements readlater.Node at compile time.
var _ readlater.Node = htmlNode{}

// htmlNode adapts an x/net/html node to readlater.Node.
type htmlNode struct {
	n *html.Node
}

// Wrap returns a read-only readlater.Node view of n.
// Returns nil if n is nil.
func Wrap(n *html.Node) readlater.Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n}
}

func (h htmlNode) Type() readlater.NodeType {
	switch h.n.Type {
	case html.DocumentNode:
		return readlater.DocumentNode
	case html.ElementNode:
		return readlater.ElementNode
	case html.TextNode:
		return readlater.TextNode
	default:
		return readlater.OtherNode
	}
}

func (h htmlNode) Tag() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) Attrs() []readlater.Attribute {
	if len(h.n.Attr) == 0 {
		return nil
	}
	attrs := make([]readlater.Attribute, len(h.n.Attr))
	for i, a := range h.n.Attr {
		attrs[i] = readlater.Attribute{Key: a.Key, Val: a.Val}
	}
	return attrs
}

func (h htmlNode) Children() []readlater.Node {
	var children []readlater.Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, htmlNode{n: c})
	}
	return children
}

func (h htmlNode) Data() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

// clone deep-copies any readlater.Node into a fresh x/net/html tree that
// the engine owns and may mutate. When origin is non-nil it records the
// source node of every copied element.
func clone(n readlater.Node, origin map[*html.Node]readlater.Node) *html.Node {
	c := &html.Node{}
	switch n.Type() {
	case readlater.DocumentNode:
		c.Type = html.DocumentNode
	case readlater.ElementNode:
		c.Type = html.ElementNode
		c.Data = n.Tag()
		c.DataAtom = atom.Lookup([]byte(c.Data))
		for _, a := range n.Attrs() {
			c.Attr = append(c.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	case readlater.TextNode:
		c.Type = html.TextNode
		c.Data = n.Data()
		return c
	default:
		c.Type = html.CommentNode
		return c
	}
	if origin != nil {
		origin[c] = n
	}
	for _, child := range n.Children() {
		c.AppendChild(clone(child, origin))
	}
	return c
}

// detach unlinks n from its parent and siblings.
func detach(n *html.Node) *html.Node {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	return n
}
