package readlater

// NodeType identifies the kind of a markup node.
type NodeType int

// Node types. OtherNode covers comments, doctypes and anything else that
// never contributes visible text.
const (
	OtherNode NodeType = iota
	DocumentNode
	ElementNode
	TextNode
)

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Key string
	Val string
}

// Node is a read-only view of one node of a parsed markup tree.
// Implementations adapt whatever tree a host parser produces; the
// extraction engine never mutates a Node.
type Node interface {
	// Type returns the kind of node.
	Type() NodeType

	// Tag returns the lowercase element name, or "" for non-elements.
	Tag() string

	// Attrs returns the element's attributes in source order.
	Attrs() []Attribute

	// Children returns the node's children in document order.
	Children() []Node

	// Data returns the literal text of a text node, or "" otherwise.
	Data() string
}

// AttrValue returns the value of the named attribute on n.
func AttrValue(n Node, key string) (string, bool) {
	for _, a := range n.Attrs() {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates the data of every text node under n in
// document order, without any whitespace processing.
func TextContent(n Node) string {
	if n.Type() == TextNode {
		return n.Data()
	}
	var b []byte
	var walk func(Node)
	walk = func(cur Node) {
		for _, c := range cur.Children() {
			if c.Type() == TextNode {
				b = append(b, c.Data()...)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return string(b)
}
