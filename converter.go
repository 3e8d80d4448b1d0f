package readlater

import "golang.org/x/net/html"

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(markup string) (string, error)

	// ConvertNode transforms an already parsed subtree into Markdown.
	ConvertNode(n *html.Node) (string, error)
}
