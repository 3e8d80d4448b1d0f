package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

// Normalize serializes the visible text of n in document order, the way a
// browser renders it to plain text: whitespace runs collapse to one space,
// block elements start new lines, paragraphs are separated by a blank line,
// and pre blocks keep their text verbatim. The result is trimmed.
func Normalize(n *html.Node) string {
	if n == nil {
		return ""
	}
	w := &textWriter{}
	w.node(n, false)
	return strings.TrimSpace(w.b.String())
}

// WordCount counts the whitespace-separated tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ReadingTime formats the reading time for a word count as "<n> min read",
// rounding up at WordsPerMinute. The minimum is one minute, so empty content
// reads as "1 min read".
func ReadingTime(words int) string {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// hiddenTags never render text.
var hiddenTags = map[string]bool{
	"head":     true,
	"title":    true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// blockTags start and end a line when rendered.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"caption": true, "dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hgroup": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "pre": true, "section": true,
	"summary": true, "table": true, "tr": true, "ul": true, "body": true,
}

type textWriter struct {
	b         strings.Builder
	breaks    int
	space     bool
	lineStart bool
}

func (w *textWriter) node(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			w.raw(n.Data)
		} else {
			w.text(n.Data)
		}
		return
	case html.DocumentNode:
		w.children(n, pre)
		return
	case html.ElementNode:
	default:
		return
	}

	if hiddenTags[n.Data] || hasAttr(n, "hidden") {
		return
	}

	switch n.Data {
	case "br":
		w.newline()
		return
	case "td", "th":
		if prevCell(n) {
			w.tab()
		}
	}

	breaks := 0
	if n.Data == "p" {
		breaks = 2
	} else if blockTags[n.Data] {
		breaks = 1
	}

	w.lineBreak(breaks)
	w.children(n, pre || n.Data == "pre")
	w.lineBreak(breaks)
}

func (w *textWriter) children(n *html.Node, pre bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c, pre)
	}
}

// text writes collapsible text.
func (w *textWriter) text(s string) {
	if s == "" {
		return
	}
	if isSpace(s[0]) {
		w.space = true
	}
	words := strings.Fields(s)
	for i, word := range words {
		if i > 0 {
			w.space = true
		}
		w.flush()
		w.b.WriteString(word)
		w.lineStart = false
	}
	if len(words) > 0 && isSpace(s[len(s)-1]) {
		w.space = true
	}
}

// raw writes preformatted text untouched.
func (w *textWriter) raw(s string) {
	if s == "" {
		return
	}
	w.flush()
	w.b.WriteString(s)
	w.lineStart = strings.HasSuffix(s, "\n")
}

// lineBreak requests at least n line breaks before the next text.
func (w *textWriter) lineBreak(n int) {
	if n == 0 {
		return
	}
	if n > w.breaks {
		w.breaks = n
	}
	w.space = false
}

func (w *textWriter) newline() {
	w.space = false
	if w.b.Len() == 0 {
		return
	}
	w.writeBreaks()
	w.b.WriteByte('\n')
	w.lineStart = true
}

func (w *textWriter) tab() {
	w.space = false
	w.flush()
	w.b.WriteByte('\t')
	w.lineStart = false
}

// flush emits pending separators before new output.
func (w *textWriter) flush() {
	if w.b.Len() == 0 {
		w.breaks = 0
		w.space = false
		return
	}
	if w.breaks > 0 {
		w.writeBreaks()
	} else if w.space && !w.lineStart {
		w.b.WriteByte(' ')
	}
	w.space = false
}

func (w *textWriter) writeBreaks() {
	if w.breaks == 0 {
		return
	}
	w.b.WriteString(strings.Repeat("\n", w.breaks))
	w.breaks = 0
	w.lineStart = true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func prevCell(n *html.Node) bool {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && (s.Data == "td" || s.Data == "th") {
			return true
		}
	}
	return false
}
