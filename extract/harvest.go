package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
)

// Descriptor keys read from meta elements.
const (
	KeyDescription     = "description"
	KeyKeywords        = "keywords"
	KeyAuthor          = "author"
	KeyPublishedTime   = "article:published_time"
	KeyPublishedTimeV2 = "published_time"
	KeySiteName        = "og:site_name"
	KeyType            = "og:type"
	KeyImage           = "og:image"
)

// Descriptors holds the document-level descriptors of a page: its title and
// the meta elements, in document order. It is independent of where the
// article body was located.
type Descriptors struct {
	Title string
	metas []meta
}

type meta struct {
	name       string
	hasName    bool
	property   string
	hasProp    bool
	content    string
	hasContent bool
}

// Harvest reads the title and every meta element of doc.
// It never fails; a document without descriptors yields empty Descriptors.
func Harvest(doc readlater.Node) *Descriptors {
	if doc == nil {
		return &Descriptors{}
	}
	return harvest(clone(doc, nil))
}

func harvest(root *html.Node) *Descriptors {
	d := &Descriptors{}
	if title := find(root, Tag("title")).First(); title.Length() > 0 {
		d.Title = strings.Join(strings.Fields(title.Text()), " ")
	}
	find(root, Tag("meta")).Each(func(_ int, s *goquery.Selection) {
		var m meta
		m.name, m.hasName = s.Attr("name")
		m.property, m.hasProp = s.Attr("property")
		m.content, m.hasContent = s.Attr("content")
		d.metas = append(d.metas, m)
	})
	return d
}

// Lookup returns the content of the first meta element whose name or
// property equals key. It returns nil when no such element exists or the
// first one has no content attribute.
func (d *Descriptors) Lookup(key string) *string {
	for _, m := range d.metas {
		if (m.hasName && m.name == key) || (m.hasProp && m.property == key) {
			if !m.hasContent {
				return nil
			}
			v := m.content
			return &v
		}
	}
	return nil
}

// named returns the content of the first meta element whose name equals key.
// The bool reports whether such an element exists at all.
func (d *Descriptors) named(key string) (string, bool) {
	for _, m := range d.metas {
		if m.hasName && m.name == key {
			return m.content, true
		}
	}
	return "", false
}

// Description returns the explicit description descriptor.
// The bool is false when the page has none.
func (d *Descriptors) Description() (string, bool) {
	return d.named(KeyDescription)
}

// Tags returns the keyword descriptor split into tags.
// It is never nil.
func (d *Descriptors) Tags() []string {
	keywords, _ := d.named(KeyKeywords)
	return ParseTags(keywords)
}

// PublishedTime looks up the namespaced published time, then the bare key.
// An empty namespaced value also falls through to the bare key.
func (d *Descriptors) PublishedTime() *string {
	if v := d.Lookup(KeyPublishedTime); v != nil && *v != "" {
		return v
	}
	return d.Lookup(KeyPublishedTimeV2)
}

// ParseTags splits a comma-delimited keyword list, trimming each entry
// and dropping empty ones. It never returns nil.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
