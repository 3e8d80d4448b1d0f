package readlater

import (
	"context"
	"net/url"
)

// Article is the record derived from a single extraction.
// A fresh Article is built for every call; the caller owns it afterwards.
type Article struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Content  string   `json:"content"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Metadata Metadata `json:"metadata"`
}

// Metadata holds the descriptor-derived fields of an Article.
// A nil pointer means the descriptor was absent from the page, which is
// distinct from a descriptor that is present but empty.
type Metadata struct {
	Author        *string `json:"author"`
	PublishedTime *string `json:"publishedTime"`
	SiteName      *string `json:"siteName"`
	Type          *string `json:"type"`
	Image         *string `json:"image"`
	ReadingTime   string  `json:"readingTime"`

	// WordCount is only computed at FidelityFull.
	WordCount *int `json:"wordCount,omitempty"`
}

// Validate returns an error if the article cannot be sent to a backend.
func (a *Article) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	return nil
}

// Domain returns the host part of the article URL, or "" if the URL
// cannot be parsed.
func (a *Article) Domain() string {
	u, err := url.Parse(a.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Selection is a span of text the user highlighted on the page.
type Selection struct {
	Text string `json:"text"`
}

// Fidelity controls how much of the record an extraction computes.
type Fidelity int

// Fidelity levels. FidelityFull is the zero value.
const (
	// FidelityFull computes the complete record.
	FidelityFull Fidelity = iota

	// FidelityBasic computes the preview fields only: title, URL, content,
	// summary, tags and reading time. Word count and the extended
	// descriptors (author, published time, site name, type, image) stay absent.
	FidelityBasic
)

// String returns the flag spelling of the fidelity level.
func (f Fidelity) String() string {
	switch f {
	case FidelityBasic:
		return "basic"
	default:
		return "full"
	}
}

// ParseFidelity converts a flag value into a Fidelity.
func ParseFidelity(s string) (Fidelity, error) {
	switch s {
	case "", "full":
		return FidelityFull, nil
	case "basic":
		return FidelityBasic, nil
	}
	return FidelityFull, Errorf(EINVALID, "unknown fidelity %q", s)
}

// ExtractOptions configures a single extraction.
type ExtractOptions struct {
	Fidelity Fidelity

	// Selection, when non-nil with non-empty text, replaces the detected
	// content and summary.
	Selection *Selection
}

// HasSelection reports whether the options carry a usable selection.
func (o ExtractOptions) HasSelection() bool {
	return o.Selection != nil && o.Selection.Text != ""
}

// Page is a fetched page handed to an Extractor.
type Page struct {
	URL  string
	HTML string
}

// Extractor derives an Article from a page's raw HTML.
type Extractor interface {
	// Extract processes the page and returns the article record.
	// Returns EUNAVAILABLE if the page has no usable document.
	Extract(page *Page, opts ExtractOptions) (*Article, error)
}

// SavedArticle is the backend's acknowledgement of a created article.
type SavedArticle struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ArticleService sends extracted articles to the read-it-later backend.
type ArticleService interface {
	// CreateArticle stores the article remotely.
	// Returns EUNAUTHORIZED when no credential is configured or the backend
	// rejects it.
	CreateArticle(ctx context.Context, article *Article) (*SavedArticle, error)
}
