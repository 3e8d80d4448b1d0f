// Package gofeed discovers article URLs from RSS, Atom and JSON feeds.
package gofeed

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/readlater"
	"github.com/mmcdole/gofeed"
)

// Ensure Source implements readlater.URLSource at compile time.
var _ readlater.URLSource = (*Source)(nil)

// Source lists the item links of a feed.
type Source struct {
	client *http.Client
	filter *readlater.URLFilter
}

// NewSource creates a Source. A nil client uses gofeed's default and a nil
// filter keeps every link.
func NewSource(client *http.Client, filter *readlater.URLFilter) *Source {
	return &Source{client: client, filter: filter}
}

// Discover fetches the feed at source and returns its item links in feed
// order, skipping items without a link and repeated links.
func (s *Source) Discover(ctx context.Context, source string) ([]string, error) {
	parser := gofeed.NewParser()
	if s.client != nil {
		parser.Client = s.client
	}

	feed, err := parser.ParseURLWithContext(source, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		switch {
		case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
			return nil, readlater.Errorf(readlater.ENOTFOUND, "feed not found: %s", source)
		case errors.Is(err, gofeed.ErrFeedTypeNotDetected):
			return nil, readlater.Errorf(readlater.EINVALID, "not a feed: %s", source)
		}
		return nil, err
	}

	seen := make(map[string]bool, len(feed.Items))
	urls := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		urls = append(urls, link)
	}
	return s.filter.Apply(urls), nil
}
