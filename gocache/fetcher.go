// Package gocache keeps fetched pages in memory so that a page fetched
// more than once in a run, for example while checking whether a site needs
// rendering, is only downloaded once.
package gocache

import (
	"context"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/bloom"
	"github.com/patrickmn/go-cache"
)

// DefaultExpiration is how long a fetched page stays cached.
const DefaultExpiration = 10 * time.Minute

// Ensure Fetcher implements readlater.Fetcher at compile time.
var _ readlater.Fetcher = (*Fetcher)(nil)

// Fetcher serves repeated fetches of the same page from memory.
// URLs are keyed by their canonical form, so fragments and trailing
// slashes do not cause a second download. Failed fetches are not cached.
// Fetcher is safe for concurrent use.
type Fetcher struct {
	next  readlater.Fetcher
	pages *cache.Cache
}

// NewFetcher wraps next with a cache whose entries expire after ttl.
// A non-positive ttl uses DefaultExpiration.
func NewFetcher(next readlater.Fetcher, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &Fetcher{
		next:  next,
		pages: cache.New(ttl, 2*ttl),
	}
}

// Fetch returns the cached HTML for url, fetching it on a miss.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	key := bloom.Canonical(url)
	if v, ok := f.pages.Get(key); ok {
		return v.(string), nil
	}

	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	f.pages.SetDefault(key, html)
	return html, nil
}

// Len returns the number of cached pages, including expired pages not yet
// cleaned up.
func (f *Fetcher) Len() int {
	return f.pages.ItemCount()
}

// Close drops the cached pages and closes the wrapped fetcher.
func (f *Fetcher) Close() error {
	f.pages.Flush()
	return f.next.Close()
}
