// Package bloom remembers which article URLs a capture run has already
// queued, using a Bloom filter so memory stays flat for large sitemaps.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a concurrency-safe set of canonical article URLs.
// False positives are possible at the configured rate; false negatives
// are not.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL.
func (f *Filter) Add(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(Canonical(rawURL))
}

// Test returns true if the URL might have been recorded.
func (f *Filter) Test(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(Canonical(rawURL))
}

// Seen records the URL and reports whether it was already present.
func (f *Filter) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAddString(Canonical(rawURL))
}

// Canonical strips the parts of a URL that never change which article it
// names: the fragment, a trailing slash on the path, and letter case in
// the scheme and host. Unparseable input is returned unchanged.
func Canonical(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	return u.String()
}
