// Package http provides net/http implementations of the readlater host
// services: a static page Fetcher, a sitemap URLSource and the Client that
// publishes articles to the read-it-later backend.
package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/readlater"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies page requests.
const DefaultUserAgent = "readlater/1.0 (+https://github.com/fwojciec/readlater)"

// DefaultMaxPageSize is the default limit on the bytes read from a page.
const DefaultMaxPageSize = 10 << 20

// Ensure Fetcher implements readlater.Fetcher at compile time.
var _ readlater.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page HTML with plain HTTP requests. It does not run
// JavaScript; use rod.Fetcher for pages rendered client-side.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxPageSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxPageSize sets the largest page body accepted, in bytes.
func WithMaxPageSize(n int64) Option {
	return func(f *Fetcher) {
		f.maxPageSize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML of the page at url. A 404 is reported as
// ENOTFOUND, any other non-200 status as EINTERNAL. A response that declares
// a non-HTML content type or exceeds the page size limit is EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", readlater.Errorf(readlater.EINVALID, "invalid page URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", readlater.Errorf(readlater.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return "", readlater.Errorf(readlater.EINTERNAL, "HTTP %d for %s", resp.StatusCode, url)
	case !isHTML(resp.Header.Get("Content-Type")):
		return "", readlater.Errorf(readlater.EINVALID, "%s is not an HTML page (%s)", url, resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxPageSize+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > f.maxPageSize {
		return "", readlater.Errorf(readlater.EINVALID, "%s is larger than %d bytes", url, f.maxPageSize)
	}
	return string(body), nil
}

// isHTML reports whether a Content-Type header may carry a web page. Servers
// that omit the header or send plain text are given the benefit of the doubt.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	}
	return false
}

// Close is a no-op; the underlying http.Client holds no resources that
// need releasing.
func (f *Fetcher) Close() error {
	return nil
}
