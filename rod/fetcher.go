// Package rod fetches pages with a headless Chrome browser, for articles
// that only appear after client-side rendering.
package rod

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements readlater.Fetcher at compile time.
var _ readlater.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. The
// browser is recycled by a BrowserManager as pages accumulate.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
	closed   atomic.Bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets how many pages are rendered before the browser
// is restarted. Defaults to DefaultMaxPages.
func WithRecycleAfter(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser and returns a Fetcher
// using it. Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to url and returns the HTML after the page has loaded
// and its scripts have run.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var html string
	err := f.withPage(ctx, url, func(page *rod.Page) error {
		var err error
		html, err = page.HTML()
		return err
	})
	return html, err
}

// FetchSelection renders url and returns the text of the first element
// matching the CSS selector, the way a reader highlighting that element
// on the live page would copy it. It returns nil when nothing matches.
func (f *Fetcher) FetchSelection(ctx context.Context, url, selector string) (*readlater.Selection, error) {
	var sel *readlater.Selection
	err := f.withPage(ctx, url, func(page *rod.Page) error {
		has, el, err := page.Has(selector)
		if err != nil || !has {
			return err
		}
		text, err := el.Text()
		if err != nil {
			return err
		}
		if text = strings.TrimSpace(text); text != "" {
			sel = &readlater.Selection{Text: text}
		}
		return nil
	})
	return sel, err
}

// withPage opens url in a fresh tab bounded by the fetch timeout, runs fn
// on it and closes the tab.
func (f *Fetcher) withPage(ctx context.Context, url string, fn func(*rod.Page) error) error {
	if f.closed.Load() {
		return readlater.Errorf(readlater.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return contextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return contextErr(ctx, err)
	}
	return contextErr(ctx, fn(page))
}

// contextErr prefers the context's error so callers can match
// context.DeadlineExceeded and context.Canceled.
func contextErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
