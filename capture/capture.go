// Package capture saves many articles in one run. It expands nothing
// itself: callers pass the URLs, typically from a sitemap or feed, and
// capture fetches, extracts and optionally publishes each one.
package capture

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once when
// Capturer.Concurrency is unset.
const DefaultConcurrency = 4

// URL de-duplication filter sizing.
const (
	minExpectedURLs   = 1000
	falsePositiveRate = 0.001
)

// Capturer runs the fetch, extract and publish pipeline over a batch of
// URLs.
type Capturer struct {
	Fetcher   readlater.Fetcher
	Extractor readlater.Extractor

	// Articles, when set, receives every captured article that is not a
	// duplicate.
	Articles readlater.ArticleService

	// RateLimiter, when set, is waited on per host before each fetch.
	RateLimiter readlater.DomainLimiter

	Concurrency int
	Options     readlater.ExtractOptions
}

// Item is the outcome for one input URL.
type Item struct {
	URL     string
	Article *readlater.Article
	Saved   *readlater.SavedArticle

	// Hash identifies the extracted content. It is empty when nothing was
	// extracted, and such items are never treated as duplicates.
	Hash string

	// Duplicate is set when the URL, or the content extracted from it,
	// was already captured earlier in the batch.
	Duplicate bool

	Err error
}

// Result summarizes a batch. Items are in input order.
type Result struct {
	Items      []Item
	Captured   int
	Saved      int
	Failed     int
	Duplicates int
}

// Articles returns the captured, non-duplicate articles in input order.
func (r *Result) Articles() []*readlater.Article {
	var articles []*readlater.Article
	for _, it := range r.Items {
		if it.Err == nil && !it.Duplicate && it.Article != nil {
			articles = append(articles, it.Article)
		}
	}
	return articles
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting capture progress.
type ProgressFunc func(event ProgressEvent)

// CaptureAll captures every URL in urls.
//
// A failure on one URL is recorded on its Item and counted, never returned.
// The returned error is non-nil only when ctx ends before the batch does.
// Progress events for individual URLs arrive in completion order from a
// single goroutine.
func (c *Capturer) CaptureAll(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	items := make([]Item, len(urls))
	seen := bloom.NewFilter(uint(max(len(urls), minExpectedURLs)), falsePositiveRate)
	var work []int
	for i, u := range urls {
		items[i].URL = u
		if seen.Seen(u) {
			items[i].Duplicate = true
			continue
		}
		work = append(work, i)
	}

	total := len(work)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	done := make(chan int, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, i := range work {
			g.Go(func() error {
				items[i] = c.process(gctx, items[i].URL)
				done <- i
				return nil
			})
		}
		_ = g.Wait()
		close(done)
	}()

	var completed atomic.Int64
	for i := range done {
		n := int(completed.Add(1))
		ev := ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: items[i].URL}
		if err := items[i].Err; err != nil {
			ev.Type, ev.Error = ProgressFailed, err
		}
		progress(ev)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Items: items}
	hashes := make(map[string]bool, total)
	for i := range items {
		it := &items[i]
		switch {
		case it.Duplicate:
			result.Duplicates++
			continue
		case it.Err != nil:
			result.Failed++
			continue
		case it.Hash != "" && hashes[it.Hash]:
			it.Duplicate = true
			result.Duplicates++
			continue
		}
		hashes[it.Hash] = true
		result.Captured++

		if c.Articles == nil {
			continue
		}
		saved, err := c.Articles.CreateArticle(ctx, it.Article)
		if err != nil {
			it.Err = fmt.Errorf("publish %s: %w", it.URL, err)
			result.Failed++
			continue
		}
		it.Saved = saved
		result.Saved++
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// Capture fetches, extracts and, when Articles is set, publishes a single
// URL.
func (c *Capturer) Capture(ctx context.Context, rawURL string) (*Item, error) {
	it := c.process(ctx, rawURL)
	if it.Err != nil {
		return nil, it.Err
	}
	if c.Articles != nil {
		saved, err := c.Articles.CreateArticle(ctx, it.Article)
		if err != nil {
			return nil, err
		}
		it.Saved = saved
	}
	return &it, nil
}

// process fetches and extracts one URL.
func (c *Capturer) process(ctx context.Context, rawURL string) Item {
	it := Item{URL: rawURL}

	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			it.Err = readlater.Errorf(readlater.EINVALID, "invalid URL %q", rawURL)
			return it
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			it.Err = err
			return it
		}
	}

	html, err := c.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		it.Err = fmt.Errorf("fetch %s: %w", rawURL, err)
		return it
	}

	article, err := c.Extractor.Extract(&readlater.Page{URL: rawURL, HTML: html}, c.Options)
	if err != nil {
		it.Err = fmt.Errorf("extract %s: %w", rawURL, err)
		return it
	}

	it.Article = article
	if article.Content != "" {
		it.Hash = ContentHash(article.Content)
	}
	return it
}

// ContentHash returns a short hex digest of extracted content.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
