package capture_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/capture"
	"github.com/fwojciec/readlater/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageFetcher serves "<p>content of URL</p>" for every URL.
func pageFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<p>content of " + url + "</p>", nil
		},
	}
}

// echoExtractor turns the fetched HTML into content verbatim.
func echoExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(page *readlater.Page, _ readlater.ExtractOptions) (*readlater.Article, error) {
			return &readlater.Article{Title: "T", URL: page.URL, Content: page.HTML}, nil
		},
	}
}

func TestCapturer_CaptureAll(t *testing.T) {
	t.Parallel()

	t.Run("captures every URL in input order", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{
			Fetcher:     pageFetcher(),
			Extractor:   echoExtractor(),
			Concurrency: 3,
		}
		urls := []string{"https://a.dev/1", "https://b.dev/2", "https://a.dev/3", "https://c.dev/4"}

		result, err := c.CaptureAll(context.Background(), urls, nil)

		require.NoError(t, err)
		assert.Equal(t, 4, result.Captured)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 0, result.Saved)
		require.Len(t, result.Items, 4)
		for i, it := range result.Items {
			assert.Equal(t, urls[i], it.URL)
			require.NotNil(t, it.Article)
			assert.Equal(t, urls[i], it.Article.URL)
			assert.NotEmpty(t, it.Hash)
		}
		assert.Len(t, result.Articles(), 4)
	})

	t.Run("skips repeated URLs ignoring fragments", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		c := &capture.Capturer{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetches.Add(1)
					return "<p>" + url + "</p>", nil
				},
			},
			Extractor: echoExtractor(),
		}

		result, err := c.CaptureAll(context.Background(), []string{
			"https://a.dev/post",
			"https://a.dev/post#comments",
			"https://a.dev/other",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, int32(2), fetches.Load())
		assert.Equal(t, 2, result.Captured)
		assert.Equal(t, 1, result.Duplicates)
		assert.True(t, result.Items[1].Duplicate)
		assert.Nil(t, result.Items[1].Article)
	})

	t.Run("marks identical content as duplicate", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<p>syndicated</p>", nil
				},
			},
			Extractor: echoExtractor(),
		}

		result, err := c.CaptureAll(context.Background(), []string{"https://a.dev/x", "https://mirror.dev/x"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Captured)
		assert.Equal(t, 1, result.Duplicates)
		assert.False(t, result.Items[0].Duplicate)
		assert.True(t, result.Items[1].Duplicate)
		assert.Equal(t, result.Items[0].Hash, result.Items[1].Hash)
		assert.Len(t, result.Articles(), 1)
	})

	t.Run("counts failures without aborting the batch", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if strings.HasSuffix(url, "/bad") {
						return "", errors.New("connection refused")
					}
					return "<p>" + url + "</p>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(page *readlater.Page, _ readlater.ExtractOptions) (*readlater.Article, error) {
					if strings.HasSuffix(page.URL, "/empty") {
						return nil, readlater.Errorf(readlater.EUNAVAILABLE, "empty HTML input")
					}
					return &readlater.Article{URL: page.URL, Content: page.HTML}, nil
				},
			},
		}

		result, err := c.CaptureAll(context.Background(), []string{"https://a.dev/bad", "https://a.dev/ok", "https://a.dev/empty"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Captured)
		assert.Equal(t, 2, result.Failed)
		assert.ErrorContains(t, result.Items[0].Err, "connection refused")
		assert.Equal(t, readlater.EUNAVAILABLE, readlater.ErrorCode(result.Items[2].Err))
	})

	t.Run("publishes non-duplicate articles", func(t *testing.T) {
		t.Parallel()

		var (
			mu        sync.Mutex
			published []string
		)
		c := &capture.Capturer{
			Fetcher:   pageFetcher(),
			Extractor: echoExtractor(),
			Articles: &mock.ArticleService{
				CreateArticleFn: func(_ context.Context, a *readlater.Article) (*readlater.SavedArticle, error) {
					mu.Lock()
					defer mu.Unlock()
					if strings.HasSuffix(a.URL, "/conflict") {
						return nil, readlater.Errorf(readlater.ECONFLICT, "exists")
					}
					published = append(published, a.URL)
					return &readlater.SavedArticle{ID: "id-" + a.URL, URL: a.URL}, nil
				},
			},
		}

		result, err := c.CaptureAll(context.Background(), []string{
			"https://a.dev/1", "https://a.dev/1", "https://a.dev/conflict", "https://a.dev/2",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.dev/1", "https://a.dev/2"}, published)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Duplicates)
		assert.Equal(t, readlater.ECONFLICT, readlater.ErrorCode(result.Items[2].Err))
		require.NotNil(t, result.Items[3].Saved)
		assert.Equal(t, "id-https://a.dev/2", result.Items[3].Saved.ID)
	})

	t.Run("waits on the rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var (
			mu    sync.Mutex
			hosts []string
		)
		c := &capture.Capturer{
			Fetcher:   pageFetcher(),
			Extractor: echoExtractor(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					mu.Lock()
					defer mu.Unlock()
					hosts = append(hosts, domain)
					return nil
				},
			},
			Concurrency: 1,
		}

		_, err := c.CaptureAll(context.Background(), []string{"https://a.dev/1", "https://b.dev:8080/2"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"a.dev", "b.dev:8080"}, hosts)
	})

	t.Run("passes extract options through", func(t *testing.T) {
		t.Parallel()

		var got readlater.ExtractOptions
		c := &capture.Capturer{
			Fetcher: pageFetcher(),
			Extractor: &mock.Extractor{
				ExtractFn: func(page *readlater.Page, opts readlater.ExtractOptions) (*readlater.Article, error) {
					got = opts
					return &readlater.Article{URL: page.URL, Content: page.HTML}, nil
				},
			},
			Options: readlater.ExtractOptions{Fidelity: readlater.FidelityBasic},
		}

		_, err := c.CaptureAll(context.Background(), []string{"https://a.dev/1"}, nil)

		require.NoError(t, err)
		assert.Equal(t, readlater.FidelityBasic, got.Fidelity)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if strings.HasSuffix(url, "/bad") {
						return "", errors.New("boom")
					}
					return "<p>" + url + "</p>", nil
				},
			},
			Extractor: echoExtractor(),
		}

		var events []capture.ProgressEvent
		_, err := c.CaptureAll(context.Background(), []string{"https://a.dev/ok", "https://a.dev/bad"}, func(ev capture.ProgressEvent) {
			events = append(events, ev)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, capture.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, capture.ProgressFinished, events[3].Type)

		var completed, failed int
		for _, ev := range events[1:3] {
			switch ev.Type {
			case capture.ProgressCompleted:
				completed++
			case capture.ProgressFailed:
				failed++
				assert.Equal(t, "https://a.dev/bad", ev.URL)
				assert.Error(t, ev.Error)
			}
		}
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1, failed)
		assert.Equal(t, 2, events[2].Completed)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		c := &capture.Capturer{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, _ string) (string, error) {
					cancel()
					<-ctx.Done()
					return "", ctx.Err()
				},
			},
			Extractor: echoExtractor(),
		}

		_, err := c.CaptureAll(ctx, []string{"https://a.dev/1", "https://a.dev/2"}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("handles an empty batch", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{Fetcher: pageFetcher(), Extractor: echoExtractor()}

		result, err := c.CaptureAll(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Zero(t, result.Captured)
	})
}

func TestCapturer_Capture(t *testing.T) {
	t.Parallel()

	t.Run("captures and publishes one URL", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{
			Fetcher:   pageFetcher(),
			Extractor: echoExtractor(),
			Articles: &mock.ArticleService{
				CreateArticleFn: func(_ context.Context, a *readlater.Article) (*readlater.SavedArticle, error) {
					return &readlater.SavedArticle{ID: "42", URL: a.URL}, nil
				},
			},
		}

		it, err := c.Capture(context.Background(), "https://a.dev/1")

		require.NoError(t, err)
		assert.Equal(t, "<p>content of https://a.dev/1</p>", it.Article.Content)
		require.NotNil(t, it.Saved)
		assert.Equal(t, "42", it.Saved.ID)
	})

	t.Run("returns the publish error", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{
			Fetcher:   pageFetcher(),
			Extractor: echoExtractor(),
			Articles: &mock.ArticleService{
				CreateArticleFn: func(_ context.Context, _ *readlater.Article) (*readlater.SavedArticle, error) {
					return nil, readlater.Errorf(readlater.EUNAUTHORIZED, "no API token configured")
				},
			},
		}

		_, err := c.Capture(context.Background(), "https://a.dev/1")

		assert.Equal(t, readlater.EUNAUTHORIZED, readlater.ErrorCode(err))
	})

	t.Run("returns the fetch error", func(t *testing.T) {
		t.Parallel()

		c := &capture.Capturer{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", readlater.Errorf(readlater.ENOTFOUND, "HTTP 404")
				},
			},
			Extractor: echoExtractor(),
		}

		_, err := c.Capture(context.Background(), "https://a.dev/missing")

		assert.Equal(t, readlater.ENOTFOUND, readlater.ErrorCode(err))
	})
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, capture.ContentHash("same"), capture.ContentHash("same"))
	assert.NotEqual(t, capture.ContentHash("a"), capture.ContentHash("b"))
	assert.Len(t, capture.ContentHash("anything"), 16)
}
