package gocache_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/readlater/gocache"
	"github.com/fwojciec/readlater/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingFetcher(calls *atomic.Int32) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			calls.Add(1)
			return "<html>" + url + "</html>", nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches a page once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f := gocache.NewFetcher(countingFetcher(&calls), 0)

		first, err := f.Fetch(context.Background(), "https://example.com/post")
		require.NoError(t, err)
		second, err := f.Fetch(context.Background(), "https://example.com/post")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, f.Len())
	})

	t.Run("treats canonical variants as the same page", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f := gocache.NewFetcher(countingFetcher(&calls), 0)

		_, err := f.Fetch(context.Background(), "https://Example.com/post/")
		require.NoError(t, err)
		_, err = f.Fetch(context.Background(), "https://example.com/post#comments")
		require.NoError(t, err)

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("keeps distinct pages apart", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f := gocache.NewFetcher(countingFetcher(&calls), 0)

		a, err := f.Fetch(context.Background(), "https://example.com/a")
		require.NoError(t, err)
		b, err := f.Fetch(context.Background(), "https://example.com/b")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("does not cache failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				if calls.Add(1) == 1 {
					return "", errors.New("timeout")
				}
				return "<html>ok</html>", nil
			},
		}
		f := gocache.NewFetcher(inner, 0)

		_, err := f.Fetch(context.Background(), "https://example.com/a")
		require.Error(t, err)
		html, err := f.Fetch(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var closed bool
	inner := countingFetcher(&calls)
	inner.CloseFn = func() error {
		closed = true
		return nil
	}
	f := gocache.NewFetcher(inner, 0)
	_, err := f.Fetch(context.Background(), "https://example.com/a")
	require.NoError(t, err)

	require.NoError(t, f.Close())

	assert.True(t, closed)
	assert.Zero(t, f.Len())
}
