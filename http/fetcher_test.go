package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/readlater"
	readlaterhttp "github.com/fwojciec/readlater/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageServer serves body with the given content type and status.
func pageServer(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns page HTML", func(t *testing.T) {
		t.Parallel()

		srv := pageServer(t, http.StatusOK, "text/html; charset=utf-8", "<article><p>Herons</p></article>")
		f := readlaterhttp.NewFetcher()
		defer f.Close()

		html, err := f.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<article><p>Herons</p></article>", html)
	})

	t.Run("sends user agent and accept headers", func(t *testing.T) {
		t.Parallel()

		var ua, accept string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua, accept = r.UserAgent(), r.Header.Get("Accept")
		}))
		defer srv.Close()

		_, err := readlaterhttp.NewFetcher(readlaterhttp.WithUserAgent("notebook/2")).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "notebook/2", ua)
		assert.Contains(t, accept, "text/html")
	})

	t.Run("gives up after timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		_, err := readlaterhttp.NewFetcher(readlaterhttp.WithTimeout(10*time.Millisecond)).Fetch(context.Background(), srv.URL)

		assert.Error(t, err)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		srv := pageServer(t, http.StatusOK, "text/html", "<p>late</p>")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := readlaterhttp.NewFetcher().Fetch(ctx, srv.URL)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("accepts a page at the size limit", func(t *testing.T) {
		t.Parallel()

		srv := pageServer(t, http.StatusOK, "text/html", "<p>12345678</p>")

		html, err := readlaterhttp.NewFetcher(readlaterhttp.WithMaxPageSize(15)).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>12345678</p>", html)
	})

	t.Run("rejects a page over the size limit", func(t *testing.T) {
		t.Parallel()

		srv := pageServer(t, http.StatusOK, "text/html", "<p>123456789</p>")

		_, err := readlaterhttp.NewFetcher(readlaterhttp.WithMaxPageSize(15)).Fetch(context.Background(), srv.URL)

		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})

	t.Run("rejects malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := readlaterhttp.NewFetcher().Fetch(context.Background(), "http://[::1")

		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})
}

func TestFetcher_Fetch_ErrorCodes(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name        string
		status      int
		contentType string
		code        string
	}{
		{"missing page", http.StatusNotFound, "text/html", readlater.ENOTFOUND},
		{"server failure", http.StatusBadGateway, "text/html", readlater.EINTERNAL},
		{"forbidden", http.StatusForbidden, "text/html", readlater.EINTERNAL},
		{"pdf document", http.StatusOK, "application/pdf", readlater.EINVALID},
		{"image", http.StatusOK, "image/png", readlater.EINVALID},
		{"undeclared type", http.StatusOK, "", ""},
		{"xhtml", http.StatusOK, "application/xhtml+xml", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := pageServer(t, tc.status, tc.contentType, "<p>x</p>")

			_, err := readlaterhttp.NewFetcher().Fetch(context.Background(), srv.URL)

			assert.Equal(t, tc.code, readlater.ErrorCode(err))
		})
	}
}
