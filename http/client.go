package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/google/uuid"
)

// DefaultClientTimeout bounds a single backend request.
const DefaultClientTimeout = 30 * time.Second

// Ensure Client implements readlater.ArticleService at compile time.
var _ readlater.ArticleService = (*Client)(nil)

// Client publishes articles to the read-it-later backend's REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a Client for the API rooted at baseURL, for example
// "https://readlater.example.com/api/v1", authenticating with token.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: DefaultClientTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateArticle posts article to {base}/articles.
//
// Without a token it fails with EUNAUTHORIZED and sends nothing. Each call
// carries a fresh Idempotency-Key so the backend can drop duplicates.
func (c *Client) CreateArticle(ctx context.Context, article *readlater.Article) (*readlater.SavedArticle, error) {
	if c.token == "" {
		return nil, readlater.Errorf(readlater.EUNAUTHORIZED, "no API token configured")
	}
	if article == nil {
		return nil, readlater.Errorf(readlater.EINVALID, "article required")
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(article)
	if err != nil {
		return nil, fmt.Errorf("encoding article: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/articles", bytes.NewReader(body))
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "invalid API URL %q: %v", c.baseURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var saved readlater.SavedArticle
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if saved.URL == "" {
		saved.URL = article.URL
	}
	if saved.Title == "" {
		saved.Title = article.Title
	}
	return &saved, nil
}

// statusError converts a failed response into an application error,
// including the backend's {"error": "..."} message when present.
func statusError(resp *http.Response) error {
	code := readlater.EINTERNAL
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = readlater.EUNAUTHORIZED
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = readlater.EINVALID
	case http.StatusNotFound:
		code = readlater.ENOTFOUND
	case http.StatusConflict:
		code = readlater.ECONFLICT
	}

	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return readlater.Errorf(code, "HTTP %d: %s", resp.StatusCode, payload.Error)
	}
	return readlater.Errorf(code, "HTTP %d", resp.StatusCode)
}
