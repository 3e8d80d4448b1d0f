package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/readlater"
	"github.com/temoto/robotstxt"
)

// RobotsAgent is the user agent matched against robots.txt groups.
const RobotsAgent = "readlater"

// Ensure SitemapSource implements readlater.URLSource at compile time.
var _ readlater.URLSource = (*SitemapSource)(nil)

// SitemapSource lists the article URLs a site publishes in its sitemaps.
type SitemapSource struct {
	client *http.Client
	filter *readlater.URLFilter
}

// NewSitemapSource creates a SitemapSource. A nil client uses
// http.DefaultClient and a nil filter keeps every URL.
func NewSitemapSource(client *http.Client, filter *readlater.URLFilter) *SitemapSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapSource{client: client, filter: filter}
}

// Discover returns the page URLs listed for source, deduplicated and in
// sitemap order.
//
// A source ending in ".xml" is read as a sitemap directly. Otherwise
// sitemaps are found through robots.txt Sitemap directives, falling back to
// /sitemap.xml, and when source has a path only URLs under that path are
// kept. URLs that robots.txt disallows for RobotsAgent are dropped. A site
// without sitemaps yields an empty slice.
func (s *SitemapSource) Discover(ctx context.Context, source string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(source)
	if err != nil || base.Host == "" {
		return nil, readlater.Errorf(readlater.EINVALID, "invalid sitemap source %q", source)
	}

	var sitemaps []string
	var prefix string
	var robots *robotstxt.RobotsData
	if strings.HasSuffix(base.Path, ".xml") {
		sitemaps = []string{base.String()}
	} else {
		prefix = strings.TrimSuffix(base.Path, "/")
		root := &url.URL{Scheme: base.Scheme, Host: base.Host}
		if sitemaps, robots, err = s.locate(ctx, root); err != nil {
			return nil, err
		}
	}

	w := &sitemapWalk{source: s, visited: map[string]bool{}, seen: map[string]bool{}}
	for _, sm := range sitemaps {
		if err := w.walk(ctx, sm); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(w.urls))
	for _, u := range w.urls {
		if prefix != "" && !underPath(u, prefix) {
			continue
		}
		if !allowed(robots, u) {
			continue
		}
		urls = append(urls, u)
	}
	return s.filter.Apply(urls), nil
}

// underPath reports whether rawURL's path is prefix or lies below it.
// "/blog" matches "/blog" and "/blog/post" but not "/blogroll".
func underPath(rawURL, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// allowed reports whether robots permits RobotsAgent to fetch rawURL.
// Without robots data everything is allowed.
func allowed(robots *robotstxt.RobotsData, rawURL string) bool {
	if robots == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	return robots.TestAgent(u.EscapedPath(), RobotsAgent)
}

// locate finds sitemap URLs from robots.txt, or falls back to /sitemap.xml.
// It also returns the parsed robots.txt, nil when the site has none.
func (s *SitemapSource) locate(ctx context.Context, root *url.URL) ([]string, *robotstxt.RobotsData, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	robots, err := s.robots(ctx, robotsURL)
	if err == nil && len(robots.Sitemaps) > 0 {
		return robots.Sitemaps, robots, nil
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		// Only cancellation is fatal; anything else means no sitemap.
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, robots, nil
	}
	if !ok {
		return nil, robots, nil
	}
	return []string{fallback}, robots, nil
}

func (s *SitemapSource) robots(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	b, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	robots, err := robotstxt.FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("parsing robots.txt: %w", err)
	}
	return robots, nil
}

// sitemapWalk collects URLs across a tree of sitemaps and sitemap indexes.
type sitemapWalk struct {
	source  *SitemapSource
	visited map[string]bool
	seen    map[string]bool
	urls    []string
}

func (w *sitemapWalk) walk(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.source.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty sitemap XML at %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.walk(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, u := range locs(root, "url") {
		if !w.seen[u] {
			w.seen[u] = true
			w.urls = append(w.urls, u)
		}
	}
	return nil
}

// locs returns the non-empty <loc> values of root's entry elements.
func locs(root *etree.Element, entry string) []string {
	var out []string
	for _, el := range root.SelectElements(entry) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *SitemapSource) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

func (s *SitemapSource) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
