// Package prometheus counts fetches, extractions and saves for batch
// capture runs and writes them in the Prometheus text format, for example
// to a node_exporter textfile collector directory.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "readlater"

// Ensure the decorators implement their interfaces at compile time.
var (
	_ readlater.Fetcher        = (*fetcher)(nil)
	_ readlater.Extractor      = (*extractor)(nil)
	_ readlater.ArticleService = (*articleService)(nil)
)

// Metrics holds the collectors for one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchBytes    prometheus.Counter
	fetchDuration prometheus.Histogram
	extractions   *prometheus.CounterVec
	words         prometheus.Counter
	saves         *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Pages fetched, by result.",
		}, []string{"result"}),
		fetchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_bytes_total",
			Help:      "Bytes of HTML fetched.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching a page.",
			Buckets:   prometheus.DefBuckets,
		}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Articles extracted, by result.",
		}, []string{"result"}),
		words: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extracted_words_total",
			Help:      "Words of article content extracted at full fidelity.",
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Articles sent to the backend, by error code.",
		}, []string{"code"}),
	}
	m.registry.MustRegister(m.fetches, m.fetchBytes, m.fetchDuration, m.extractions, m.words, m.saves)
	return m
}

// WriteFile writes the current values to path in the text exposition
// format. The file is replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Fetcher returns next instrumented with fetch counters.
func (m *Metrics) Fetcher(next readlater.Fetcher) readlater.Fetcher {
	return &fetcher{next: next, m: m}
}

// Extractor returns next instrumented with extraction counters.
func (m *Metrics) Extractor(next readlater.Extractor) readlater.Extractor {
	return &extractor{next: next, m: m}
}

// ArticleService returns next instrumented with save counters.
func (m *Metrics) ArticleService(next readlater.ArticleService) readlater.ArticleService {
	return &articleService{next: next, m: m}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type fetcher struct {
	next readlater.Fetcher
	m    *Metrics
}

func (f *fetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	f.m.fetchDuration.Observe(time.Since(begin).Seconds())
	f.m.fetches.WithLabelValues(result(err)).Inc()
	f.m.fetchBytes.Add(float64(len(html)))
	return html, err
}

func (f *fetcher) Close() error {
	return f.next.Close()
}

type extractor struct {
	next readlater.Extractor
	m    *Metrics
}

func (e *extractor) Extract(page *readlater.Page, opts readlater.ExtractOptions) (*readlater.Article, error) {
	article, err := e.next.Extract(page, opts)
	e.m.extractions.WithLabelValues(result(err)).Inc()
	if article != nil && article.Metadata.WordCount != nil {
		e.m.words.Add(float64(*article.Metadata.WordCount))
	}
	return article, err
}

type articleService struct {
	next readlater.ArticleService
	m    *Metrics
}

func (s *articleService) CreateArticle(ctx context.Context, article *readlater.Article) (*readlater.SavedArticle, error) {
	saved, err := s.next.CreateArticle(ctx, article)
	code := "ok"
	if err != nil {
		code = readlater.ErrorCode(err)
	}
	s.m.saves.WithLabelValues(code).Inc()
	return saved, err
}
