package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/readlater"
)

// Ensure LoggingExtractor implements readlater.Extractor.
var _ readlater.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   readlater.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next readlater.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it produced.
func (e *LoggingExtractor) Extract(page *readlater.Page, opts readlater.ExtractOptions) (article *readlater.Article, err error) {
	defer func(begin time.Time) {
		var url string
		if page != nil {
			url = page.URL
		}
		var size int
		if article != nil {
			size = len(article.Content)
		}
		e.logger.Info("extract",
			"url", url,
			"fidelity", opts.Fidelity.String(),
			"selection", opts.HasSelection(),
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(page, opts)
}
