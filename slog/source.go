package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readlater"
)

// Ensure LoggingURLSource implements readlater.URLSource.
var _ readlater.URLSource = (*LoggingURLSource)(nil)

// LoggingURLSource wraps a URLSource with logging.
type LoggingURLSource struct {
	next   readlater.URLSource
	logger *slog.Logger
}

// NewLoggingURLSource creates a new LoggingURLSource.
func NewLoggingURLSource(next readlater.URLSource, logger *slog.Logger) *LoggingURLSource {
	return &LoggingURLSource{next: next, logger: logger}
}

// Discover delegates to the wrapped source and logs the operation.
func (s *LoggingURLSource) Discover(ctx context.Context, source string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("discover",
			"url", source,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Discover(ctx, source)
}
