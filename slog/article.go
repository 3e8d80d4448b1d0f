package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readlater"
)

// Ensure LoggingArticleService implements readlater.ArticleService.
var _ readlater.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService with logging.
type LoggingArticleService struct {
	next   readlater.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next readlater.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

// CreateArticle delegates to the wrapped service and logs the result.
// The article content is never logged.
func (s *LoggingArticleService) CreateArticle(ctx context.Context, article *readlater.Article) (saved *readlater.SavedArticle, err error) {
	defer func(begin time.Time) {
		var url, id string
		if article != nil {
			url = article.URL
		}
		if saved != nil {
			id = saved.ID
		}
		s.logger.Info("create article",
			"url", url,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateArticle(ctx, article)
}
