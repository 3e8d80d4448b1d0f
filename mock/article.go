package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var _ readlater.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of readlater.ArticleService.
type ArticleService struct {
	CreateArticleFn func(ctx context.Context, article *readlater.Article) (*readlater.SavedArticle, error)
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *readlater.Article) (*readlater.SavedArticle, error) {
	return s.CreateArticleFn(ctx, article)
}
