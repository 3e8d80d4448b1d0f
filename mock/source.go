package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var _ readlater.URLSource = (*URLSource)(nil)

// URLSource is a mock implementation of readlater.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, source string) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, source string) ([]string, error) {
	return s.DiscoverFn(ctx, source)
}
