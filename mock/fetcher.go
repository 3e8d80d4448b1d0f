package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var _ readlater.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of readlater.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ readlater.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of readlater.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
