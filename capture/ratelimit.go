package capture

import (
	"context"
	"sync"

	"github.com/fwojciec/readlater"
	"golang.org/x/time/rate"
)

var _ readlater.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each host with its own token
// bucket, so a batch spanning several sites only slows down per site.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second to each host, with a burst of 1. A non-positive rps disables
// limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
