package batch

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/cabinet"
	"golang.org/x/time/rate"
)

var _ cabinet.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out extractions per host. Records pointing at the
// collection site wait on each other; records on other hosts do not.
type DomainLimiter struct {
	rps float64

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps extractions per second
// for each host, without bursts. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		rps:     rps,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until host may be contacted again. Host names are compared
// case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.bucket(strings.ToLower(host)).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.buckets[host] = b
	}
	return b
}
