package api

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing provider requests with a token bucket.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter allows qps requests per second with the given burst. A
// non-positive qps disables limiting.
func NewLimiter(qps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(qps)
	if qps <= 0 {
		limit = rate.Inf
	}
	return &Limiter{inner: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.inner.Wait(ctx)
}
