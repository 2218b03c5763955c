package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter caps the number of API requests per second. Callers block in
// Wait rather than being rejected.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows maxRequests per second; zero or less disables the limit.
func NewRateLimiter(maxRequests int) *RateLimiter {
	if maxRequests <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(maxRequests), maxRequests)}
}

// Allow reports whether a request may be sent right now and consumes a slot if so.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
