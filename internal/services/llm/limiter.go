package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimiter throttles outbound provider calls to a requests-per-minute
// budget shared across Generate and Embed.
type rateLimiter struct {
	limiter *rate.Limiter
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
	}
}

// Wait blocks until a request slot is available or the context is done.
func (r *rateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait aborted: %w", err)
	}
	return nil
}
