package infra

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outbound requests. EDGAR allows ten requests per
// second per user agent.
type RateLimiter struct {
	l *rate.Limiter
}

// NewRateLimiter allows bursts of up to burst requests and one further
// request every interval.
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{l: rate.NewLimiter(rate.Every(interval), burst)}
}

// PerSecond allows n requests per second with a burst of n.
func PerSecond(n int) *RateLimiter {
	if n < 1 {
		n = 1
	}
	return &RateLimiter{l: rate.NewLimiter(rate.Limit(n), n)}
}

// Limit reports the sustained rate in requests per second.
func (rl *RateLimiter) Limit() float64 { return float64(rl.l.Limit()) }

// Wait blocks until a request may proceed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.l.Wait(ctx)
}
