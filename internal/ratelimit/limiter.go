package ratelimit

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a name for logging/debugging.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a new rate limiter with the given requests per second.
// The burst size is the rate rounded up, with a minimum of one request.
// A non-positive rate disables limiting.
func New(name string, requestsPerSecond float64) *Limiter {
	return NewWithBurst(name, requestsPerSecond, int(math.Ceil(requestsPerSecond)))
}

// NewWithBurst creates a new rate limiter with custom burst size.
func NewWithBurst(name string, requestsPerSecond float64, burst int) *Limiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		name:    name,
	}
}

// Wait blocks until the rate limiter allows a request to proceed.
// Returns an error if the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
// Use this for non-blocking checks; prefer Wait for most cases.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the name of this rate limiter.
func (l *Limiter) Name() string {
	return l.name
}
