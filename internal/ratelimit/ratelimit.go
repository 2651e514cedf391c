package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a pause between consecutive calls to the same provider.
// Callers Wait before a request and call Done once its response is handled;
// the next Wait then blocks until the minimum delay has passed since Done.
// The first call never waits, so a caller that paces before every request
// only ever sleeps between requests, never after the last one.
type Pacer struct {
	name  string
	limit rate.Limit

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewPacer returns a pacer with the given minimum pause. A non-positive
// minDelay disables pacing.
func NewPacer(name string, minDelay time.Duration) *Pacer {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Pacer{
		name:    name,
		limit:   limit,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next call is allowed.
// Returns an error if the context is cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	limiter := p.limiter
	p.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacer wait for %s: %w", p.name, err)
	}
	return nil
}

// Done marks the end of a call. The delay before the next call is measured
// from now, however long the call itself took.
func (p *Pacer) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A fresh limiter holds one token; taking it leaves the bucket empty as of now.
	p.limiter = rate.NewLimiter(p.limit, 1)
	p.limiter.Allow()
}
