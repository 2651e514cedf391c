package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/search"
)

// PageFetcher is a decorator that retries transient page failures with
// exponential backoff and jitter before delegating to the wrapped fetcher.
type PageFetcher struct {
	inner      search.PageFetcher
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *slog.Logger
}

var _ search.PageFetcher = (*PageFetcher)(nil)

// NewPageFetcher wraps a search.PageFetcher with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
// maxDelay caps any single wait, including one requested by Retry-After;
// zero means no cap.
func NewPageFetcher(inner search.PageFetcher, maxRetries int, baseDelay, maxDelay time.Duration, logger *slog.Logger) *PageFetcher {
	return &PageFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
		logger:     logger,
	}
}

// FetchPage attempts to fetch the page, retrying on transient errors.
func (f *PageFetcher) FetchPage(ctx context.Context, start int) (search.Page, error) {
	page, err := f.inner.FetchPage(ctx, start)
	if err == nil {
		return page, nil
	}

	if !isRetryable(err) {
		return search.Page{}, err
	}

	var lastErr error = err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		delay := f.backoffDelay(attempt, lastErr)

		f.logger.Warn("retrying after transient error",
			"start", start,
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return search.Page{}, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		page, err = f.inner.FetchPage(ctx, start)
		if err == nil {
			return page, nil
		}

		if !isRetryable(err) {
			return search.Page{}, err
		}
		lastErr = err
	}

	return search.Page{}, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
// The result never exceeds maxDelay when one is set.
func (f *PageFetcher) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return f.capped(httpErr.RetryAfter)
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := f.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return f.capped(time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter))
}

func (f *PageFetcher) capped(d time.Duration) time.Duration {
	if f.maxDelay > 0 && d > f.maxDelay {
		return f.maxDelay
	}
	return d
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A body we could not decode will not decode any better next time.
	if errors.Is(err, model.ErrParse) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
	}

	// Network errors (DNS, connection reset, ...) are retryable.
	return true
}
