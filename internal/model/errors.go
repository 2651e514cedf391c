package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConfigMissing marks a required setting (credential, engine id, chat id) that is absent.
	ErrConfigMissing = errors.New("missing required configuration")

	// ErrFetch marks a search request that could not be completed. The cycle is aborted.
	ErrFetch = errors.New("fetch failed")

	// ErrParse marks a provider response that could not be decoded.
	ErrParse = errors.New("malformed response")

	// ErrNotify marks a single notification that was not delivered.
	ErrNotify = errors.New("notification failed")

	// ErrStoreCorrupt marks durable state that exists but cannot be decoded.
	ErrStoreCorrupt = errors.New("seen store corrupt")

	// ErrCycleInProgress is returned when a cycle is requested while another is running.
	ErrCycleInProgress = errors.New("cycle already in progress")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
