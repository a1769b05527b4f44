package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthorized indicates a missing, unknown, or revoked API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates an absent local or upstream record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed request body.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActiveToken indicates that no active Discord token exists for the
	// requested principal and token name.
	ErrNoActiveToken = errors.New("token not found or inactive")
)

// UpstreamError reports a non-2xx response from the Discord API, preserving
// the upstream status code.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed with status %d", e.StatusCode)
}

// RateLimitError is returned when a key issues requests faster than its
// minimum interval allows.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// QuotaError is returned when a key has exhausted its daily request quota.
type QuotaError struct {
	Limit int
	Used  int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily limit reached (%d requests)", e.Limit)
}
