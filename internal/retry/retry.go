// Package retry wraps external-service calls with bounded retry for
// rate-limit-class failures. Any other error returns immediately so
// programming and validation mistakes are never masked as transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// ErrMaxRetries is returned after every attempt of a retried call has
// failed with a rate-limit condition.
var ErrMaxRetries = errors.New("max retries exceeded")

// Policy configures the retry behavior for one class of external call.
type Policy struct {
	MaxAttempts int           // Total attempts, including the first
	Backoff     time.Duration // Fixed sleep between rate-limited attempts
}

// DefaultPolicy returns the reference policy: three attempts with a
// fixed 60 second backoff between rate-limited failures.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     60 * time.Second,
	}
}

// Do executes fn until it succeeds, fails with a non-retryable error,
// or exhausts the policy's attempts. Only rate-limit-classified errors
// are retried; the backoff sleep respects context cancellation.
func Do[T any](ctx context.Context, policy Policy, fn func() (T, error)) (T, error) {
	var zero T
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		value, err := fn()
		if err == nil {
			return value, nil
		}
		if !IsRateLimit(err) {
			return zero, err
		}
		lastErr = err
		if attempt == policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(policy.Backoff):
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, policy.MaxAttempts, lastErr)
}

// ratePatterns are the message fragments that mark a response as a
// rate-limit condition when the provider did not return a typed error.
var ratePatterns = []string{
	"rate limit",
	"too many requests",
	"429",
	"quota",
	"resource exhausted",
	"resource_exhausted",
}

// IsRateLimit reports whether err is a rate-limit condition, either a
// typed core.RateLimitError or a message matching a known pattern.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var rateLimit *core.RateLimitError
	if errors.As(err, &rateLimit) {
		return true
	}

	message := strings.ToLower(err.Error())
	for _, pattern := range ratePatterns {
		if strings.Contains(message, pattern) {
			return true
		}
	}
	return false
}
