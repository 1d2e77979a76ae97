package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, Backoff: time.Millisecond}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	value, err := Do(context.Background(), fastPolicy(3), func() (string, error) {
		calls++
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if value != "ok" {
		t.Errorf("Expected value ok, got %q", value)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestDoRetriesRateLimitUntilExhausted(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(3), func() (string, error) {
		calls++
		return "", &core.RateLimitError{Provider: "gemini"}
	})

	if calls != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", calls)
	}
	if !errors.Is(err, ErrMaxRetries) {
		t.Errorf("Expected ErrMaxRetries, got %v", err)
	}
}

func TestDoRecoverAfterRateLimit(t *testing.T) {
	calls := 0
	value, err := Do(context.Background(), fastPolicy(3), func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("429 too many requests")
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("Expected recovery on second attempt, got %v", err)
	}
	if value != 42 {
		t.Errorf("Expected value 42, got %d", value)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	sentinel := errors.New("schema validation failed")
	_, err := Do(context.Background(), fastPolicy(3), func() (string, error) {
		calls++
		return "", sentinel
	})

	if calls != 1 {
		t.Errorf("Expected exactly 1 call for a non-retryable error, got %d", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected original error returned unchanged, got %v", err)
	}
	if errors.Is(err, ErrMaxRetries) {
		t.Error("Non-retryable failure must not be reported as retry exhaustion")
	}
}

func TestDoStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 3, Backoff: time.Minute}, func() (string, error) {
		calls++
		return "", &core.RateLimitError{Provider: "openai"}
	})

	if calls != 1 {
		t.Errorf("Expected 1 call before the cancelled backoff, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed error", &core.RateLimitError{Provider: "gemini"}, true},
		{"wrapped typed error", errors.Join(errors.New("call failed"), &core.RateLimitError{Provider: "openai"}), true},
		{"status code text", errors.New("unexpected status 429"), true},
		{"quota text", errors.New("quota exceeded for project"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimit(tt.err); got != tt.want {
				t.Errorf("IsRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
