package core

import (
	"fmt"
	"strings"
)

// InsufficientFactsError is the hard-stop failure of the fact gate. It
// carries the full rejected list with reasons so the caller can present
// actionable diagnostics. The pipeline must not proceed to writing.
type InsufficientFactsError struct {
	ApprovedCount int
	Required      int
	Rejected      []RejectedFact
}

func (e *InsufficientFactsError) Error() string {
	return fmt.Sprintf("insufficient approved facts: %d approved, %d required (%d rejected)",
		e.ApprovedCount, e.Required, len(e.Rejected))
}

// ComplianceError is the structured rejection raised when an article
// fails the compliance scorer. It carries only critical issues;
// warnings and informational findings never block.
type ComplianceError struct {
	OverallScore int
	Critical     []Issue
}

func (e *ComplianceError) Error() string {
	if len(e.Critical) == 0 {
		return fmt.Sprintf("article failed compliance with score %d", e.OverallScore)
	}
	messages := make([]string, 0, len(e.Critical))
	for _, issue := range e.Critical {
		messages = append(messages, fmt.Sprintf("%s: %s", issue.Check, issue.Message))
	}
	return fmt.Sprintf("article failed compliance with score %d: %s",
		e.OverallScore, strings.Join(messages, "; "))
}

// RateLimitError marks a transient rate-limit condition from an
// external service. The retry policy is the only component that
// recovers from it.
type RateLimitError struct {
	Provider string
	Cause    error
}

func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s rate limit exceeded: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s rate limit exceeded", e.Provider)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// StorageError wraps a persistence failure. Storage errors are always
// fatal to a run: a reported success must guarantee durability.
type StorageError struct {
	Op    string // Operation that failed (save article, record run, ...)
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
