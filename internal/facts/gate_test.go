package facts

import (
	"errors"
	"testing"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

func approved(n int) []core.ApprovedFact {
	facts := make([]core.ApprovedFact, n)
	for i := range facts {
		facts[i] = core.ApprovedFact{
			Fact:   fact(string(rune('a'+i)), "approved claim", 0.9),
			Reason: "well sourced",
		}
	}
	return facts
}

func rejected(n int) []core.RejectedFact {
	facts := make([]core.RejectedFact, n)
	for i := range facts {
		facts[i] = core.RejectedFact{
			Fact:   fact(string(rune('p'+i)), "rejected claim", 0.2),
			Reason: "unverifiable",
		}
	}
	return facts
}

func TestGateFailsBelowMinimumApprovedFacts(t *testing.T) {
	validation := &core.ValidationResult{
		Approved: approved(4),
		Rejected: rejected(1),
	}

	outcome, err := Gate(validation, DefaultGateConfig())

	if outcome != nil {
		t.Fatal("Expected no outcome on a failing gate")
	}
	var insufficient *core.InsufficientFactsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientFactsError, got %v", err)
	}
	if insufficient.ApprovedCount != 4 {
		t.Errorf("Expected approved count 4, got %d", insufficient.ApprovedCount)
	}
	if insufficient.Required != 5 {
		t.Errorf("Expected required 5, got %d", insufficient.Required)
	}
	if len(insufficient.Rejected) != 1 {
		t.Errorf("Expected rejected facts carried on the error, got %d", len(insufficient.Rejected))
	}
}

func TestGateExactMinimumWithGoodRateHasNoWarnings(t *testing.T) {
	// 5 of 8 approved is a 62.5% rate, above the 60% threshold.
	validation := &core.ValidationResult{
		Approved: approved(5),
		Rejected: rejected(3),
	}

	outcome, err := Gate(validation, DefaultGateConfig())
	if err != nil {
		t.Fatalf("Expected gate to pass, got %v", err)
	}
	if len(outcome.Warnings) != 0 {
		t.Errorf("Expected zero warnings, got %v", outcome.Warnings)
	}
	if validation.ApprovalRate != 0.625 {
		t.Errorf("Expected approval rate 0.625, got %v", validation.ApprovalRate)
	}
}

func TestGateLowApprovalRateWarnsButPasses(t *testing.T) {
	// 5 of 10 approved is a 50% rate, below the 60% threshold.
	validation := &core.ValidationResult{
		Approved: approved(5),
		Rejected: rejected(5),
	}

	outcome, err := Gate(validation, DefaultGateConfig())
	if err != nil {
		t.Fatalf("Expected gate to pass, got %v", err)
	}
	if len(outcome.Warnings) != 1 {
		t.Fatalf("Expected one warning, got %v", outcome.Warnings)
	}
}

func TestGateEmptyValidation(t *testing.T) {
	validation := &core.ValidationResult{}

	_, err := Gate(validation, DefaultGateConfig())

	var insufficient *core.InsufficientFactsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientFactsError for empty set, got %v", err)
	}
	if validation.ApprovalRate != 0 {
		t.Errorf("Expected approval rate 0 for empty set, got %v", validation.ApprovalRate)
	}
}

func TestGateAllApproved(t *testing.T) {
	validation := &core.ValidationResult{
		Approved: approved(6),
	}

	outcome, err := Gate(validation, DefaultGateConfig())
	if err != nil {
		t.Fatalf("Expected gate to pass, got %v", err)
	}
	if len(outcome.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", outcome.Warnings)
	}
	if validation.ApprovalRate != 1.0 {
		t.Errorf("Expected approval rate 1.0, got %v", validation.ApprovalRate)
	}
}
