package research

import (
	"context"
	"testing"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

func inputFacts() []core.Fact {
	return []core.Fact{
		{ID: "f1", Claim: "A wallbox charges at 11 kW", Source: "manual", Confidence: 0.9, Category: core.FactCategoryTechnical},
		{ID: "f2", Claim: "Charging at night is cheaper", Source: "blog", Confidence: 0.5, Category: core.FactCategoryGeneral},
		{ID: "f3", Claim: "The cable is five meters long", Source: "spec sheet", Confidence: 0.8, Category: core.FactCategorySpecification},
	}
}

func TestClassifyMapsVerdictsByClaim(t *testing.T) {
	gen := &mockGenerator{response: `{
		"approved": [
			{"claim": "A wallbox charges at 11 kW", "reason": "official documentation"},
			{"claim": "THE CABLE IS FIVE METERS LONG  ", "reason": "spec sheet value"}
		],
		"rejected": [
			{"claim": "Charging at night is cheaper", "reason": "unsourced blog claim"}
		]
	}`}
	classifier := NewClassifier(gen)

	result, err := classifier.Classify(context.Background(), inputFacts(), testRequest())
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if len(result.Approved) != 2 {
		t.Fatalf("Expected 2 approved facts, got %d", len(result.Approved))
	}
	if result.Approved[0].Fact.ID != "f1" {
		t.Errorf("Expected f1 approved first, got %s", result.Approved[0].Fact.ID)
	}
	if result.Approved[1].Fact.ID != "f3" {
		t.Errorf("Expected case-insensitive claim matching for f3, got %s", result.Approved[1].Fact.ID)
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("Expected 1 rejected fact, got %d", len(result.Rejected))
	}
	if result.Rejected[0].Reason != "unsourced blog claim" {
		t.Errorf("Expected the rejection reason, got %q", result.Rejected[0].Reason)
	}
}

func TestClassifyRejectsUnmentionedFacts(t *testing.T) {
	gen := &mockGenerator{response: `{
		"approved": [{"claim": "A wallbox charges at 11 kW", "reason": "official documentation"}],
		"rejected": []
	}`}
	classifier := NewClassifier(gen)

	result, err := classifier.Classify(context.Background(), inputFacts(), testRequest())
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if len(result.Approved) != 1 {
		t.Fatalf("Expected 1 approved fact, got %d", len(result.Approved))
	}
	if len(result.Rejected) != 2 {
		t.Fatalf("Expected unmentioned facts rejected, got %d", len(result.Rejected))
	}
	for _, rejected := range result.Rejected {
		if rejected.Reason != "not classified by the validator" {
			t.Errorf("Expected the default rejection reason, got %q", rejected.Reason)
		}
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	gen := &mockGenerator{}
	classifier := NewClassifier(gen)

	result, err := classifier.Classify(context.Background(), nil, testRequest())
	if err != nil {
		t.Fatalf("Expected success for empty input, got %v", err)
	}
	if len(result.Approved) != 0 || len(result.Rejected) != 0 {
		t.Error("Expected an empty partition")
	}
	if gen.callCount != 0 {
		t.Errorf("Generator must not be called for empty input, got %d call(s)", gen.callCount)
	}
}

func TestClassifyMalformedResponse(t *testing.T) {
	gen := &mockGenerator{response: "not json"}
	classifier := NewClassifier(gen)

	if _, err := classifier.Classify(context.Background(), inputFacts(), testRequest()); err == nil {
		t.Fatal("Expected an error for a malformed response")
	}
}
