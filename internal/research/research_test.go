package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// mockGenerator implements llm.Generator for testing
type mockGenerator struct {
	response    string
	err         error
	callCount   int
	lastPayload string
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt, userPayload string, schema *genai.Schema) (string, error) {
	m.callCount++
	m.lastPayload = userPayload
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func testRequest() core.PipelineRequest {
	return core.PipelineRequest{
		Topic:          "home ev charging",
		TargetAudience: "first-time buyers",
		Keywords:       []string{"charging", "costs"},
		TenantID:       "tenant-1",
	}
}

func TestResearchParsesAndValidatesFacts(t *testing.T) {
	gen := &mockGenerator{response: `{
		"facts": [
			{"claim": "A home wallbox charges at up to 11 kW", "source": "manufacturer manual",
			 "source_url": "https://example.com/manual", "confidence": 0.95, "category": "technical"},
			{"claim": "  ", "source": "nowhere", "confidence": 0.5, "category": "general"},
			{"claim": "Night tariffs cut charging costs", "source": "energy supplier", "confidence": 1.7, "category": "marketing"},
			{"claim": "Installation takes half a day", "source": "installer survey", "confidence": 0.8, "category": "made-up-category"}
		],
		"summary": " Home charging is cheap and practical. "
	}`}
	researcher := NewResearcher(gen)

	result, err := researcher.Research(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if len(result.Facts) != 3 {
		t.Fatalf("Expected the empty claim to be dropped, got %d facts", len(result.Facts))
	}
	if result.Facts[0].Category != core.FactCategoryTechnical {
		t.Errorf("Expected technical category, got %s", result.Facts[0].Category)
	}
	if result.Facts[1].Confidence != 1.0 {
		t.Errorf("Expected confidence clamped to 1.0, got %v", result.Facts[1].Confidence)
	}
	if result.Facts[2].Category != core.FactCategoryGeneral {
		t.Errorf("Expected unknown category to default to general, got %s", result.Facts[2].Category)
	}
	for _, fact := range result.Facts {
		if fact.ID == "" {
			t.Error("Expected every fact to get an id")
		}
	}
	if result.Summary != "Home charging is cheap and practical." {
		t.Errorf("Expected trimmed summary, got %q", result.Summary)
	}
}

func TestResearchRequiresTopic(t *testing.T) {
	gen := &mockGenerator{}
	researcher := NewResearcher(gen)

	_, err := researcher.Research(context.Background(), core.PipelineRequest{})
	if err == nil {
		t.Fatal("Expected an error for a missing topic")
	}
	if gen.callCount != 0 {
		t.Errorf("Generator must not be called without a topic, got %d call(s)", gen.callCount)
	}
}

func TestResearchNoUsableFacts(t *testing.T) {
	gen := &mockGenerator{response: `{"facts": [{"claim": "", "source": "x", "confidence": 0.5, "category": "general"}], "summary": "nothing"}`}
	researcher := NewResearcher(gen)

	_, err := researcher.Research(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Expected an error when no facts are usable")
	}
}

func TestResearchPropagatesGeneratorError(t *testing.T) {
	cause := errors.New("quota exceeded")
	gen := &mockGenerator{err: cause}
	researcher := NewResearcher(gen)

	_, err := researcher.Research(context.Background(), testRequest())
	if !errors.Is(err, cause) {
		t.Errorf("Expected the generator error to be wrapped, got %v", err)
	}
}

func TestResearchPayloadIncludesRequestDetails(t *testing.T) {
	gen := &mockGenerator{response: `{"facts": [{"claim": "c", "source": "s", "confidence": 0.5, "category": "general"}], "summary": "ok"}`}
	researcher := NewResearcher(gen)

	req := testRequest()
	req.Briefing = "focus on running costs"
	if _, err := researcher.Research(context.Background(), req); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	for _, want := range []string{"home ev charging", "first-time buyers", "charging, costs", "focus on running costs"} {
		if !strings.Contains(gen.lastPayload, want) {
			t.Errorf("Expected payload to contain %q", want)
		}
	}
}
