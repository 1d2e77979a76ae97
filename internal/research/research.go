// Package research implements the fact-gathering stage: it asks the
// generator for sourced facts about a topic and validates the
// structured payload at the boundary.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/llm"
)

const researchSystemPrompt = `You are a meticulous research assistant for a content-generation platform.
Gather verifiable facts about the requested topic. Every fact needs a named source.
Prefer primary sources and official documentation. Assign an honest confidence
score between 0 and 1 and pick the category that best describes each fact.`

// Researcher produces a ResearchResult for a pipeline request.
type Researcher struct {
	gen llm.Generator
}

// NewResearcher creates a researcher on the given generator.
func NewResearcher(gen llm.Generator) *Researcher {
	return &Researcher{gen: gen}
}

// researchSchema is the structured-output contract for the research call.
func researchSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"facts": {
				Type:        genai.TypeArray,
				Description: "Verifiable facts about the topic, most relevant first",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"claim": {
							Type:        genai.TypeString,
							Description: "A single factual statement",
						},
						"source": {
							Type:        genai.TypeString,
							Description: "Name of the source backing the claim",
						},
						"source_url": {
							Type:        genai.TypeString,
							Description: "URL of the source, if known",
						},
						"confidence": {
							Type:        genai.TypeNumber,
							Description: "Confidence in the claim, 0.0 to 1.0",
						},
						"category": {
							Type:        genai.TypeString,
							Description: "Kind of information the fact carries",
							Enum:        []string{"technical", "marketing", "general", "specification"},
						},
					},
					Required: []string{"claim", "source", "confidence", "category"},
				},
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "Short free-text summary of the research findings",
			},
		},
		Required: []string{"facts", "summary"},
	}
}

// Research gathers facts for the request. The generator's JSON payload
// is validated here: facts without a claim are dropped and confidence
// values are clamped into [0,1].
func (r *Researcher) Research(ctx context.Context, req core.PipelineRequest) (*core.ResearchResult, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("research request has no topic")
	}

	payload := buildResearchPayload(req)
	response, err := r.gen.Generate(ctx, researchSystemPrompt, payload, researchSchema())
	if err != nil {
		return nil, fmt.Errorf("research call failed: %w", err)
	}

	var parsed struct {
		Facts []struct {
			Claim      string  `json:"claim"`
			Source     string  `json:"source"`
			SourceURL  string  `json:"source_url"`
			Confidence float64 `json:"confidence"`
			Category   string  `json:"category"`
		} `json:"facts"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse research response: %w", err)
	}

	result := &core.ResearchResult{Summary: strings.TrimSpace(parsed.Summary)}
	for _, f := range parsed.Facts {
		claim := strings.TrimSpace(f.Claim)
		if claim == "" {
			continue
		}
		result.Facts = append(result.Facts, core.Fact{
			ID:         uuid.NewString(),
			Claim:      claim,
			Source:     strings.TrimSpace(f.Source),
			SourceURL:  strings.TrimSpace(f.SourceURL),
			Confidence: clampConfidence(f.Confidence),
			Category:   parseCategory(f.Category),
		})
	}

	if len(result.Facts) == 0 {
		return nil, fmt.Errorf("research produced no usable facts")
	}

	return result, nil
}

func buildResearchPayload(req core.PipelineRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n", req.Topic)
	if req.TargetAudience != "" {
		fmt.Fprintf(&sb, "Target audience: %s\n", req.TargetAudience)
	}
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(req.Keywords, ", "))
	}
	if len(req.Sources) > 0 {
		fmt.Fprintf(&sb, "Preferred sources: %s\n", strings.Join(req.Sources, ", "))
	}
	if req.Briefing != "" {
		fmt.Fprintf(&sb, "Briefing: %s\n", req.Briefing)
	}
	sb.WriteString("\nGather 8-15 verifiable facts with sources.")
	return sb.String()
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func parseCategory(category string) core.FactCategory {
	switch core.FactCategory(strings.ToLower(strings.TrimSpace(category))) {
	case core.FactCategoryTechnical:
		return core.FactCategoryTechnical
	case core.FactCategoryMarketing:
		return core.FactCategoryMarketing
	case core.FactCategorySpecification:
		return core.FactCategorySpecification
	default:
		return core.FactCategoryGeneral
	}
}
