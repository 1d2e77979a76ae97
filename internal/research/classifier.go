package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/llm"
)

const classifySystemPrompt = `You are a fact validator for a content-generation platform.
Judge each fact on source credibility and confidence. Approve facts from
credible, named sources with adequate confidence; reject the rest. Give a
short reason for every decision. Judge only with the information provided.`

// Classifier partitions researched facts into approved and rejected
// sets using the external generator as the credibility oracle.
type Classifier struct {
	gen llm.Generator
}

// NewClassifier creates a classifier on the given generator.
func NewClassifier(gen llm.Generator) *Classifier {
	return &Classifier{gen: gen}
}

func classifySchema() *genai.Schema {
	decision := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"claim": {
				Type:        genai.TypeString,
				Description: "The exact claim text being judged",
			},
			"reason": {
				Type:        genai.TypeString,
				Description: "Short reason for the decision",
			},
		},
		Required: []string{"claim", "reason"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"approved": {
				Type:        genai.TypeArray,
				Description: "Facts that passed validation",
				Items:       decision,
			},
			"rejected": {
				Type:        genai.TypeArray,
				Description: "Facts that failed validation",
				Items:       decision,
			},
		},
		Required: []string{"approved", "rejected"},
	}
}

// Classify asks the generator to judge each fact and maps the verdict
// back onto the input facts by claim text. Facts the model does not
// mention are rejected with a default reason so the partition always
// covers the full input.
func (c *Classifier) Classify(ctx context.Context, facts []core.Fact, req core.PipelineRequest) (*core.ValidationResult, error) {
	if len(facts) == 0 {
		return &core.ValidationResult{}, nil
	}

	payload := buildClassifyPayload(facts, req)
	response, err := c.gen.Generate(ctx, classifySystemPrompt, payload, classifySchema())
	if err != nil {
		return nil, fmt.Errorf("fact classification failed: %w", err)
	}

	var parsed struct {
		Approved []struct {
			Claim  string `json:"claim"`
			Reason string `json:"reason"`
		} `json:"approved"`
		Rejected []struct {
			Claim  string `json:"claim"`
			Reason string `json:"reason"`
		} `json:"rejected"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	approvedReasons := make(map[string]string, len(parsed.Approved))
	for _, decision := range parsed.Approved {
		approvedReasons[normalizeClaim(decision.Claim)] = decision.Reason
	}
	rejectedReasons := make(map[string]string, len(parsed.Rejected))
	for _, decision := range parsed.Rejected {
		rejectedReasons[normalizeClaim(decision.Claim)] = decision.Reason
	}

	result := &core.ValidationResult{}
	for _, fact := range facts {
		key := normalizeClaim(fact.Claim)
		if reason, ok := approvedReasons[key]; ok {
			result.Approved = append(result.Approved, core.ApprovedFact{Fact: fact, Reason: reason})
			continue
		}
		reason, ok := rejectedReasons[key]
		if !ok {
			reason = "not classified by the validator"
		}
		result.Rejected = append(result.Rejected, core.RejectedFact{Fact: fact, Reason: reason})
	}

	return result, nil
}

func buildClassifyPayload(facts []core.Fact, req core.PipelineRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n\nFacts to validate:\n", req.Topic)
	for i, fact := range facts {
		fmt.Fprintf(&sb, "%d. claim: %s\n   source: %s", i+1, fact.Claim, fact.Source)
		if fact.SourceURL != "" {
			fmt.Fprintf(&sb, " (%s)", fact.SourceURL)
		}
		fmt.Fprintf(&sb, "\n   confidence: %.2f, category: %s\n", fact.Confidence, fact.Category)
	}
	sb.WriteString("\nReturn every claim in exactly one of the two lists, with its exact claim text.")
	return sb.String()
}

func normalizeClaim(claim string) string {
	return strings.ToLower(strings.TrimSpace(claim))
}
