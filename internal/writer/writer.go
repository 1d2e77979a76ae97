// Package writer implements the article-writing stage: it turns an
// approved fact set into a draft article bound to those facts.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/llm"
)

const writeSystemPrompt = `You are a senior content writer for a content-generation platform.
Write a complete, publication-ready article grounded ONLY in the approved facts
provided. Never invent claims. Reference the facts you used by their claim text.
Write naturally and confidently; avoid hedging language. Do not leave placeholder
markers in the text.`

// Writer produces draft articles from approved facts.
type Writer struct {
	gen llm.Generator
}

// NewWriter creates a writer on the given generator.
func NewWriter(gen llm.Generator) *Writer {
	return &Writer{gen: gen}
}

func articleSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "Article title, at most 60 characters",
			},
			"meta_description": {
				Type:        genai.TypeString,
				Description: "SEO meta description, at most 155 characters",
			},
			"content": {
				Type:        genai.TypeString,
				Description: "Full article body in markdown",
			},
			"keywords": {
				Type:        genai.TypeArray,
				Description: "Keywords the article targets",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"facts_used": {
				Type:        genai.TypeArray,
				Description: "Claim texts of the approved facts woven into the article",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"internal_link_suggestions": {
				Type:        genai.TypeArray,
				Description: "Suggested internal link anchor texts",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"title", "meta_description", "content", "keywords", "facts_used"},
	}
}

// WriteArticle generates a draft article for the request from the
// approved facts. Version lineage fields are stamped from the request.
func (w *Writer) WriteArticle(ctx context.Context, req core.PipelineRequest, validation *core.ValidationResult) (*core.Article, error) {
	if len(validation.Approved) == 0 {
		return nil, fmt.Errorf("cannot write an article without approved facts")
	}

	payload := buildWritePayload(req, validation)
	response, err := w.gen.Generate(ctx, writeSystemPrompt, payload, articleSchema())
	if err != nil {
		return nil, fmt.Errorf("writing call failed: %w", err)
	}

	var parsed struct {
		Title                   string   `json:"title"`
		MetaDescription         string   `json:"meta_description"`
		Content                 string   `json:"content"`
		Keywords                []string `json:"keywords"`
		FactsUsed               []string `json:"facts_used"`
		InternalLinkSuggestions []string `json:"internal_link_suggestions"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse article response: %w", err)
	}
	if strings.TrimSpace(parsed.Title) == "" || strings.TrimSpace(parsed.Content) == "" {
		return nil, fmt.Errorf("article response is missing a title or content")
	}

	version := req.Version
	if version < 1 {
		version = 1
	}

	article := &core.Article{
		ID:                      uuid.NewString(),
		TenantID:                req.TenantID,
		Title:                   strings.TrimSpace(parsed.Title),
		MetaDescription:         strings.TrimSpace(parsed.MetaDescription),
		Content:                 parsed.Content,
		Keywords:                parsed.Keywords,
		WordCount:               len(strings.Fields(parsed.Content)),
		FactsUsed:               parsed.FactsUsed,
		InternalLinkSuggestions: parsed.InternalLinkSuggestions,
		Topic:                   req.Topic,
		TargetAudience:          req.TargetAudience,
		DesiredWordCount:        req.DesiredWordCount,
		Version:                 version,
		ParentArticleID:         req.ParentArticleID,
		VersionNotes:            req.VersionNotes,
		DateCreated:             time.Now().UTC(),
	}

	return article, nil
}

func buildWritePayload(req core.PipelineRequest, validation *core.ValidationResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n", req.Topic)
	if req.TargetAudience != "" {
		fmt.Fprintf(&sb, "Target audience: %s\n", req.TargetAudience)
	}
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords to target: %s\n", strings.Join(req.Keywords, ", "))
	}
	if req.DesiredWordCount > 0 {
		fmt.Fprintf(&sb, "Desired word count: %d\n", req.DesiredWordCount)
	}
	if req.Briefing != "" {
		fmt.Fprintf(&sb, "Briefing: %s\n", req.Briefing)
	}
	if req.VersionNotes != "" {
		fmt.Fprintf(&sb, "\nThis is a rewrite of an earlier version. Revision instructions:\n%s\n", req.VersionNotes)
	}

	sb.WriteString("\nApproved facts (use only these):\n")
	for i, approved := range validation.Approved {
		fmt.Fprintf(&sb, "%d. %s (source: %s)\n", i+1, approved.Fact.Claim, approved.Fact.Source)
	}

	return sb.String()
}
