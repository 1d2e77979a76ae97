// Package llm provides the generator contract the pipeline stages
// depend on, plus the Gemini and OpenAI-compatible implementations.
// Stages request structured JSON against an explicit response schema
// and validate the payload at their own boundary.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/config"
)

// Generator is the opaque external model call. Implementations return
// the raw JSON text matching the requested schema; rate-limit
// conditions are normalized to core.RateLimitError so the retry policy
// can classify them.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPayload string, schema *genai.Schema) (string, error)
}

// Options tunes a single generation call.
type Options struct {
	Model       string  // Model override; empty uses the client default
	Temperature float32 // 0 keeps the provider default
	MaxTokens   int32   // 0 keeps the provider default
}

// NewFromConfig constructs the configured provider.
func NewFromConfig(cfg config.AI) (Generator, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(cfg.Gemini)
	case "openai":
		return NewOpenAIClient(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unsupported ai provider %q (expected gemini or openai)", cfg.Provider)
	}
}
