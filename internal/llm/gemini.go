package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/config"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/retry"
)

const (
	// DefaultGeminiModel is used when neither config nor environment
	// names a model.
	DefaultGeminiModel = "gemini-flash-lite-latest"
)

// GeminiClient implements Generator on the Gemini API with structured
// output via response schemas.
type GeminiClient struct {
	modelName   string
	temperature float32
	maxTokens   int32
	gClient     *genai.Client
}

// NewGeminiClient creates a Gemini-backed generator. The API key is
// resolved from config, then the GEMINI_API_KEY environment variable,
// then viper's ai.gemini.api_key.
func NewGeminiClient(cfg config.Gemini) (*GeminiClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = viper.GetString("ai.gemini.api_key")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or ai.gemini.api_key in the config file")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		modelName:   modelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		gClient:     gClient,
	}, nil
}

// Generate sends the prompt pair to Gemini and returns the raw JSON
// text matching the schema.
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt, userPayload string, schema *genai.Schema) (string, error) {
	if userPayload == "" {
		return "", fmt.Errorf("user payload cannot be empty")
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: userPayload}},
		Role:  "user",
	}}

	generateConfig := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		generateConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	if c.temperature > 0 {
		temp := c.temperature
		generateConfig.Temperature = &temp
	}
	if c.maxTokens > 0 {
		generateConfig.MaxOutputTokens = c.maxTokens
	}
	if schema != nil {
		generateConfig.ResponseMIMEType = "application/json"
		generateConfig.ResponseSchema = schema
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, generateConfig)
	if err != nil {
		if retry.IsRateLimit(err) {
			return "", &core.RateLimitError{Provider: "gemini", Cause: err}
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}
