package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/config"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// DefaultOpenAIModel is used when the config names no model.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient implements Generator on any OpenAI-compatible endpoint,
// including local servers via a custom base URL.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI-backed generator.
func NewOpenAIClient(cfg config.OpenAI) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required: set ai.openai.api_key in the config file")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Generate sends the prompt pair as a chat completion with JSON output
// enforced. The response schema is rendered into the system prompt
// because the chat API accepts the contract only as instructions.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPayload string, schema *genai.Schema) (string, error) {
	if userPayload == "" {
		return "", fmt.Errorf("user payload cannot be empty")
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	system := systemPrompt
	if schema != nil {
		schemaJSON, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("failed to encode response schema: %w", err)
		}
		system = fmt.Sprintf("%s\n\nRespond with a single JSON object matching this schema exactly:\n%s",
			systemPrompt, schemaJSON)
	}
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPayload,
	})

	request := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if schema != nil {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", &core.RateLimitError{Provider: "openai", Cause: err}
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response generated")
	}

	return resp.Choices[0].Message.Content, nil
}
