package enrichment

import (
	"context"
	"fmt"

	"github.com/leadflowhq/leadflow-backend/pkg/config"
	"github.com/sashabaranov/go-openai"
)

// Completer produces one chat completion per prompt. The OpenAI-backed
// client satisfies it; tests swap in a canned implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type openAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient wraps the go-openai SDK behind the Completer interface.
// Returns nil when no API key is configured, which switches the scorer to
// its heuristic fallback.
func NewOpenAIClient(cfg config.OpenAIConfig) Completer {
	if cfg.APIKey == "" {
		return nil
	}
	return &openAIClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (c *openAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
