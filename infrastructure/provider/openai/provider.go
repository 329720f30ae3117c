// ABOUTME: Text provider implementation backed by the OpenAI chat completions API
// ABOUTME: Supports OpenAI-compatible gateways through a configurable base URL

package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"feedbot-core/core/interfaces"
	"feedbot-core/pkg/config"
)

// Provider implements the TextProvider interface using go-openai
type Provider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewProvider creates a provider from the AI configuration.
func NewProvider(cfg config.AIConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai provider requires an API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends prompt as a single user message and returns the first
// choice together with the reported token usage.
func (p *Provider) Generate(ctx context.Context, prompt string) (*interfaces.Generation, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.New("chat completion returned empty content")
	}

	return &interfaces.Generation{
		Text:       text,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
