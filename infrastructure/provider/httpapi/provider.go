// ABOUTME: Text provider for self-hosted OpenAI-compatible chat completion endpoints
// ABOUTME: Speaks the chat/completions wire format with a plain net/http client

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"feedbot-core/core/interfaces"
	"feedbot-core/pkg/config"
)

const requestTimeout = 60 * time.Second

// Provider implements the TextProvider interface against any endpoint
// that accepts the chat completions request shape. Used for self-hosted
// gateways where the official client library is not appropriate.
type Provider struct {
	client      *http.Client
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// NewProvider creates a provider for the endpoint named in the AI
// configuration's base URL.
func NewProvider(cfg config.AIConfig) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("custom provider requires a base URL")
	}

	return &Provider{
		client:      &http.Client{Timeout: requestTimeout},
		endpoint:    strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Generate posts the prompt as a single user message and decodes the
// first choice of the response.
func (p *Provider) Generate(ctx context.Context, prompt string) (*interfaces.Generation, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, errors.New("endpoint returned no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.New("endpoint returned empty content")
	}

	return &interfaces.Generation{
		Text:       text,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}
