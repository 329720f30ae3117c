package enhance

import (
	"context"
	"sync"

	"feedbot-core/core/interfaces"
	"feedbot-core/pkg/config"
)

// nopLogger discards all log output
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// mockProvider returns scripted generations per call
type mockProvider struct {
	mu       sync.Mutex
	calls    int
	generate func(call int, prompt string) (*interfaces.Generation, error)
	prompts  []string
}

func (p *mockProvider) Generate(_ context.Context, prompt string) (*interfaces.Generation, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()
	return p.generate(call, prompt)
}

func (p *mockProvider) lastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prompts) == 0 {
		return ""
	}
	return p.prompts[len(p.prompts)-1]
}

func testAIConfig() config.AIConfig {
	return config.AIConfig{
		Enabled:              true,
		ProviderType:         "openai",
		APIKey:               "test-key",
		Model:                "test-model",
		MaxTokens:            200,
		Temperature:          0.7,
		PromptTemplate:       "Rewrite this item.\nTitle: {title}\nDescription: {description}",
		MaxTitleLength:       200,
		MaxDescriptionLength: 800,
		ErrorThreshold:       3,
		LowQualityPhrases:    []string{"see other sources", "смотрите также"},
		TitleLabels:          []string{"title", "заголовок"},
		DescriptionLabels:    []string{"description", "описание"},
	}
}

func newTestService(provider interfaces.TextProvider) *Service {
	return NewService(interfaces.Dependencies{Logger: nopLogger{}}, provider, testAIConfig())
}
