package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedbot-core/pkg/config"
)

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	provider, err := NewProvider(config.AIConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "test-model",
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	return provider
}

func TestGenerate_Success(t *testing.T) {
	var received chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  generated text  "}}],"usage":{"total_tokens":42}}`)
	}))
	defer server.Close()

	gen, err := newTestProvider(t, server.URL).Generate(context.Background(), "the prompt")

	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if gen.Text != "generated text" {
		t.Errorf("Text = %q, want trimmed content", gen.Text)
	}
	if gen.TokensUsed != 42 {
		t.Errorf("TokensUsed = %d, want 42", gen.TokensUsed)
	}
	if received.Model != "test-model" {
		t.Errorf("request model = %q", received.Model)
	}
	if len(received.Messages) != 1 || received.Messages[0].Content != "the prompt" {
		t.Errorf("request messages = %+v", received.Messages)
	}
	if received.Messages[0].Role != "user" {
		t.Errorf("message role = %q", received.Messages[0].Role)
	}
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := newTestProvider(t, server.URL).Generate(context.Background(), "x"); err == nil {
		t.Error("non-2xx status should fail")
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	if _, err := newTestProvider(t, server.URL).Generate(context.Background(), "x"); err == nil {
		t.Error("empty choices should fail")
	}
}

func TestGenerate_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	if _, err := newTestProvider(t, server.URL).Generate(context.Background(), "x"); err == nil {
		t.Error("malformed body should fail")
	}
}

func TestNewProvider_RequiresBaseURL(t *testing.T) {
	if _, err := NewProvider(config.AIConfig{APIKey: "k"}); err == nil {
		t.Error("missing base URL should fail construction")
	}
}
