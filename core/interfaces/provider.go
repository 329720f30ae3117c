// ABOUTME: Text generation provider interface used by the content enhancer
// ABOUTME: One narrow contract shared by the OpenAI-compatible and custom API clients

package interfaces

import "context"

// Generation is the raw output of a text provider call.
type Generation struct {
	// Text is the provider's textual response, shape unspecified
	Text string

	// TokensUsed is the provider-reported token consumption, 0 if unknown
	TokensUsed int
}

// TextProvider generates text from a rendered prompt. Model, token limit
// and temperature are fixed at construction time; callers only supply the
// prompt.
type TextProvider interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
}
