// ABOUTME: Webhook-based status notifier posting JSON messages over the shared transport
// ABOUTME: Delivery is best-effort; callers treat failures as log-only events

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"feedbot-core/core/interfaces"
)

// Notifier implements the StatusNotifier interface by posting messages
// to a webhook URL as a small JSON document.
type Notifier struct {
	client interfaces.HTTPClient
	url    string
}

type webhookPayload struct {
	Text string `json:"text"`
}

// NewNotifier creates a webhook notifier using the shared HTTP transport.
func NewNotifier(client interfaces.HTTPClient, url string) (*Notifier, error) {
	if client == nil {
		return nil, errors.New("webhook notifier requires an HTTP client")
	}
	if url == "" {
		return nil, errors.New("webhook notifier requires a URL")
	}
	return &Notifier{client: client, url: url}, nil
}

// Notify posts the message to the configured webhook.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	if message == "" {
		return errors.New("message cannot be empty")
	}

	payload, err := json.Marshal(webhookPayload{Text: message})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := n.client.Post(ctx, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body().Close()

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("webhook returned status %d", code)
	}

	return nil
}
