package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/ingest"
)

// WebhookAdapter POSTs the notification as JSON to the subscriber's URL.
// When a signing secret is configured, the body is signed with HMAC-SHA256
// so receivers can authenticate the delivery the same way this service
// authenticates its own inbound webhooks.
type WebhookAdapter struct {
	client        *http.Client
	signingSecret string
}

func NewWebhookAdapter(client *http.Client, signingSecret string) *WebhookAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookAdapter{client: client, signingSecret: signingSecret}
}

func (a *WebhookAdapter) Send(ctx context.Context, endpoint string, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Notification-ID", n.ID)
	req.Header.Set("X-Notification-Kind", string(n.Kind))
	if a.signingSecret != "" {
		req.Header.Set("X-Signature", ingest.Sign(body, a.signingSecret))
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Read a bounded slice of the body for the outcome detail
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
