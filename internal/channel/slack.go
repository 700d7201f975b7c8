package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tessera-labs/design-notify/internal/domain"
)

// SlackAdapter posts to a Slack incoming-webhook URL. Slack expects a
// {"text": ...} body and answers 200 "ok" on acceptance.
type SlackAdapter struct {
	client *http.Client
}

func NewSlackAdapter(client *http.Client) *SlackAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &SlackAdapter{client: client}
}

type slackMessage struct {
	Text string `json:"text"`
}

func (a *SlackAdapter) Send(ctx context.Context, endpoint string, n domain.Notification) error {
	msg := slackMessage{
		Text: fmt.Sprintf("[%s] %s\n%s", n.Severity, n.Title, n.Message),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
