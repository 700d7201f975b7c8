package channel

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/tessera-labs/design-notify/internal/domain"
)

// EmailAdapter sends plain-text mail through a configured SMTP relay.
// The channel endpoint is the recipient address.
type EmailAdapter struct {
	relayAddr string
	from      string
}

func NewEmailAdapter(relayAddr, from string) *EmailAdapter {
	return &EmailAdapter{relayAddr: relayAddr, from: from}
}

func (a *EmailAdapter) Send(ctx context.Context, endpoint string, n domain.Notification) error {
	if a.relayAddr == "" {
		return fmt.Errorf("smtp relay is not configured")
	}

	msg := buildMessage(a.from, endpoint, n)

	// net/smtp has no context support; run the send in a goroutine so the
	// dispatcher's per-attempt timeout still applies.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(a.relayAddr, nil, a.from, []string{endpoint}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to string, n domain.Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: [%s] %s\r\n", n.Severity, n.Title)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(n.Message)
	b.WriteString("\r\n")
	return []byte(b.String())
}
