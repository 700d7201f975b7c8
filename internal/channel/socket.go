package channel

import (
	"context"

	"github.com/tessera-labs/design-notify/internal/domain"
)

// Publisher is satisfied by the websocket hub.
type Publisher interface {
	Publish(topic string, payload any) error
}

// SocketAdapter pushes the notification to every connected socket client
// on the subscription's topic. Delivering to zero connected clients is
// still a success: sockets have broadcast semantics, not mailbox
// semantics.
type SocketAdapter struct {
	hub Publisher
}

func NewSocketAdapter(hub Publisher) *SocketAdapter {
	return &SocketAdapter{hub: hub}
}

func (a *SocketAdapter) Send(_ context.Context, endpoint string, n domain.Notification) error {
	return a.hub.Publish(endpoint, n)
}
