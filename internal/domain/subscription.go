package domain

import "time"

// Channel is a delivery transport with its own endpoint and failure modes.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelWebhook Channel = "webhook"
	ChannelSlack   Channel = "slack"
	ChannelSocket  Channel = "socket"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelWebhook, ChannelSlack, ChannelSocket:
		return true
	}
	return false
}

// Subscription is a standing request by an owner to receive notifications
// matching certain filters via certain channels. An empty EventKinds slice
// means "all kinds". A present ComponentFilter restricts matching to
// notifications whose metadata names one of the listed components.
type Subscription struct {
	ID               string             `json:"id"`
	OwnerID          string             `json:"owner_id"`
	Active           bool               `json:"active"`
	Channels         []Channel          `json:"channels"`
	ChannelEndpoints map[Channel]string `json:"channel_endpoints"`
	EventKinds       []EventKind        `json:"event_kinds,omitempty"`
	MinSeverity      Severity           `json:"min_severity"`
	ComponentFilter  []string           `json:"component_filter,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// WantsKind reports whether the subscription's kind filter admits k.
func (s *Subscription) WantsKind(k EventKind) bool {
	if len(s.EventKinds) == 0 {
		return true
	}
	for _, want := range s.EventKinds {
		if want == k {
			return true
		}
	}
	return false
}

type CreateSubscriptionRequest struct {
	OwnerID          string             `json:"owner_id"`
	Channels         []Channel          `json:"channels"`
	ChannelEndpoints map[Channel]string `json:"channel_endpoints"`
	EventKinds       []EventKind        `json:"event_kinds,omitempty"`
	MinSeverity      Severity           `json:"min_severity,omitempty"`
	ComponentFilter  []string           `json:"component_filter,omitempty"`
}

// UpdateSubscriptionRequest carries a shallow partial update. Nil fields
// retain their prior values.
type UpdateSubscriptionRequest struct {
	Active           *bool               `json:"active,omitempty"`
	Channels         *[]Channel          `json:"channels,omitempty"`
	ChannelEndpoints *map[Channel]string `json:"channel_endpoints,omitempty"`
	EventKinds       *[]EventKind        `json:"event_kinds,omitempty"`
	MinSeverity      *Severity           `json:"min_severity,omitempty"`
	ComponentFilter  *[]string           `json:"component_filter,omitempty"`
}
