package channel

import (
	"context"

	"github.com/tessera-labs/design-notify/internal/domain"
)

// Adapter delivers a notification to one endpoint of one channel. Every
// transport sits behind this single contract so the dispatcher can treat
// channels uniformly and adapters stay swappable.
//
// Send must honor ctx cancellation; the dispatcher bounds every attempt
// with a timeout. A nil return is a successful delivery; any error is
// recorded as a failed outcome and never propagated further.
type Adapter interface {
	Send(ctx context.Context, endpoint string, n domain.Notification) error
}
