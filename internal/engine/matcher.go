package engine

import (
	"github.com/tessera-labs/design-notify/internal/domain"
)

// Match computes which subscriptions should receive the notification.
// It is a pure predicate over its inputs; result order is not significant
// and the dispatcher may deliver in any order.
func Match(n domain.Notification, subs []domain.Subscription) []domain.Subscription {
	matched := []domain.Subscription{}
	for _, sub := range subs {
		if Matches(n, sub) {
			matched = append(matched, sub)
		}
	}
	return matched
}

// Matches applies the four filter clauses; all must hold.
func Matches(n domain.Notification, sub domain.Subscription) bool {
	if !sub.Active {
		return false
	}
	if !sub.WantsKind(n.Kind) {
		return false
	}
	if n.Severity.Rank() < sub.MinSeverity.Rank() {
		return false
	}
	if len(sub.ComponentFilter) > 0 {
		// A component-scoped subscriber never receives un-scoped noise:
		// a notification without a componentId is excluded outright.
		componentID := n.Metadata.ComponentID()
		if componentID == "" {
			return false
		}
		found := false
		for _, want := range sub.ComponentFilter {
			if want == componentID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
