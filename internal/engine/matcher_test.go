package engine

import (
	"testing"

	"github.com/tessera-labs/design-notify/internal/domain"
)

func baseSubscription() domain.Subscription {
	return domain.Subscription{
		ID:      "sub-1",
		OwnerID: "owner-1",
		Active:  true,
		Channels: []domain.Channel{
			domain.ChannelWebhook,
		},
		ChannelEndpoints: map[domain.Channel]string{
			domain.ChannelWebhook: "https://example.com/hook",
		},
		MinSeverity: domain.SeverityInfo,
	}
}

func baseNotification() domain.Notification {
	return domain.Notification{
		ID:       "n-1",
		Kind:     domain.KindComponentUpdated,
		Severity: domain.SeverityWarning,
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name         string
		subscription func(domain.Subscription) domain.Subscription
		notification func(domain.Notification) domain.Notification
		want         bool
	}{
		{
			name:         "default subscription matches",
			subscription: func(s domain.Subscription) domain.Subscription { return s },
			notification: func(n domain.Notification) domain.Notification { return n },
			want:         true,
		},
		{
			name: "inactive subscription never matches",
			subscription: func(s domain.Subscription) domain.Subscription {
				s.Active = false
				return s
			},
			notification: func(n domain.Notification) domain.Notification { return n },
			want:         false,
		},
		{
			name: "kind filter admits listed kind",
			subscription: func(s domain.Subscription) domain.Subscription {
				s.EventKinds = []domain.EventKind{domain.KindComponentUpdated}
				return s
			},
			notification: func(n domain.Notification) domain.Notification { return n },
			want:         true,
		},
		{
			name: "kind filter excludes other kinds",
			subscription: func(s domain.Subscription) domain.Subscription {
				s.EventKinds = []domain.EventKind{domain.KindVersionPublished}
				return s
			},
			notification: func(n domain.Notification) domain.Notification { return n },
			want:         false,
		},
		{
			name: "empty kind filter is the all-kinds wildcard",
			subscription: func(s domain.Subscription) domain.Subscription {
				s.EventKinds = nil
				return s
			},
			notification: func(n domain.Notification) domain.Notification {
				n.Kind = domain.KindVersionPublished
				return n
			},
			want: true,
		},
		{
			name:         "severity equal to threshold matches",
			subscription: func(s domain.Subscription) domain.Subscription { s.MinSeverity = domain.SeverityWarning; return s },
			notification: func(n domain.Notification) domain.Notification { n.Severity = domain.SeverityWarning; return n },
			want:         true,
		},
		{
			name:         "severity above threshold matches",
			subscription: func(s domain.Subscription) domain.Subscription { s.MinSeverity = domain.SeverityWarning; return s },
			notification: func(n domain.Notification) domain.Notification { n.Severity = domain.SeverityCritical; return n },
			want:         true,
		},
		{
			name:         "severity below threshold does not match",
			subscription: func(s domain.Subscription) domain.Subscription { s.MinSeverity = domain.SeverityCritical; return s },
			notification: func(n domain.Notification) domain.Notification { n.Severity = domain.SeverityWarning; return n },
			want:         false,
		},
		{
			name: "component filter matches listed component",
			subscription: func(s domain.Subscription) domain.Subscription {
				s.ComponentFilter = []string{"btn-01", "card-02"}
				return s
			},
			notification: func(n domain.Notification) domain.Notification {
				n.Metadata = domain.Metadata(`{"componentId":"btn-01"}`)
				return n
			},
			want: true,
		},
		{
			name: "component filter excludes other components",
			subscription: func(s domain.Subscription) domain.Subscription {
				s.ComponentFilter = []string{"btn-01"}
				return s
			},
			notification: func(n domain.Notification) domain.Notification {
				n.Metadata = domain.Metadata(`{"componentId":"tab-09"}`)
				return n
			},
			want: false,
		},
		{
			name: "component filter excludes un-scoped notifications",
			subscription: func(s domain.Subscription) domain.Subscription {
				s.ComponentFilter = []string{"btn-01"}
				return s
			},
			notification: func(n domain.Notification) domain.Notification {
				n.Metadata = nil
				return n
			},
			want: false,
		},
		{
			name:         "absent component filter is vacuously satisfied",
			subscription: func(s domain.Subscription) domain.Subscription { return s },
			notification: func(n domain.Notification) domain.Notification {
				n.Metadata = nil
				return n
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Matches(tt.notification(baseNotification()), tt.subscription(baseSubscription()))
			if got != tt.want {
				t.Errorf("Matches: got %v, want %v", got, tt.want)
			}
		})
	}
}

// Matching must be monotonic in severity: lowering a notification that
// still clears the threshold keeps the match; raising the threshold above
// the notification breaks it.
func TestMatches_SeverityMonotonic(t *testing.T) {
	sub := baseSubscription()
	sub.MinSeverity = domain.SeverityInfo

	n := baseNotification()
	n.Severity = domain.SeverityCritical
	if !Matches(n, sub) {
		t.Fatal("critical should match minSeverity=info")
	}

	n.Severity = domain.SeverityWarning
	if !Matches(n, sub) {
		t.Error("warning should still match minSeverity=info")
	}

	sub.MinSeverity = domain.SeverityCritical
	if Matches(n, sub) {
		t.Error("warning must not match minSeverity=critical")
	}
}

func TestMatch_CollectsOnlyMatching(t *testing.T) {
	active := baseSubscription()
	inactive := baseSubscription()
	inactive.ID = "sub-2"
	inactive.Active = false
	strict := baseSubscription()
	strict.ID = "sub-3"
	strict.MinSeverity = domain.SeverityCritical

	matched := Match(baseNotification(), []domain.Subscription{active, inactive, strict})
	if len(matched) != 1 || matched[0].ID != "sub-1" {
		t.Errorf("expected only sub-1 to match, got %v", matched)
	}
}
