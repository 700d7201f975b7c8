package store

import (
	"errors"
	"testing"

	"github.com/tessera-labs/design-notify/internal/domain"
)

func validCreateRequest() domain.CreateSubscriptionRequest {
	return domain.CreateSubscriptionRequest{
		OwnerID:  "owner-1",
		Channels: []domain.Channel{domain.ChannelWebhook},
		ChannelEndpoints: map[domain.Channel]string{
			domain.ChannelWebhook: "https://example.com/hook",
		},
	}
}

func TestSubscriptionStore_CreateDefaults(t *testing.T) {
	s := NewSubscriptionStore()

	sub, err := s.Create(validCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if sub.ID == "" {
		t.Error("created subscription must have an id")
	}
	if !sub.Active {
		t.Error("new subscriptions should be active")
	}
	if sub.MinSeverity != domain.SeverityInfo {
		t.Errorf("default min severity should be info, got %q", sub.MinSeverity)
	}
	if len(sub.EventKinds) != 0 {
		t.Errorf("omitted event kinds should default to the all-kinds wildcard, got %v", sub.EventKinds)
	}
}

func TestSubscriptionStore_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.CreateSubscriptionRequest)
		wantField string
	}{
		{
			name:      "missing owner",
			mutate:    func(r *domain.CreateSubscriptionRequest) { r.OwnerID = "" },
			wantField: "owner_id",
		},
		{
			name:      "empty channels",
			mutate:    func(r *domain.CreateSubscriptionRequest) { r.Channels = nil },
			wantField: "channels",
		},
		{
			name: "unknown channel",
			mutate: func(r *domain.CreateSubscriptionRequest) {
				r.Channels = []domain.Channel{"carrier-pigeon"}
			},
			wantField: "channels",
		},
		{
			name: "channel without endpoint",
			mutate: func(r *domain.CreateSubscriptionRequest) {
				r.Channels = append(r.Channels, domain.ChannelSlack)
			},
			wantField: "channel_endpoints",
		},
		{
			name: "bad severity",
			mutate: func(r *domain.CreateSubscriptionRequest) {
				r.MinSeverity = "urgent"
			},
			wantField: "min_severity",
		},
		{
			name: "unknown event kind",
			mutate: func(r *domain.CreateSubscriptionRequest) {
				r.EventKinds = []domain.EventKind{"component.renamed"}
			},
			wantField: "event_kinds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSubscriptionStore()
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := s.Create(req)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("validation field: got %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestSubscriptionStore_UpdateShallowMerge(t *testing.T) {
	s := NewSubscriptionStore()
	sub, err := s.Create(validCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	severity := domain.SeverityCritical
	updated, err := s.Update(sub.ID, domain.UpdateSubscriptionRequest{MinSeverity: &severity})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.MinSeverity != domain.SeverityCritical {
		t.Errorf("min severity should be updated, got %q", updated.MinSeverity)
	}
	// Unspecified fields retain prior values
	if updated.OwnerID != sub.OwnerID {
		t.Errorf("owner should be untouched, got %q", updated.OwnerID)
	}
	if len(updated.Channels) != 1 || updated.Channels[0] != domain.ChannelWebhook {
		t.Errorf("channels should be untouched, got %v", updated.Channels)
	}
	if !updated.Active {
		t.Error("active should be untouched")
	}
}

func TestSubscriptionStore_UpdateRevalidatesMerge(t *testing.T) {
	s := NewSubscriptionStore()
	sub, err := s.Create(validCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Emptying the channel set would leave the subscription invalid; the
	// merge must be rejected and the stored record unchanged.
	empty := []domain.Channel{}
	_, err = s.Update(sub.ID, domain.UpdateSubscriptionRequest{Channels: &empty})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	stored, err := s.Get(sub.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Channels) != 1 {
		t.Errorf("rejected update must not be committed, channels = %v", stored.Channels)
	}
}

func TestSubscriptionStore_UpdateNotFound(t *testing.T) {
	s := NewSubscriptionStore()

	active := false
	_, err := s.Update("no-such-id", domain.UpdateSubscriptionRequest{Active: &active})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubscriptionStore_DeleteTwice(t *testing.T) {
	s := NewSubscriptionStore()
	sub, err := s.Create(validCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.Delete(sub.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if _, err := s.Get(sub.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get after delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(sub.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSubscriptionStore_ListByOwner(t *testing.T) {
	s := NewSubscriptionStore()

	if _, err := s.Create(validCreateRequest()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other := validCreateRequest()
	other.OwnerID = "owner-2"
	if _, err := s.Create(other); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if got := len(s.ListByOwner("owner-1")); got != 1 {
		t.Errorf("owner-1 should have 1 subscription, got %d", got)
	}
	if got := len(s.ListByOwner("owner-3")); got != 0 {
		t.Errorf("unknown owner should have 0 subscriptions, got %d", got)
	}
}
