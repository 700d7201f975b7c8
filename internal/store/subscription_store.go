package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tessera-labs/design-notify/internal/domain"
)

// SubscriptionStore owns the subscription collection. All access goes
// through its methods; writes are serialized per store, reads take
// snapshots so matching never observes a half-applied update.
type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]domain.Subscription
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[string]domain.Subscription)}
}

// Create validates and registers a new subscription. New subscriptions are
// active; an omitted kind filter means all kinds; an omitted minimum
// severity defaults to info.
func (s *SubscriptionStore) Create(req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	now := time.Now().UTC()
	sub := domain.Subscription{
		ID:               uuid.NewString(),
		OwnerID:          req.OwnerID,
		Active:           true,
		Channels:         append([]domain.Channel(nil), req.Channels...),
		ChannelEndpoints: cloneEndpoints(req.ChannelEndpoints),
		EventKinds:       append([]domain.EventKind(nil), req.EventKinds...),
		MinSeverity:      req.MinSeverity,
		ComponentFilter:  append([]string(nil), req.ComponentFilter...),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if sub.MinSeverity == "" {
		sub.MinSeverity = domain.SeverityInfo
	}

	if err := validate(sub); err != nil {
		return domain.Subscription{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
	return sub, nil
}

// Get returns the subscription with the given id.
func (s *SubscriptionStore) Get(id string) (domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[id]
	if !ok {
		return domain.Subscription{}, domain.ErrNotFound
	}
	return sub, nil
}

// ListByOwner returns every subscription registered by the owner, newest
// first.
func (s *SubscriptionStore) ListByOwner(ownerID string) []domain.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []domain.Subscription{}
	for _, sub := range s.subs {
		if sub.OwnerID == ownerID {
			results = append(results, sub)
		}
	}
	sortByCreatedDesc(results)
	return results
}

// All returns a snapshot of every subscription, for matching.
func (s *SubscriptionStore) All() []domain.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		results = append(results, sub)
	}
	return results
}

// Update applies a shallow merge of the provided fields and re-validates
// the merged result before committing, so a valid subscription can never
// be left invalid by a partial update.
func (s *SubscriptionStore) Update(id string, req domain.UpdateSubscriptionRequest) (domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return domain.Subscription{}, domain.ErrNotFound
	}

	merged := sub
	if req.Active != nil {
		merged.Active = *req.Active
	}
	if req.Channels != nil {
		merged.Channels = append([]domain.Channel(nil), (*req.Channels)...)
	}
	if req.ChannelEndpoints != nil {
		merged.ChannelEndpoints = cloneEndpoints(*req.ChannelEndpoints)
	}
	if req.EventKinds != nil {
		merged.EventKinds = append([]domain.EventKind(nil), (*req.EventKinds)...)
	}
	if req.MinSeverity != nil {
		merged.MinSeverity = *req.MinSeverity
	}
	if req.ComponentFilter != nil {
		merged.ComponentFilter = append([]string(nil), (*req.ComponentFilter)...)
	}
	merged.UpdatedAt = time.Now().UTC()

	if err := validate(merged); err != nil {
		return domain.Subscription{}, err
	}

	s.subs[id] = merged
	return merged, nil
}

// Delete removes the subscription. Deleting an unknown id is ErrNotFound,
// not a silent no-op, so callers can detect stale references.
func (s *SubscriptionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.subs, id)
	return nil
}

func validate(sub domain.Subscription) error {
	if sub.OwnerID == "" {
		return &domain.ValidationError{Field: "owner_id", Reason: "is required"}
	}
	if len(sub.Channels) == 0 {
		return &domain.ValidationError{Field: "channels", Reason: "at least one channel is required"}
	}
	for _, ch := range sub.Channels {
		if !ch.Valid() {
			return &domain.ValidationError{Field: "channels", Reason: "unknown channel " + string(ch)}
		}
		if sub.ChannelEndpoints[ch] == "" {
			return &domain.ValidationError{Field: "channel_endpoints", Reason: "missing endpoint for channel " + string(ch)}
		}
	}
	if !sub.MinSeverity.Valid() {
		return &domain.ValidationError{Field: "min_severity", Reason: "must be one of info, warning, critical"}
	}
	for _, k := range sub.EventKinds {
		if !k.Valid() {
			return &domain.ValidationError{Field: "event_kinds", Reason: "unknown kind " + string(k)}
		}
	}
	return nil
}

func cloneEndpoints(in map[domain.Channel]string) map[domain.Channel]string {
	out := make(map[domain.Channel]string, len(in))
	for ch, ep := range in {
		out[ch] = ep
	}
	return out
}

func sortByCreatedDesc(subs []domain.Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
}
