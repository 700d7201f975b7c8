package store

import (
	"sync"

	"github.com/tessera-labs/design-notify/internal/domain"
)

// OwnerNotification is a notification as seen by one owner, with that
// owner's read state resolved.
type OwnerNotification struct {
	domain.Notification
	Read bool `json:"read"`
}

type notificationRecord struct {
	notification domain.Notification
	recipients   map[string]struct{}
	readBy       map[string]struct{}
}

// NotificationStore retains every created notification together with the
// owners it was addressed to at dispatch time and their read
// acknowledgments. Notifications are immutable except for read state.
type NotificationStore struct {
	mu      sync.RWMutex
	ordered []*notificationRecord
	byID    map[string]*notificationRecord
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{byID: make(map[string]*notificationRecord)}
}

// Add stores a notification addressed to the given owners. A notification
// that matched nobody is retained (the log is an audit trail) but listed
// for no owner.
func (s *NotificationStore) Add(n domain.Notification, recipients []string) {
	rec := &notificationRecord{
		notification: n,
		recipients:   make(map[string]struct{}, len(recipients)),
		readBy:       make(map[string]struct{}),
	}
	for _, owner := range recipients {
		rec.recipients[owner] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordered = append(s.ordered, rec)
	s.byID[n.ID] = rec
}

// ListByOwner returns the owner's notifications, most recent first, plus
// the owner's total unread count. The unread count covers the whole
// collection, not just the returned page.
func (s *NotificationStore) ListByOwner(ownerID string, unreadOnly bool, limit int) ([]OwnerNotification, int) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []OwnerNotification{}
	unread := 0
	for i := len(s.ordered) - 1; i >= 0; i-- {
		rec := s.ordered[i]
		if _, addressed := rec.recipients[ownerID]; !addressed {
			continue
		}
		_, read := rec.readBy[ownerID]
		if !read {
			unread++
		}
		if unreadOnly && read {
			continue
		}
		if len(results) < limit {
			results = append(results, OwnerNotification{Notification: rec.notification, Read: read})
		}
	}
	return results, unread
}

// MarkRead records the owner's read acknowledgment for each id and returns
// how many notifications were actually marked. Unknown ids and ids not
// addressed to the owner are silently skipped: read-marking is idempotent
// and partial matches are expected under concurrent updates.
func (s *NotificationStore) MarkRead(ownerID string, ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	marked := 0
	for _, id := range ids {
		rec, ok := s.byID[id]
		if !ok {
			continue
		}
		if _, addressed := rec.recipients[ownerID]; !addressed {
			continue
		}
		if _, already := rec.readBy[ownerID]; already {
			continue
		}
		rec.readBy[ownerID] = struct{}{}
		marked++
	}
	return marked
}
