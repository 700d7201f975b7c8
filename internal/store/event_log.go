package store

import (
	"sync"

	"github.com/tessera-labs/design-notify/internal/domain"
)

const (
	// DefaultQueryLimit bounds event queries that name no limit.
	DefaultQueryLimit = 50
	// MaxQueryLimit is the hard cap on any single query.
	MaxQueryLimit = 500
)

// EventFilter narrows an event log query. Zero values mean "any".
type EventFilter struct {
	Source domain.Source
	Kind   domain.EventKind
	Limit  int
}

// EventLog is an append-only, in-memory record of normalized change
// events. Appends are serialized; queries take a consistent snapshot and
// may run concurrently with appends.
type EventLog struct {
	mu     sync.RWMutex
	events []domain.ChangeEvent
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append adds an event to the log. Events are never mutated or removed.
func (l *EventLog) Append(event domain.ChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Query returns events matching the filter, most recent first. The result
// is truncated to the filter limit (default 50, capped at 500).
func (l *EventLog) Query(filter EventFilter) []domain.ChangeEvent {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	results := make([]domain.ChangeEvent, 0, limit)
	for i := len(l.events) - 1; i >= 0 && len(results) < limit; i-- {
		e := l.events[i]
		if filter.Source != "" && e.Source != filter.Source {
			continue
		}
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		results = append(results, e)
	}
	return results
}

// Len reports the total number of appended events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
