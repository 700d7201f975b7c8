package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tessera-labs/design-notify/internal/domain"
)

func makeEvent(id string, source domain.Source, kind domain.EventKind, at time.Time) domain.ChangeEvent {
	return domain.ChangeEvent{
		ID:         id,
		Kind:       kind,
		Source:     source,
		OccurredAt: at,
		Payload:    []byte(`{}`),
	}
}

func TestEventLog_QueryNewestFirst(t *testing.T) {
	log := NewEventLog()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		log.Append(makeEvent(fmt.Sprintf("evt-%d", i), domain.SourceManual, domain.KindComponentUpdated, base.Add(time.Duration(i)*time.Second)))
	}

	events := log.Query(EventFilter{})
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	for i, e := range events {
		want := fmt.Sprintf("evt-%d", 4-i)
		if e.ID != want {
			t.Errorf("position %d: got %q, want %q", i, e.ID, want)
		}
	}
}

func TestEventLog_Filters(t *testing.T) {
	log := NewEventLog()
	now := time.Now().UTC()

	log.Append(makeEvent("e1", domain.SourceDesignTool, domain.KindComponentUpdated, now))
	log.Append(makeEvent("e2", domain.SourceManual, domain.KindComponentUpdated, now))
	log.Append(makeEvent("e3", domain.SourceDesignTool, domain.KindVersionPublished, now))

	tests := []struct {
		name    string
		filter  EventFilter
		wantIDs []string
	}{
		{"by source", EventFilter{Source: domain.SourceDesignTool}, []string{"e3", "e1"}},
		{"by kind", EventFilter{Kind: domain.KindComponentUpdated}, []string{"e2", "e1"}},
		{"by both", EventFilter{Source: domain.SourceDesignTool, Kind: domain.KindComponentUpdated}, []string{"e1"}},
		{"no match", EventFilter{Source: domain.SourceAIGenerated}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := log.Query(tt.filter)
			if len(events) != len(tt.wantIDs) {
				t.Fatalf("expected %d events, got %d", len(tt.wantIDs), len(events))
			}
			for i, id := range tt.wantIDs {
				if events[i].ID != id {
					t.Errorf("position %d: got %q, want %q", i, events[i].ID, id)
				}
			}
		})
	}
}

func TestEventLog_LimitDefaultAndCap(t *testing.T) {
	log := NewEventLog()
	now := time.Now().UTC()
	for i := 0; i < 600; i++ {
		log.Append(makeEvent(fmt.Sprintf("evt-%d", i), domain.SourceManual, domain.KindComponentUpdated, now))
	}

	if got := len(log.Query(EventFilter{})); got != DefaultQueryLimit {
		t.Errorf("default limit: got %d events, want %d", got, DefaultQueryLimit)
	}
	if got := len(log.Query(EventFilter{Limit: 10})); got != 10 {
		t.Errorf("explicit limit: got %d events, want 10", got)
	}
	if got := len(log.Query(EventFilter{Limit: 9999})); got != MaxQueryLimit {
		t.Errorf("capped limit: got %d events, want %d", got, MaxQueryLimit)
	}
}

func TestEventLog_ConcurrentAppendAndQuery(t *testing.T) {
	log := NewEventLog()
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Append(makeEvent(fmt.Sprintf("evt-%d-%d", n, j), domain.SourceManual, domain.KindComponentUpdated, now))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Query(EventFilter{Limit: 20})
			}
		}()
	}
	wg.Wait()

	if got := log.Len(); got != 1000 {
		t.Errorf("expected 1000 events after concurrent appends, got %d", got)
	}
}
