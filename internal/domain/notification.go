package domain

import (
	"encoding/json"
	"time"
)

// Severity is an ordinal urgency used as a minimum-threshold filter.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityCritical: 2,
}

// Rank returns the ordinal position of the severity. Unknown severities
// rank below info so they never satisfy a threshold by accident.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Metadata is an opaque JSON blob attached to a notification. Fields are
// read only through typed accessors; nothing else interprets the contents.
type Metadata json.RawMessage

func (m Metadata) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	*m = append((*m)[0:0], data...)
	return nil
}

// ComponentID extracts the componentId field, if present. Returns "" when
// the metadata is empty, malformed, or carries no component id.
func (m Metadata) ComponentID() string {
	if len(m) == 0 {
		return ""
	}
	var probe struct {
		ComponentID string `json:"componentId"`
	}
	if err := json.Unmarshal(m, &probe); err != nil {
		return ""
	}
	return probe.ComponentID
}

// Notification is a user-facing message, either derived from a ChangeEvent
// or created directly. Immutable except for read state, which lives in the
// notification store.
type Notification struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
