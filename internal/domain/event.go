package domain

import (
	"encoding/json"
	"time"
)

// EventKind classifies what changed upstream.
type EventKind string

const (
	KindComponentCreated EventKind = "component.created"
	KindComponentUpdated EventKind = "component.updated"
	KindComponentDeleted EventKind = "component.deleted"
	KindVersionPublished EventKind = "version.published"
)

// EventKinds lists every valid kind.
var EventKinds = []EventKind{
	KindComponentCreated,
	KindComponentUpdated,
	KindComponentDeleted,
	KindVersionPublished,
}

func (k EventKind) Valid() bool {
	for _, known := range EventKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Source identifies where a change event originated.
type Source string

const (
	SourceDesignTool  Source = "design-tool"
	SourceManual      Source = "manual"
	SourceAIGenerated Source = "ai-generated"
)

func (s Source) Valid() bool {
	switch s {
	case SourceDesignTool, SourceManual, SourceAIGenerated:
		return true
	}
	return false
}

// VersionImpact is an advisory changelog hint. It never gates delivery.
type VersionImpact string

const (
	ImpactMajor VersionImpact = "major"
	ImpactMinor VersionImpact = "minor"
	ImpactPatch VersionImpact = "patch"
)

// ChangeEvent is the normalized, source-agnostic record of an upstream
// change. Immutable once appended to the event log.
type ChangeEvent struct {
	ID            string          `json:"id"`
	Kind          EventKind       `json:"kind"`
	Source        Source          `json:"source"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	VersionImpact VersionImpact   `json:"version_impact,omitempty"`
}
