package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tessera-labs/design-notify/internal/domain"
)

// kindTable maps each known (source, upstream event type) pair to an
// internal kind. Anything absent from the table is unrecognized and
// intentionally ignored, so new upstream event types never break ingestion.
var kindTable = map[domain.Source]map[string]domain.EventKind{
	domain.SourceDesignTool: {
		"FILE_UPDATE":         domain.KindComponentUpdated,
		"FILE_DELETE":         domain.KindComponentDeleted,
		"FILE_VERSION_UPDATE": domain.KindVersionPublished,
		"LIBRARY_PUBLISH":     domain.KindVersionPublished,
	},
	domain.SourceManual: {
		string(domain.KindComponentCreated): domain.KindComponentCreated,
		string(domain.KindComponentUpdated): domain.KindComponentUpdated,
		string(domain.KindComponentDeleted): domain.KindComponentDeleted,
		string(domain.KindVersionPublished): domain.KindVersionPublished,
	},
	domain.SourceAIGenerated: {
		string(domain.KindComponentCreated): domain.KindComponentCreated,
		string(domain.KindComponentUpdated): domain.KindComponentUpdated,
		string(domain.KindComponentDeleted): domain.KindComponentDeleted,
		string(domain.KindVersionPublished): domain.KindVersionPublished,
	},
}

// payloadEnvelope is the subset of the inbound payload the normalizer
// interprets. Unknown fields ride along untouched inside the raw payload.
type payloadEnvelope struct {
	EventType      string `json:"event_type"`
	FileKey        string `json:"file_key"`
	FileName       string `json:"file_name"`
	Timestamp      string `json:"timestamp"`
	BreakingChange bool   `json:"breaking_change"`
}

// Normalize maps a source-specific payload into an internal ChangeEvent.
// occurred_at is server time, never the payload's own timestamp, so the
// audit ordering stays consistent regardless of upstream clock skew.
// Returns domain.ErrUnrecognizedEvent for unknown (source, event_type)
// combinations; callers treat that as a successful no-op.
func Normalize(source domain.Source, rawPayload []byte) (*domain.ChangeEvent, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(rawPayload, &env); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}

	kinds, ok := kindTable[source]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", source)
	}
	kind, ok := kinds[env.EventType]
	if !ok {
		return nil, domain.ErrUnrecognizedEvent
	}

	return &domain.ChangeEvent{
		ID:            uuid.NewString(),
		Kind:          kind,
		Source:        source,
		OccurredAt:    time.Now().UTC(),
		Payload:       append(json.RawMessage(nil), rawPayload...),
		VersionImpact: deriveImpact(env),
	}, nil
}

// deriveImpact is a source heuristic for changelog classification.
// Advisory metadata only; it never gates delivery.
func deriveImpact(env payloadEnvelope) domain.VersionImpact {
	if env.BreakingChange {
		return domain.ImpactMajor
	}
	if env.EventType == "LIBRARY_PUBLISH" || env.EventType == string(domain.KindVersionPublished) {
		return domain.ImpactMinor
	}
	return domain.ImpactPatch
}

// DedupKey derives an idempotency key for an inbound payload from the
// upstream identifiers. Empty when the payload carries no usable identity,
// in which case redelivery suppression is skipped for that event.
func DedupKey(source domain.Source, rawPayload []byte) string {
	var env payloadEnvelope
	if err := json.Unmarshal(rawPayload, &env); err != nil {
		return ""
	}
	if env.FileKey == "" || env.Timestamp == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s:%s", source, env.FileKey, env.EventType, env.Timestamp)
}

// EnvelopeOf exposes the interpreted fields of a payload for callers that
// build notifications out of events.
func EnvelopeOf(rawPayload []byte) (fileKey, fileName string) {
	var env payloadEnvelope
	if err := json.Unmarshal(rawPayload, &env); err != nil {
		return "", ""
	}
	return env.FileKey, env.FileName
}
