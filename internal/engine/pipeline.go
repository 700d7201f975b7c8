package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/ingest"
	"github.com/tessera-labs/design-notify/internal/metrics"
	"github.com/tessera-labs/design-notify/internal/store"
)

// Pipeline wires normalization, the event log, matching and dispatch into
// the ingest-to-delivery flow. The API layer owns authentication; the
// pipeline assumes its input already passed the ingress filter.
type Pipeline struct {
	log           *store.EventLog
	dedup         store.DedupStore
	subscriptions *store.SubscriptionStore
	notifications *store.NotificationStore
	dispatcher    *Dispatcher
	logger        *slog.Logger
}

func NewPipeline(
	log *store.EventLog,
	dedup store.DedupStore,
	subscriptions *store.SubscriptionStore,
	notifications *store.NotificationStore,
	dispatcher *Dispatcher,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		log:           log,
		dedup:         dedup,
		subscriptions: subscriptions,
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// IngestResult is what a successful ingestion reports back to the caller.
type IngestResult struct {
	EventID   string
	Duplicate bool
	Report    domain.DispatchReport
}

// Ingest normalizes a verified payload, appends it to the event log,
// derives a notification and dispatches it. A redelivered upstream event
// (same idempotency key) is acknowledged with the original event id and
// triggers nothing. Returns domain.ErrUnrecognizedEvent for event types
// the normalizer does not map; callers must treat that as a no-op success.
func (p *Pipeline) Ingest(ctx context.Context, source domain.Source, rawPayload []byte) (*IngestResult, error) {
	event, err := ingest.Normalize(source, rawPayload)
	if err != nil {
		return nil, err
	}

	if key := ingest.DedupKey(source, rawPayload); key != "" {
		existingID, duplicate, err := p.dedup.Remember(ctx, key, event.ID)
		if err != nil {
			// Dedup is best-effort; losing it degrades to at-least-once,
			// which is the baseline guarantee anyway.
			p.logger.Error("dedup check failed", "error", err, "event_id", event.ID)
		} else if duplicate {
			metrics.DuplicatesSuppressed.Inc()
			p.logger.Info("duplicate event suppressed", "event_id", existingID, "source", source)
			return &IngestResult{EventID: existingID, Duplicate: true}, nil
		}
	}

	p.log.Append(*event)
	metrics.EventsIngested.WithLabelValues(string(event.Source), string(event.Kind)).Inc()

	report := p.Send(ctx, notificationFromEvent(event))
	return &IngestResult{EventID: event.ID, Report: report}, nil
}

// Send matches the notification against every subscription, stores it
// addressed to the matched owners, and dispatches it. Delivery failures
// never fail the call; they surface only inside the report.
func (p *Pipeline) Send(ctx context.Context, n domain.Notification) domain.DispatchReport {
	matched := Match(n, p.subscriptions.All())

	recipients := ownerIDs(matched)
	p.notifications.Add(n, recipients)

	return p.dispatcher.Dispatch(ctx, n, matched)
}

// notificationFromEvent derives the user-facing notification for a change
// event. The severity heuristic mirrors the version-impact one: deletions
// and breaking changes warrant attention, the rest is informational.
func notificationFromEvent(event *domain.ChangeEvent) domain.Notification {
	severity := domain.SeverityInfo
	if event.Kind == domain.KindComponentDeleted || event.VersionImpact == domain.ImpactMajor {
		severity = domain.SeverityWarning
	}

	fileKey, fileName := ingest.EnvelopeOf(event.Payload)
	subject := fileName
	if subject == "" {
		subject = fileKey
	}

	metadata := fmt.Sprintf(`{"componentId":%q,"fileName":%q,"eventId":%q}`,
		fileKey, fileName, event.ID)

	return domain.Notification{
		ID:        uuid.NewString(),
		Kind:      event.Kind,
		Severity:  severity,
		Title:     title(event.Kind, subject),
		Message:   fmt.Sprintf("%s (source: %s, impact: %s)", title(event.Kind, subject), event.Source, event.VersionImpact),
		Metadata:  domain.Metadata(metadata),
		CreatedAt: time.Now().UTC(),
	}
}

func title(kind domain.EventKind, subject string) string {
	var verb string
	switch kind {
	case domain.KindComponentCreated:
		verb = "Component created"
	case domain.KindComponentUpdated:
		verb = "Component updated"
	case domain.KindComponentDeleted:
		verb = "Component deleted"
	case domain.KindVersionPublished:
		verb = "Version published"
	default:
		verb = "Change"
	}
	if subject == "" {
		return verb
	}
	return verb + ": " + subject
}

func ownerIDs(subs []domain.Subscription) []string {
	seen := make(map[string]struct{}, len(subs))
	owners := []string{}
	for _, sub := range subs {
		if _, ok := seen[sub.OwnerID]; ok {
			continue
		}
		seen[sub.OwnerID] = struct{}{}
		owners = append(owners, sub.OwnerID)
	}
	return owners
}
