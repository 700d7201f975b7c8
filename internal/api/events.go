package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/engine"
	"github.com/tessera-labs/design-notify/internal/metrics"
	"github.com/tessera-labs/design-notify/internal/store"
)

// EventHandler covers manual/AI-origin event submission and the audit
// query over the event log.
type EventHandler struct {
	pipeline *engine.Pipeline
	log      *store.EventLog
	logger   *slog.Logger
}

func NewEventHandler(pipeline *engine.Pipeline, log *store.EventLog, logger *slog.Logger) *EventHandler {
	return &EventHandler{pipeline: pipeline, log: log, logger: logger}
}

type submitEventRequest struct {
	Source  domain.Source   `json:"source"`
	Payload json.RawMessage `json:"payload"`
}

// Create handles POST /events: the same normalization pipeline as the
// design-tool webhook under a different source tag. No signature here; the
// trust boundary is the caller's own authentication, upstream of this
// handler.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed_body", "could not read request body")
		return
	}

	var req submitEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "body must be valid JSON")
		return
	}

	switch req.Source {
	case domain.SourceManual, domain.SourceAIGenerated:
	case domain.SourceDesignTool:
		respondValidationError(w, "source", "design-tool events must arrive via the signed webhook")
		return
	default:
		respondValidationError(w, "source", "must be manual or ai-generated")
		return
	}
	if len(req.Payload) == 0 {
		respondValidationError(w, "payload", "is required")
		return
	}

	result, err := h.pipeline.Ingest(r.Context(), req.Source, req.Payload)
	if errors.Is(err, domain.ErrUnrecognizedEvent) {
		metrics.UnrecognizedEvents.Inc()
		respondJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		h.logger.Error("event submission failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to process event")
		return
	}

	respondJSON(w, http.StatusOK, ingestResponse{
		EventID:   result.EventID,
		Duplicate: result.Duplicate,
		Matched:   result.Report.Matched,
		Delivered: result.Report.Delivered,
		Failed:    result.Report.Failed,
	})
}

// List handles GET /events?source&kind&limit over the append-only log.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.EventFilter{
		Source: domain.Source(r.URL.Query().Get("source")),
		Kind:   domain.EventKind(r.URL.Query().Get("kind")),
		Limit:  parseLimit(r.URL.Query().Get("limit")),
	}

	respondJSON(w, http.StatusOK, h.log.Query(filter))
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
