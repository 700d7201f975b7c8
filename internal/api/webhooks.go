package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/engine"
	"github.com/tessera-labs/design-notify/internal/ingest"
	"github.com/tessera-labs/design-notify/internal/metrics"
)

// maxWebhookBody bounds inbound payload size.
const maxWebhookBody = 1 << 20

// WebhookHandler receives authenticated change events from the design
// tool.
type WebhookHandler struct {
	pipeline *engine.Pipeline
	secret   string
	logger   *slog.Logger
}

func NewWebhookHandler(pipeline *engine.Pipeline, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{pipeline: pipeline, secret: secret, logger: logger}
}

type ingestResponse struct {
	EventID   string `json:"event_id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Matched   int    `json:"matched"`
	Delivered int    `json:"delivered"`
	Failed    int    `json:"failed"`
}

// Receive handles POST /webhooks/design-tool. The signature covers the
// exact raw body bytes; verification failure is an opaque 401 and nothing
// of the payload is processed or logged beyond the audit counter.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed_body", "could not read request body")
		return
	}

	if !ingest.VerifySignature(body, r.Header.Get("X-Signature"), h.secret) {
		metrics.SignaturesRejected.Inc()
		respondError(w, http.StatusUnauthorized, "unauthorized", "signature verification failed")
		return
	}

	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "malformed_json", "body must be valid JSON")
		return
	}

	result, err := h.pipeline.Ingest(r.Context(), domain.SourceDesignTool, body)
	if errors.Is(err, domain.ErrUnrecognizedEvent) {
		// Unknown upstream event types are acknowledged and ignored so the
		// integration survives new event types without redeploys.
		metrics.UnrecognizedEvents.Inc()
		respondJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		h.logger.Error("webhook ingestion failed", "error", err)
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
