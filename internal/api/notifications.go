package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/engine"
	"github.com/tessera-labs/design-notify/internal/store"
)

type NotificationHandler struct {
	pipeline *engine.Pipeline
	store    *store.NotificationStore
}

func NewNotificationHandler(pipeline *engine.Pipeline, s *store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{pipeline: pipeline, store: s}
}

type listNotificationsResponse struct {
	Notifications []store.OwnerNotification `json:"notifications"`
	UnreadCount   int                       `json:"unread_count"`
}

// ListByOwner handles GET /notifications/{ownerId}?unreadOnly&limit.
func (h *NotificationHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerId")
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	limit := parseLimit(r.URL.Query().Get("limit"))

	notifications, unread := h.store.ListByOwner(ownerID, unreadOnly, limit)
	respondJSON(w, http.StatusOK, listNotificationsResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	})
}

type markReadRequest struct {
	OwnerID         string   `json:"owner_id"`
	NotificationIDs []string `json:"notification_ids"`
}

type markReadResponse struct {
	Marked int `json:"marked"`
}

// MarkRead handles POST /notifications/mark-read. Ids that do not exist or
// are not addressed to the owner are silently skipped; the response counts
// what was actually marked.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "invalid request body")
		return
	}
	if req.OwnerID == "" {
		respondValidationError(w, "owner_id", "is required")
		return
	}

	marked := h.store.MarkRead(req.OwnerID, req.NotificationIDs)
	respondJSON(w, http.StatusOK, markReadResponse{Marked: marked})
}

type sendNotificationRequest struct {
	Kind     domain.EventKind `json:"kind"`
	Severity domain.Severity  `json:"severity"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Metadata domain.Metadata  `json:"metadata,omitempty"`
}

type sendNotificationResponse struct {
	NotificationID string                `json:"notification_id"`
	Report         domain.DispatchReport `json:"report"`
}

// Send handles POST /notifications/send: a directly-created notification
// runs through matching and dispatch synchronously, and the caller gets
// the full report. Delivery failures are visible only inside the report,
// never as a request failure.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "invalid request body")
		return
	}

	if !req.Kind.Valid() {
		respondValidationError(w, "kind", "must be a known event kind")
		return
	}
	if !req.Severity.Valid() {
		respondValidationError(w, "severity", "must be one of info, warning, critical")
		return
	}
	if req.Title == "" {
		respondValidationError(w, "title", "is required")
		return
	}

	n := domain.Notification{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		Severity:  req.Severity,
		Title:     req.Title,
		Message:   req.Message,
		Metadata:  req.Metadata,
		CreatedAt: time.Now().UTC(),
	}

	report := h.pipeline.Send(r.Context(), n)
	respondJSON(w, http.StatusOK, sendNotificationResponse{
		NotificationID: n.ID,
		Report:         report,
	})
}
