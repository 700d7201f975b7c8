package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/store"
)

type SubscriptionHandler struct {
	store *store.SubscriptionStore
}

func NewSubscriptionHandler(s *store.SubscriptionStore) *SubscriptionHandler {
	return &SubscriptionHandler{store: s}
}

// Create handles POST /subscribe.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "invalid request body")
		return
	}

	sub, err := h.store.Create(req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

// ListByOwner handles GET /subscriptions/{ownerId}.
func (h *SubscriptionHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerId")
	respondJSON(w, http.StatusOK, h.store.ListByOwner(ownerID))
}

// Update handles PATCH /subscriptions/{id}.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "invalid request body")
		return
	}

	sub, err := h.store.Update(id, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

// Delete handles DELETE /subscriptions/{id}.
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidationError(w, verr.Field, verr.Reason)
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "subscription not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "unexpected failure")
	}
}
