// Package handlers provides HTTP handlers for budget profiles.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/budgetopt/internal/modules/budget"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProfileStore is the subset of budget.Repository the handlers need.
type ProfileStore interface {
	Create(ctx context.Context, in budget.ProfileInput) (*budget.Profile, error)
	Update(ctx context.Context, id int64, upd budget.ProfileUpdate) (*budget.Profile, error)
	GetByID(ctx context.Context, id int64) (*budget.Profile, error)
	List(ctx context.Context) ([]*budget.Profile, error)
	Delete(ctx context.Context, id int64) error
}

// Handler handles budget profile HTTP requests
type Handler struct {
	store ProfileStore
	log   zerolog.Logger
}

// NewHandler creates a new budget handler
func NewHandler(store ProfileStore, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("handler", "budget").Logger(),
	}
}

// HandleCreate handles POST /api/budget/profiles
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in budget.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.store.Create(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err, "Failed to create profile")
		return
	}
	h.writeJSON(w, http.StatusCreated, profile)
}

// HandleList handles GET /api/budget/profiles
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "Failed to list profiles")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// HandleGet handles GET /api/budget/profiles/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	profile, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "Failed to get profile")
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// HandleUpdate handles PUT /api/budget/profiles/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	var upd budget.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.store.Update(r.Context(), id, upd)
	if err != nil {
		h.writeStoreError(w, err, "Failed to update profile")
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// HandleDelete handles DELETE /api/budget/profiles/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "Failed to delete profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) profileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid profile id")
		return 0, false
	}
	return id, true
}

// writeStoreError maps repository errors onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, budget.ErrProfileNotFound):
		h.writeError(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, optimization.ErrInvalidModel):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error().Err(err).Msg(message)
		h.writeError(w, http.StatusInternalServerError, message)
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
