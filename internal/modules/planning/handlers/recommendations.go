package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// RecommendationsHandler serves advice for a profile's latest result.
type RecommendationsHandler struct {
	service PlanningService
	log     zerolog.Logger
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(service PlanningService, log zerolog.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{
		service: service,
		log:     log.With().Str("handler", "recommendations").Logger(),
	}
}

// ServeHTTP handles GET /api/optimize/profiles/{id}/recommendations
func (h *RecommendationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r, h.log)
	if !ok {
		return
	}

	recs, err := h.service.Recommendations(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to build recommendations")
		return
	}
	writeJSON(w, h.log, http.StatusOK, recs)
}

// HistoryHandler lists stored results of a profile.
type HistoryHandler struct {
	service      PlanningService
	defaultLimit int
	log          zerolog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service PlanningService, defaultLimit int, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service:      service,
		defaultLimit: defaultLimit,
		log:          log.With().Str("handler", "history").Logger(),
	}
}

// ServeHTTP handles GET /api/optimize/profiles/{id}/history?limit=N
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r, h.log)
	if !ok {
		return
	}

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	results, err := h.service.History(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load history")
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}
