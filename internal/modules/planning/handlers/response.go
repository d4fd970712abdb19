package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aristath/budgetopt/internal/modules/budget"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, log zerolog.Logger, status int, message string) {
	writeJSON(w, log, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps planning errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error, message string) {
	switch {
	case errors.Is(err, budget.ErrProfileNotFound):
		writeError(w, log, http.StatusNotFound, "Budget profile not found")
	case errors.Is(err, budget.ErrGoalNotFound):
		writeError(w, log, http.StatusNotFound, "Financial goal not found")
	case errors.Is(err, optimization.ErrInvalidModel):
		writeError(w, log, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Msg(message)
		writeError(w, log, http.StatusInternalServerError, message)
	}
}

// decodeBody decodes JSON into dst. An empty body leaves dst untouched.
// Unknown modes surface as validation errors rather than syntax errors.
func decodeBody(w http.ResponseWriter, r *http.Request, log zerolog.Logger, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return true
	case errors.Is(err, optimization.ErrInvalidModel):
		writeError(w, log, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, log, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	return false
}

func profileID(w http.ResponseWriter, r *http.Request, log zerolog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, log, http.StatusBadRequest, "Invalid profile id")
		return 0, false
	}
	return id, true
}
