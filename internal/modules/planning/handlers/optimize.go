package handlers

import (
	"net/http"

	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/rs/zerolog"
)

// RunRequest is the body of POST /api/optimize/profiles/{id}.
type RunRequest struct {
	Mode   optimization.Mode `json:"optimization_mode"`
	GoalID *int64            `json:"goal_id,omitempty"`
}

// OptimizeHandler runs persisted and what-if optimizations.
type OptimizeHandler struct {
	service PlanningService
	log     zerolog.Logger
}

// NewOptimizeHandler creates a new optimize handler
func NewOptimizeHandler(service PlanningService, log zerolog.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		service: service,
		log:     log.With().Str("handler", "optimize").Logger(),
	}
}

// HandleRun handles POST /api/optimize/profiles/{id}
func (h *OptimizeHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r, h.log)
	if !ok {
		return
	}

	req := RunRequest{Mode: optimization.ModeMaxSavings}
	if !decodeBody(w, r, h.log, &req) {
		return
	}

	run, err := h.service.RunForProfile(r.Context(), id, req.Mode, req.GoalID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to run optimization")
		return
	}
	writeJSON(w, h.log, statusFor(run.Result), run)
}

// HandleScenario handles POST /api/optimize/scenario
func (h *OptimizeHandler) HandleScenario(w http.ResponseWriter, r *http.Request) {
	model := optimization.FinancialModel{
		MonthsToGoal: optimization.DefaultMonthsToGoal,
		Mode:         optimization.ModeMaxSavings,
	}
	if !decodeBody(w, r, h.log, &model) {
		return
	}

	res, err := h.service.RunScenario(r.Context(), model)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to run scenario")
		return
	}
	writeJSON(w, h.log, statusFor(res), res)
}

// statusFor keeps infeasible budgets at 200; only solver faults are 500s.
func statusFor(res *optimization.Result) int {
	if res != nil && res.Status == optimization.StatusError {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
