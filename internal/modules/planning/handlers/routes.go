// Package handlers provides HTTP handlers for budget optimization.
package handlers

import (
	"context"

	"github.com/aristath/budgetopt/internal/modules/history"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/aristath/budgetopt/internal/modules/planning"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PlanningService is implemented by planning.Service.
type PlanningService interface {
	RunForProfile(ctx context.Context, profileID int64, mode optimization.Mode, goalID *int64) (*planning.Run, error)
	RunScenario(ctx context.Context, model optimization.FinancialModel) (*optimization.Result, error)
	Recommendations(ctx context.Context, profileID int64) ([]string, error)
	History(ctx context.Context, profileID int64, limit int) ([]history.StoredResult, error)
}

// Handler provides HTTP handlers for optimization endpoints
type Handler struct {
	optimizeHandler        *OptimizeHandler
	recommendationsHandler *RecommendationsHandler
	historyHandler         *HistoryHandler
}

// NewHandler creates a new optimization handler with all sub-handlers.
// historyLimit is the default page size of the history endpoint.
func NewHandler(service PlanningService, historyLimit int, log zerolog.Logger) *Handler {
	return &Handler{
		optimizeHandler:        NewOptimizeHandler(service, log),
		recommendationsHandler: NewRecommendationsHandler(service, log),
		historyHandler:         NewHistoryHandler(service, historyLimit, log),
	}
}

// RegisterRoutes registers all optimization routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/optimize", func(r chi.Router) {
		// What-if analysis, never persisted
		r.Post("/scenario", h.optimizeHandler.HandleScenario)

		r.Route("/profiles/{id}", func(r chi.Router) {
			r.Post("/", h.optimizeHandler.HandleRun)
			r.Get("/recommendations", h.recommendationsHandler.ServeHTTP)
			r.Get("/history", h.historyHandler.ServeHTTP)
		})
	})
}
