// Package di provides dependency injection for service implementations.
package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/aristath/budgetopt/internal/config"
	budgethandlers "github.com/aristath/budgetopt/internal/modules/budget/handlers"
	"github.com/aristath/budgetopt/internal/modules/history"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/aristath/budgetopt/internal/modules/planning"
	planninghandlers "github.com/aristath/budgetopt/internal/modules/planning/handlers"
)

// InitializeServices creates the optimizer, the planning flows and the HTTP handlers
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Metrics registry (served on /metrics)
	container.Registry = prometheus.NewRegistry()
	container.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := optimization.NewMetrics(container.Registry)
	if err != nil {
		return fmt.Errorf("failed to register optimizer metrics: %w", err)
	}
	container.OptimizerMetrics = metrics

	// Optimizer core
	container.Optimizer = optimization.NewService(
		optimization.NewSimplexSolver(log),
		cfg.SolverTimeout,
		log,
	)
	container.Optimizer.SetMetrics(metrics)

	// Planning flows (profiles + history + optimizer)
	container.PlanningService = planning.NewService(
		container.ProfileRepo,
		container.HistoryRepo,
		container.Optimizer,
		log,
	)

	// Latest-result cache, optional
	container.ResultCache = history.NopCache{}
	if cfg.RedisURL != "" {
		client, err := history.DialRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			// Redis is optional.
			log.Warn().Err(err).Msg("Redis unavailable, latest-result cache disabled")
		} else {
			container.RedisClient = client
			container.ResultCache = history.NewRedisCache(client, cfg.CacheTTL, log)
			log.Info().Msg("Latest-result cache enabled")
		}
	}
	container.PlanningService.SetCache(container.ResultCache)

	// HTTP handlers
	container.ProfileHandler = budgethandlers.NewHandler(container.ProfileRepo, log)
	container.PlanningHandler = planninghandlers.NewHandler(container.PlanningService, cfg.HistoryLimit, log)

	log.Info().Msg("Services initialized")
	return nil
}
