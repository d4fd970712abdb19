/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to handlers.
 */
package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/aristath/budgetopt/internal/database"
	"github.com/aristath/budgetopt/internal/modules/budget"
	budgethandlers "github.com/aristath/budgetopt/internal/modules/budget/handlers"
	"github.com/aristath/budgetopt/internal/modules/history"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/aristath/budgetopt/internal/modules/planning"
	planninghandlers "github.com/aristath/budgetopt/internal/modules/planning/handlers"
	"github.com/aristath/budgetopt/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Databases: budget.db (profiles, goals, optimization results)
 * - Cache: optional Redis client for latest results
 * - Repositories: profile and history data access
 * - Services: optimizer core and planning flows
 * - Handlers: HTTP handlers mounted by the server
 */
type Container struct {
	// Databases
	BudgetDB *database.DB

	// Cache (nil when REDIS_URL is not configured)
	RedisClient *redis.Client
	ResultCache history.Cache

	// Metrics
	Registry *prometheus.Registry

	// Repositories
	ProfileRepo *budget.Repository
	HistoryRepo *history.Repository

	// Services
	OptimizerMetrics *optimization.Metrics
	Optimizer        *optimization.Service
	PlanningService  *planning.Service

	// Handlers
	ProfileHandler  *budgethandlers.Handler
	PlanningHandler *planninghandlers.Handler
}

// JobInstances holds the scheduled maintenance jobs for manual triggering via API
type JobInstances struct {
	HistoryRetention *scheduler.HistoryRetentionJob
	WALCheckpoints   *scheduler.CheckWALCheckpointsJob
}

// Close releases the cache client and the database
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var firstErr error
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			firstErr = err
		}
	}
	if c.BudgetDB != nil {
		if err := c.BudgetDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
