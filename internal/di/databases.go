// Package di provides dependency injection for database connections.
package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/budgetopt/internal/config"
	"github.com/aristath/budgetopt/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens budget.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// budget.db - Profiles, goals and optimization history
	budgetDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "budget.db"),
		Profile: database.ProfileStandard,
		Name:    "budget",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize budget database: %w", err)
	}

	if err := budgetDB.Migrate(); err != nil {
		budgetDB.Close()
		return nil, fmt.Errorf("failed to migrate budget database: %w", err)
	}
	container.BudgetDB = budgetDB

	log.Info().Str("path", budgetDB.Path()).Msg("Budget database initialized")

	return container, nil
}
