// Package di provides dependency injection for repository implementations.
package di

import (
	"fmt"

	"github.com/aristath/budgetopt/internal/modules/budget"
	"github.com/aristath/budgetopt/internal/modules/history"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.BudgetDB == nil {
		return fmt.Errorf("budget database is not initialized")
	}

	container.ProfileRepo = budget.NewRepository(container.BudgetDB.Conn(), log)
	container.HistoryRepo = history.NewRepository(container.BudgetDB.Conn(), log)

	log.Info().Msg("Repositories initialized")
	return nil
}
