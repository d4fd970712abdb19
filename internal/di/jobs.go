// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/aristath/budgetopt/internal/config"
	"github.com/aristath/budgetopt/internal/database"
	"github.com/aristath/budgetopt/internal/scheduler"
	"github.com/rs/zerolog"
)

// WALCheckpointSchedule is how often the WAL size of budget.db is checked.
const WALCheckpointSchedule = "*/15 * * * *"

// RegisterJobs creates the maintenance jobs
// Returns JobInstances for scheduling and manual triggering via API
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.HistoryRepo == nil {
		return nil, fmt.Errorf("history repository is not initialized")
	}

	instances := &JobInstances{}

	// Job 1: History retention (prune old optimization results)
	retention := scheduler.NewHistoryRetentionJob(container.HistoryRepo, cfg.HistoryRetention)
	retention.SetLogger(log)
	instances.HistoryRetention = retention

	// Job 2: WAL checkpoints
	walCheckpoints := scheduler.NewCheckWALCheckpointsJob(map[string]*database.DB{
		"budget": container.BudgetDB,
	})
	walCheckpoints.SetLogger(log)
	instances.WALCheckpoints = walCheckpoints

	log.Info().Msg("Jobs registered")
	return instances, nil
}

// ScheduleJobs registers the job instances with the scheduler
func ScheduleJobs(s *scheduler.Scheduler, jobs *JobInstances, cfg *config.Config) error {
	if err := s.AddJob(cfg.RetentionSchedule, jobs.HistoryRetention); err != nil {
		return err
	}
	return s.AddJob(WALCheckpointSchedule, jobs.WALCheckpoints)
}
