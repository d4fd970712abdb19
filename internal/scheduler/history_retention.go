package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ResultPruner deletes stored optimization results beyond a per-profile limit
type ResultPruner interface {
	Prune(ctx context.Context, keep int) (int64, error)
}

// HistoryRetentionJob keeps only the newest results of each profile
type HistoryRetentionJob struct {
	pruner  ResultPruner
	keep    int
	timeout time.Duration
	log     zerolog.Logger
}

// NewHistoryRetentionJob creates a job that keeps the newest `keep` results per profile
func NewHistoryRetentionJob(pruner ResultPruner, keep int) *HistoryRetentionJob {
	return &HistoryRetentionJob{
		pruner:  pruner,
		keep:    keep,
		timeout: time.Minute,
		log:     zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *HistoryRetentionJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *HistoryRetentionJob) Name() string {
	return "history_retention"
}

// Run prunes old results
func (j *HistoryRetentionJob) Run() error {
	if j.keep <= 0 {
		return fmt.Errorf("history retention must keep at least one result, got %d", j.keep)
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	removed, err := j.pruner.Prune(ctx, j.keep)
	if err != nil {
		return fmt.Errorf("failed to prune optimization history: %w", err)
	}

	if removed > 0 {
		j.log.Info().Int64("removed", removed).Int("keep", j.keep).Msg("Pruned optimization history")
	}
	return nil
}
