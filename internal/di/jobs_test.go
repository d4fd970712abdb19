package di

import (
	"testing"

	"github.com/aristath/budgetopt/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobs(t *testing.T) {
	cfg := testConfig(t)

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.Equal(t, "history_retention", jobs.HistoryRetention.Name())
	assert.Equal(t, "check_wal_checkpoints", jobs.WALCheckpoints.Name())

	assert.NoError(t, jobs.HistoryRetention.Run())
	assert.NoError(t, jobs.WALCheckpoints.Run())

	s := scheduler.New(zerolog.Nop())
	assert.NoError(t, ScheduleJobs(s, jobs, cfg))

	cfg.RetentionSchedule = "whenever"
	assert.Error(t, ScheduleJobs(scheduler.New(zerolog.Nop()), jobs, cfg))
}

func TestRegisterJobs_NilContainer(t *testing.T) {
	_, err := RegisterJobs(nil, testConfig(t), zerolog.Nop())
	assert.Error(t, err)
}
