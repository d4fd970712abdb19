package scheduler

import (
	"testing"

	"github.com/aristath/budgetopt/internal/database"
	testingpkg "github.com/aristath/budgetopt/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCheckWALCheckpointsJob_Name(t *testing.T) {
	job := &CheckWALCheckpointsJob{
		log: zerolog.Nop(),
	}
	assert.Equal(t, "check_wal_checkpoints", job.Name())
}

func TestCheckWALCheckpointsJob_Run_NoDatabases(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	job := NewCheckWALCheckpointsJob(map[string]*database.DB{"budget": nil})
	job.SetLogger(log)

	err := job.Run()
	assert.NoError(t, err) // Should handle nil databases gracefully
}

func TestCheckWALCheckpointsJob_Run_WithDatabase(t *testing.T) {
	db := testingpkg.NewBudgetDB(t)

	job := NewCheckWALCheckpointsJob(map[string]*database.DB{"budget": db})
	assert.NoError(t, job.Run())
}
