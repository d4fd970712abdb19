package budget

import (
	"context"
	"testing"
	"time"

	"github.com/aristath/budgetopt/internal/modules/optimization"
	testingpkg "github.com/aristath/budgetopt/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db := testingpkg.NewBudgetDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	repo.now = func() time.Time { return time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC) }
	return repo
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	in := validInput()
	deadline := NewDate(2027, time.June, 1)
	in.Goals[0].Deadline = &deadline

	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Household", got.Name)
	assert.Equal(t, 4000.0, got.MonthlyIncome)
	assert.Equal(t, repo.now().Unix(), got.CreatedAt.Unix())

	require.Len(t, got.FixedExpenses, 2)
	assert.Equal(t, "rent", got.FixedExpenses[0].Category)
	assert.Equal(t, "insurance", got.FixedExpenses[1].Category)
	assert.NotZero(t, got.FixedExpenses[0].ID)

	require.Len(t, got.VariableExpenses, 2)
	assert.Equal(t, "food", got.VariableExpenses[0].Category)
	assert.Equal(t, 600.0, got.VariableExpenses[0].MaxAmount)

	require.Len(t, got.Goals, 1)
	require.NotNil(t, got.Goals[0].Deadline)
	assert.Equal(t, "2027-06-01", got.Goals[0].Deadline.Format(DateLayout))
	assert.Equal(t, 3, got.Goals[0].Priority)
}

func TestRepository_CreateRejectsInvalid(t *testing.T) {
	repo := newTestRepository(t)

	in := validInput()
	in.VariableExpenses[0].MinAmount = 900
	_, err := repo.Create(context.Background(), in)
	assert.ErrorIs(t, err, optimization.ErrInvalidModel)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestRepository_Update(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, validInput())
	require.NoError(t, err)

	income := 4500.0
	updated, err := repo.Update(ctx, created.ID, ProfileUpdate{
		MonthlyIncome: &income,
		VariableExpenses: []VariableExpense{
			{Category: "groceries", MinAmount: 250, MaxAmount: 450},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 4500.0, updated.MonthlyIncome)
	assert.Len(t, updated.FixedExpenses, 2, "fixed expenses untouched")
	require.Len(t, updated.VariableExpenses, 1)
	assert.Equal(t, "groceries", updated.VariableExpenses[0].Category)
	assert.Len(t, updated.Goals, 1, "goals untouched")

	cleared, err := repo.Update(ctx, created.ID, ProfileUpdate{Goals: []Goal{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.Goals)

	bad := -1.0
	_, err = repo.Update(ctx, created.ID, ProfileUpdate{MonthlyIncome: &bad})
	assert.ErrorIs(t, err, optimization.ErrInvalidModel)

	_, err = repo.Update(ctx, 9999, ProfileUpdate{MonthlyIncome: &income})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRepository_ListAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, validInput())
	require.NoError(t, err)
	second := validInput()
	second.Name = "Second"
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	profiles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Household", profiles[0].Name)
	assert.Equal(t, "Second", profiles[1].Name)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrProfileNotFound)

	profiles, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}
