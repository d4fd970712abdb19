package optimization

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolver() *SimplexSolver {
	return NewSimplexSolver(zerolog.Nop())
}

func TestSimplexSolver_MaxSavings(t *testing.T) {
	p := Formulate(FinancialModel{
		MonthlyIncome:      5000,
		FixedExpenses:      []FixedExpense{{Category: "rent", Amount: 1500}},
		VariableCategories: []CategoryBounds{{Category: "food", MinAmount: 200, MaxAmount: 500}},
		MonthsToGoal:       12,
		Mode:               ModeMaxSavings,
	})

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	assert.Equal(t, SolveOptimal, raw.Status)
	assert.InDelta(t, 3300, raw.Values[SavingsVariable], 1e-6)
	assert.InDelta(t, 200, raw.Values["spend:food"], 1e-6)
	assert.InDelta(t, 3300, raw.Objective, 1e-6)
}

func TestSimplexSolver_Infeasible(t *testing.T) {
	p := Formulate(FinancialModel{
		MonthlyIncome:      2000,
		FixedExpenses:      []FixedExpense{{Category: "rent", Amount: 1800}},
		VariableCategories: []CategoryBounds{{Category: "food", MinAmount: 300, MaxAmount: 600}},
		MonthsToGoal:       12,
		Mode:               ModeMaxSavings,
	})

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	assert.Equal(t, SolveInfeasible, raw.Status)
	assert.Empty(t, raw.Values)
}

func TestSimplexSolver_WithGoalRow(t *testing.T) {
	// Goal floor of 500 leaves leisure room up to 100; max savings still picks 0.
	p := Formulate(FinancialModel{
		MonthlyIncome:      1000,
		FixedExpenses:      []FixedExpense{{Category: "rent", Amount: 400}},
		VariableCategories: []CategoryBounds{{Category: "leisure", MinAmount: 0, MaxAmount: 1000}},
		SavingsGoal:        6000,
		MonthsToGoal:       12,
		Mode:               ModeMaxSavings,
	})

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	require.Equal(t, SolveOptimal, raw.Status)
	assert.InDelta(t, 600, raw.Values[SavingsVariable], 1e-6)
	assert.InDelta(t, 0, raw.Values["spend:leisure"], 1e-6)
}

func TestSimplexSolver_BalancedFavoursSmallCeilings(t *testing.T) {
	// coffee earns 0.3/0.25 = 1.2 per unit, more than savings; food earns 0.0006.
	p := Formulate(FinancialModel{
		MonthlyIncome: 3000,
		FixedExpenses: []FixedExpense{{Category: "rent", Amount: 1000}},
		VariableCategories: []CategoryBounds{
			{Category: "coffee", MinAmount: 0, MaxAmount: 0.25},
			{Category: "food", MinAmount: 100, MaxAmount: 500},
		},
		MonthsToGoal: 12,
		Mode:         ModeBalanced,
	})

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	require.Equal(t, SolveOptimal, raw.Status)
	assert.InDelta(t, 0.25, raw.Values["spend:coffee"], 1e-9)
	assert.InDelta(t, 100, raw.Values["spend:food"], 1e-6)
	assert.InDelta(t, 1899.75, raw.Values[SavingsVariable], 1e-6)
}

func TestSimplexSolver_FixedVariable(t *testing.T) {
	p := Formulate(FinancialModel{
		MonthlyIncome: 1000,
		VariableCategories: []CategoryBounds{
			{Category: "insurance", MinAmount: 120, MaxAmount: 120},
			{Category: "gifts", MinAmount: 0, MaxAmount: 0},
		},
		MonthsToGoal: 12,
		Mode:         ModeBalanced,
	})

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	require.Equal(t, SolveOptimal, raw.Status)
	assert.Equal(t, 120.0, raw.Values["spend:insurance"])
	assert.Equal(t, 0.0, raw.Values["spend:gifts"])
	assert.InDelta(t, 880, raw.Values[SavingsVariable], 1e-6)
}

func TestSimplexSolver_InvertedBoundsAreInfeasible(t *testing.T) {
	p := ProblemSpec{
		Name:      "inverted",
		Variables: []Variable{{Name: "x", Lower: 10, Upper: 5}},
		Objective: []Term{{Variable: "x", Coef: 1}},
	}

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	assert.Equal(t, SolveInfeasible, raw.Status)
}

func TestSimplexSolver_Unbounded(t *testing.T) {
	t.Run("variable outside every row", func(t *testing.T) {
		p := ProblemSpec{
			Name:      "free",
			Variables: []Variable{{Name: "x", Lower: 0, Upper: math.Inf(1)}},
			Objective: []Term{{Variable: "x", Coef: 1}},
		}
		raw, err := newTestSolver().Solve(context.Background(), p, time.Second)
		require.NoError(t, err)
		assert.Equal(t, SolveUnbounded, raw.Status)
	})

	t.Run("unbounded ray", func(t *testing.T) {
		p := ProblemSpec{
			Name: "ray",
			Variables: []Variable{
				{Name: "x", Lower: 0, Upper: math.Inf(1)},
				{Name: "y", Lower: 0, Upper: math.Inf(1)},
			},
			Objective: []Term{{Variable: "x", Coef: 1}},
			Constraints: []Constraint{{
				Name:  "diff",
				Terms: []Term{{Variable: "x", Coef: 1}, {Variable: "y", Coef: -1}},
				Sense: SenseEQ,
				RHS:   1,
			}},
		}
		raw, err := newTestSolver().Solve(context.Background(), p, time.Second)
		require.NoError(t, err)
		assert.Equal(t, SolveUnbounded, raw.Status)
	})
}

func TestSimplexSolver_LessOrEqualRow(t *testing.T) {
	p := ProblemSpec{
		Name: "cap",
		Variables: []Variable{
			{Name: "a", Lower: 0, Upper: math.Inf(1)},
			{Name: "b", Lower: 1, Upper: 4},
		},
		Objective: []Term{{Variable: "a", Coef: 2}, {Variable: "b", Coef: 1}},
		Constraints: []Constraint{{
			Name:  "total",
			Terms: []Term{{Variable: "a", Coef: 1}, {Variable: "b", Coef: 1}},
			Sense: SenseLE,
			RHS:   10,
		}},
	}

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	require.Equal(t, SolveOptimal, raw.Status)
	assert.InDelta(t, 9, raw.Values["a"], 1e-6)
	assert.InDelta(t, 1, raw.Values["b"], 1e-6)
	assert.InDelta(t, 19, raw.Objective, 1e-6)
}

func TestSimplexSolver_UnknownVariableIsFault(t *testing.T) {
	p := ProblemSpec{
		Name:      "broken",
		Variables: []Variable{{Name: "x", Upper: 1}},
		Objective: []Term{{Variable: "ghost", Coef: 1}},
	}

	_, err := newTestSolver().Solve(context.Background(), p, time.Second)

	assert.ErrorIs(t, err, ErrSolverFault)
}

func TestSimplexSolver_PanicIsFault(t *testing.T) {
	s := newTestSolver()
	s.run = func(ProblemSpec) (RawResult, error) {
		panic("singular basis")
	}

	_, err := s.Solve(context.Background(), ProblemSpec{Name: "panic"}, time.Second)

	assert.ErrorIs(t, err, ErrSolverFault)
	assert.Contains(t, err.Error(), "singular basis")
}

func TestSimplexSolver_InvalidBoundsAreFault(t *testing.T) {
	_, err := newTestSolver().Solve(context.Background(), ProblemSpec{
		Name:      "nan",
		Variables: []Variable{{Name: "x", Lower: math.NaN(), Upper: 1}},
	}, time.Second)

	assert.ErrorIs(t, err, ErrSolverFault)
}

func TestSimplexSolver_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := newTestSolver()
	s.run = func(ProblemSpec) (RawResult, error) {
		<-release
		return RawResult{Status: SolveOptimal}, nil
	}

	start := time.Now()
	raw, err := s.Solve(context.Background(), ProblemSpec{Name: "slow"}, 20*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, SolveTimeout, raw.Status)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSimplexSolver_Cancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := newTestSolver()
	s.run = func(ProblemSpec) (RawResult, error) {
		<-release
		return RawResult{Status: SolveOptimal}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Solve(ctx, ProblemSpec{Name: "cancelled"}, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSolverFault)
}

func TestSimplexSolver_ExactlyBindingBalanceRow(t *testing.T) {
	p := Formulate(FinancialModel{
		MonthlyIncome: 5396.09,
		FixedExpenses: []FixedExpense{
			{Category: "f", Amount: 2758.53},
			{Category: "b", Amount: 578.7},
		},
		VariableCategories: []CategoryBounds{{Category: "a", MinAmount: 2058.86, MaxAmount: 2500}},
		MonthsToGoal:       12,
		Mode:               ModeMaxSavings,
	})

	sf, status, err := toStandardForm(p)
	require.NoError(t, err)
	require.Empty(t, status)
	for i, b := range sf.b {
		assert.GreaterOrEqual(t, b, 0.0, "row %d", i)
	}

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	require.Equal(t, SolveOptimal, raw.Status)
	assert.InDelta(t, 0, raw.Values[SavingsVariable], 1e-6)
	assert.InDelta(t, 2058.86, raw.Values["spend:a"], 1e-6)
}

func TestSimplexSolver_GoalRowEqualToSurplus(t *testing.T) {
	p := Formulate(FinancialModel{
		MonthlyIncome:      4000,
		FixedExpenses:      []FixedExpense{{Category: "rent", Amount: 1500.37}},
		VariableCategories: []CategoryBounds{{Category: "food", MinAmount: 300.21, MaxAmount: 600}},
		SavingsGoal:        2199.42,
		MonthsToGoal:       1,
		Mode:               ModeBalanced,
	})

	raw, err := newTestSolver().Solve(context.Background(), p, time.Second)

	require.NoError(t, err)
	require.Equal(t, SolveOptimal, raw.Status)
	assert.InDelta(t, 2199.42, raw.Values[SavingsVariable], 1e-5)
	assert.InDelta(t, 300.21, raw.Values["spend:food"], 1e-5)
}

func TestSettleRHS(t *testing.T) {
	tests := []struct {
		name  string
		sense Sense
		rhs   float64
		want  float64
	}{
		{"negative residue", SenseEQ, -4.55e-13, 0},
		{"positive residue", SenseGE, 4.55e-13, 0},
		{"equality untouched", SenseEQ, 12.5, 12.5},
		{"less-or-equal widened", SenseLE, 12.5, 12.5 + 1e-6},
		{"greater-or-equal widened", SenseGE, 12.5, 12.5 - 1e-6},
		{"real deficit kept", SenseEQ, -0.01, -0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settleRHS(tt.sense, tt.rhs, 1e-6))
		})
	}
}
