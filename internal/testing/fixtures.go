package testing

import (
	"github.com/aristath/budgetopt/internal/modules/optimization"
)

// Named financial model fixtures shared by package tests.
const (
	FixtureRentAndFood   = "rent_and_food"
	FixtureOverCommitted = "over_committed"
	FixtureLeisureGoal   = "leisure_goal"
	FixtureBalanced      = "balanced"
)

// NewFinancialModelFixtures returns a fresh set of financial models keyed by fixture name
//
//   - rent_and_food:  income 5000, rent 1500, food 200..500 (optimal, savings 3300)
//   - over_committed: income 2000, rent 1800, food 300..600 (infeasible, shortfall 100)
//   - leisure_goal:   income 4000, leisure 0..1000, goal 6000 in 12 months (optimal, savings >= 500)
//   - balanced:       leisure_goal in balanced mode
func NewFinancialModelFixtures() map[string]optimization.FinancialModel {
	leisureGoal := optimization.FinancialModel{
		MonthlyIncome: 4000,
		VariableCategories: []optimization.CategoryBounds{
			{Category: "leisure", MinAmount: 0, MaxAmount: 1000},
		},
		SavingsGoal:  6000,
		MonthsToGoal: 12,
		Mode:         optimization.ModeMaxSavings,
	}
	balanced := leisureGoal
	balanced.VariableCategories = append([]optimization.CategoryBounds(nil), leisureGoal.VariableCategories...)
	balanced.Mode = optimization.ModeBalanced

	return map[string]optimization.FinancialModel{
		FixtureRentAndFood: {
			MonthlyIncome: 5000,
			FixedExpenses: []optimization.FixedExpense{{Category: "rent", Amount: 1500}},
			VariableCategories: []optimization.CategoryBounds{
				{Category: "food", MinAmount: 200, MaxAmount: 500},
			},
			MonthsToGoal: optimization.DefaultMonthsToGoal,
			Mode:         optimization.ModeMaxSavings,
		},
		FixtureOverCommitted: {
			MonthlyIncome: 2000,
			FixedExpenses: []optimization.FixedExpense{{Category: "rent", Amount: 1800}},
			VariableCategories: []optimization.CategoryBounds{
				{Category: "food", MinAmount: 300, MaxAmount: 600},
			},
			MonthsToGoal: optimization.DefaultMonthsToGoal,
			Mode:         optimization.ModeMaxSavings,
		},
		FixtureLeisureGoal: leisureGoal,
		FixtureBalanced:    balanced,
	}
}

// NewFinancialModelFixture returns one fixture by name and panics on unknown names
func NewFinancialModelFixture(name string) optimization.FinancialModel {
	m, ok := NewFinancialModelFixtures()[name]
	if !ok {
		panic("unknown financial model fixture: " + name)
	}
	return m
}
