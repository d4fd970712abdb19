package optimization

import "math"

// Constraint names
const (
	BudgetBalanceConstraint = "budget_balance"
	GoalConstraint          = "goal"
)

// objectiveBuilder produces the objective terms for one mode.
type objectiveBuilder func(m FinancialModel) []Term

var objectiveBuilders = map[Mode]objectiveBuilder{
	ModeMaxSavings:  maxSavingsObjective,
	ModeBalanced:    balancedObjective,
	ModeFastestGoal: fastestGoalObjective,
}

// Formulate builds the linear program for a validated model.
//
// One variable per flexible category bounded by its min/max, plus an
// unbounded non-negative savings variable. The balance row pins
// Σ spend + savings to income minus fixed costs; the goal row, present only
// when a goal applies, puts a floor under savings.
func Formulate(m FinancialModel) ProblemSpec {
	vars := make([]Variable, 0, len(m.VariableCategories)+1)
	balance := make([]Term, 0, len(m.VariableCategories)+1)
	for _, vc := range m.VariableCategories {
		name := SpendingVariable(vc.Category)
		vars = append(vars, Variable{Name: name, Lower: vc.MinAmount, Upper: vc.MaxAmount})
		balance = append(balance, Term{Variable: name, Coef: 1})
	}
	vars = append(vars, Variable{Name: SavingsVariable, Lower: 0, Upper: math.Inf(1)})
	balance = append(balance, Term{Variable: SavingsVariable, Coef: 1})

	constraints := []Constraint{{
		Name:  BudgetBalanceConstraint,
		Terms: balance,
		Sense: SenseEQ,
		RHS:   m.MonthlyIncome - m.TotalFixed(),
	}}
	if m.GoalActive() {
		constraints = append(constraints, Constraint{
			Name:  GoalConstraint,
			Terms: []Term{{Variable: SavingsVariable, Coef: 1}},
			Sense: SenseGE,
			RHS:   m.RequiredMonthlySavings(),
		})
	}

	build, ok := objectiveBuilders[m.Mode]
	if !ok {
		build = maxSavingsObjective
	}

	return ProblemSpec{
		Name:        "budget_" + m.Mode.String(),
		Variables:   vars,
		Objective:   build(m),
		Constraints: constraints,
	}
}

func maxSavingsObjective(FinancialModel) []Term {
	return []Term{{Variable: SavingsVariable, Coef: SavingsWeight}}
}

// fastestGoalObjective has the same objective as max_savings; the goal row
// is the only thing pushing toward the deadline.
func fastestGoalObjective(m FinancialModel) []Term {
	return maxSavingsObjective(m)
}

// balancedObjective adds LifestyleWeight * x[c]/max[c] for each category.
// Categories capped at zero are skipped.
func balancedObjective(m FinancialModel) []Term {
	terms := maxSavingsObjective(m)
	for _, vc := range m.VariableCategories {
		if vc.MaxAmount <= 0 {
			continue
		}
		terms = append(terms, Term{
			Variable: SpendingVariable(vc.Category),
			Coef:     LifestyleWeight / vc.MaxAmount,
		})
	}
	return terms
}
