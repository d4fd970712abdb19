package optimization

import (
	"fmt"
	"math"
	"strings"

	"github.com/aristath/budgetopt/pkg/formulas"
	"github.com/rs/zerolog"
)

// ReconciliationTolerance is how far the unrounded income split may drift from income.
const ReconciliationTolerance = 0.01

// Remediation suggestions, in the order they are offered.
var infeasibleSuggestions = []string{
	"Increase income",
	"Reduce fixed expenses",
	"Lower minimum spending requirements",
	"Adjust savings goals",
}

const timeoutNote = "The solver time limit was reached before a feasible allocation could be confirmed."

// Interpreter maps raw solver output to a Result.
type Interpreter struct {
	log zerolog.Logger
}

// NewInterpreter creates a new interpreter.
func NewInterpreter(log zerolog.Logger) *Interpreter {
	return &Interpreter{
		log: log.With().Str("component", "interpreter").Logger(),
	}
}

// Interpret builds the Result for model from raw. Any status other than
// optimal goes down the infeasibility path.
func (in *Interpreter) Interpret(m FinancialModel, raw RawResult) *Result {
	if raw.Status != SolveOptimal {
		return in.infeasible(m, raw.Status)
	}
	return in.optimal(m, raw)
}

func (in *Interpreter) optimal(m FinancialModel, raw RawResult) *Result {
	savings := raw.Values[SavingsVariable]

	allocation := make(map[string]float64, len(m.VariableCategories))
	spent := make([]float64, len(m.VariableCategories))
	for i, vc := range m.VariableCategories {
		spent[i] = raw.Values[SpendingVariable(vc.Category)]
		allocation[vc.Category] = formulas.RoundMoney(spent[i])
	}
	variableTotal := formulas.Sum(spent)

	fixedRaw := make(map[string]float64, len(m.FixedExpenses))
	for _, fe := range m.FixedExpenses {
		fixedRaw[fe.Category] = fe.Amount
	}
	fixed := formulas.RoundMoneyMap(fixedRaw)
	fixedTotal := m.TotalFixed()

	if drift := math.Abs(fixedTotal + variableTotal + savings - m.MonthlyIncome); drift > ReconciliationTolerance {
		in.log.Error().
			Float64("fixed", fixedTotal).
			Float64("variable", variableTotal).
			Float64("savings", savings).
			Float64("income", m.MonthlyIncome).
			Float64("drift", drift).
			Msg("Income allocation does not reconcile with income")
	}

	projected := formulas.LinearProjection(savings, m.MonthsToGoal)
	for i := range projected {
		projected[i] = formulas.RoundMoney(projected[i])
	}

	var monthsToGoal *float64
	if months, ok := formulas.MonthsToTarget(m.SavingsGoal, savings); ok {
		rounded := formulas.RoundMoney(months)
		monthsToGoal = &rounded
	}

	fixedShare := formulas.RoundMoney(fixedTotal)
	variableShare := formulas.RoundMoney(variableTotal)

	return &Result{
		Status:               StatusOptimal,
		Mode:                 m.Mode,
		Message:              OptimalMessage,
		MonthlySavings:       formulas.RoundMoney(savings),
		SpendingAllocation:   allocation,
		TotalMonthlySpending: formulas.RoundMoney(variableTotal + fixedTotal),
		MonthsToGoalActual:   monthsToGoal,
		ProjectedSavings:     projected,
		FixedExpenses:        fixed,
		TotalFixedExpenses:   fixedShare,
		IncomeAllocation: &IncomeAllocation{
			Fixed:    fixedShare,
			Variable: variableShare,
			Savings:  formulas.RemainderMoney(m.MonthlyIncome, fixedShare, variableShare),
		},
	}
}

func (in *Interpreter) infeasible(m FinancialModel, status SolveStatus) *Result {
	d := Diagnose(m)
	d.SolverTimedOut = status == SolveTimeout

	var msg strings.Builder
	msg.WriteString("Cannot meet goals with current income/constraints. ")
	fmt.Fprintf(&msg, "Minimum required income: $%.2f, ", d.MinRequiredIncome)
	fmt.Fprintf(&msg, "Current income: $%.2f. ", d.MonthlyIncome)
	if d.Shortfall > 0 {
		fmt.Fprintf(&msg, "Monthly shortfall: $%.2f. ", d.Shortfall)
		msg.WriteString("Consider: (1) Increasing income, (2) Reducing fixed expenses, ")
		msg.WriteString("(3) Lowering minimum spending requirements, or (4) Adjusting savings goals. ")
	}
	if d.SolverTimedOut {
		msg.WriteString(timeoutNote)
	}

	in.log.Info().
		Str("solver_status", string(status)).
		Float64("min_required", d.MinRequiredIncome).
		Float64("income", d.MonthlyIncome).
		Float64("shortfall", d.Shortfall).
		Msg("No feasible allocation")

	return &Result{
		Status:         StatusInfeasible,
		Mode:           m.Mode,
		Message:        strings.TrimSpace(msg.String()),
		MonthlySavings: 0,
		Diagnosis:      &d,
	}
}

// Diagnose computes the minimum income the model needs and the shortfall
// against actual income, independently of any solver.
func Diagnose(m FinancialModel) Diagnosis {
	minRequired := m.MinimumRequiredIncome()
	d := Diagnosis{
		MinRequiredIncome: formulas.RoundMoney(minRequired),
		MonthlyIncome:     formulas.RoundMoney(m.MonthlyIncome),
	}
	if minRequired > m.MonthlyIncome {
		d.Shortfall = formulas.RoundMoney(minRequired - m.MonthlyIncome)
		d.Suggestions = append([]string(nil), infeasibleSuggestions...)
	}
	return d
}
