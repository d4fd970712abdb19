// Package optimization turns a household budget snapshot into a linear program,
// solves it and interprets the outcome.
package optimization

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aristath/budgetopt/pkg/formulas"
)

// Objective weights
const (
	SavingsWeight   = 1.0
	LifestyleWeight = 0.3 // Weight of the normalised "spend near ceiling" term in balanced mode
)

// DefaultMonthsToGoal is the horizon used when a goal has no deadline.
const DefaultMonthsToGoal = 12

// Mode selects the objective the formulator builds.
type Mode string

const (
	ModeMaxSavings  Mode = "max_savings"
	ModeBalanced    Mode = "balanced"
	ModeFastestGoal Mode = "fastest_goal"
)

// Modes lists every supported mode in presentation order.
var Modes = []Mode{ModeMaxSavings, ModeBalanced, ModeFastestGoal}

// String returns the wire name of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the supported modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeMaxSavings, ModeBalanced, ModeFastestGoal:
		return true
	}
	return false
}

// ParseMode parses a mode name. An empty string yields ModeMaxSavings.
func ParseMode(s string) (Mode, error) {
	if strings.TrimSpace(s) == "" {
		return ModeMaxSavings, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", &ValidationError{Field: "optimization_mode", Reason: fmt.Sprintf("unknown mode %q", s)}
	}
	return m, nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ErrInvalidModel is matched by every ValidationError.
var ErrInvalidModel = errors.New("invalid financial model")

// ValidationError describes a malformed FinancialModel.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidModel) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidModel
}

// FixedExpense is a non-negotiable monthly cost.
type FixedExpense struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryBounds declares the allowed monthly spend for a flexible category.
type CategoryBounds struct {
	Category  string  `json:"category"`
	MinAmount float64 `json:"min_amount"`
	MaxAmount float64 `json:"max_amount"`
}

// FinancialModel is one household's budget snapshot for a single optimization.
// Slices keep their declared order; outputs follow it.
type FinancialModel struct {
	MonthlyIncome      float64          `json:"monthly_income"`
	FixedExpenses      []FixedExpense   `json:"fixed_expenses"`
	VariableCategories []CategoryBounds `json:"variable_categories"`
	SavingsGoal        float64          `json:"savings_goal"`
	MonthsToGoal       int              `json:"months_to_goal"`
	Mode               Mode             `json:"optimization_mode"`
}

// Validate checks the model and returns a *ValidationError on the first problem found.
func (m FinancialModel) Validate() error {
	if !isFinite(m.MonthlyIncome) || m.MonthlyIncome <= 0 {
		return &ValidationError{Field: "monthly_income", Reason: "must be positive"}
	}
	if !isFinite(m.SavingsGoal) || m.SavingsGoal < 0 {
		return &ValidationError{Field: "savings_goal", Reason: "must be non-negative"}
	}
	if m.MonthsToGoal <= 0 {
		return &ValidationError{Field: "months_to_goal", Reason: "must be positive"}
	}
	if !m.Mode.IsValid() {
		return &ValidationError{Field: "optimization_mode", Reason: fmt.Sprintf("unknown mode %q", m.Mode)}
	}

	seen := make(map[string]bool, len(m.FixedExpenses))
	for i, fe := range m.FixedExpenses {
		field := fmt.Sprintf("fixed_expenses[%d]", i)
		if strings.TrimSpace(fe.Category) == "" {
			return &ValidationError{Field: field, Reason: "category is required"}
		}
		if seen[fe.Category] {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("duplicate category %q", fe.Category)}
		}
		seen[fe.Category] = true
		if !isFinite(fe.Amount) || fe.Amount < 0 {
			return &ValidationError{Field: field, Reason: "amount must be non-negative"}
		}
	}

	seen = make(map[string]bool, len(m.VariableCategories))
	for i, vc := range m.VariableCategories {
		field := fmt.Sprintf("variable_categories[%d]", i)
		if strings.TrimSpace(vc.Category) == "" {
			return &ValidationError{Field: field, Reason: "category is required"}
		}
		if seen[vc.Category] {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("duplicate category %q", vc.Category)}
		}
		seen[vc.Category] = true
		if !isFinite(vc.MinAmount) || !isFinite(vc.MaxAmount) || vc.MinAmount < 0 || vc.MaxAmount < 0 {
			return &ValidationError{Field: field, Reason: "bounds must be non-negative"}
		}
		if vc.MinAmount > vc.MaxAmount {
			return &ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("min_amount %.2f exceeds max_amount %.2f", vc.MinAmount, vc.MaxAmount),
			}
		}
	}
	return nil
}

// TotalFixed returns the sum of all fixed expenses.
func (m FinancialModel) TotalFixed() float64 {
	amounts := make([]float64, len(m.FixedExpenses))
	for i, fe := range m.FixedExpenses {
		amounts[i] = fe.Amount
	}
	return formulas.Sum(amounts)
}

// TotalMinimum returns the sum of every category's minimum spend.
func (m FinancialModel) TotalMinimum() float64 {
	mins := make([]float64, len(m.VariableCategories))
	for i, vc := range m.VariableCategories {
		mins[i] = vc.MinAmount
	}
	return formulas.Sum(mins)
}

// GoalActive reports whether the goal constraint applies.
func (m FinancialModel) GoalActive() bool {
	return m.SavingsGoal > 0 && m.MonthsToGoal > 0
}

// RequiredMonthlySavings is the savings floor implied by the goal, or 0 when no goal applies.
func (m FinancialModel) RequiredMonthlySavings() float64 {
	if !m.GoalActive() {
		return 0
	}
	return m.SavingsGoal / float64(m.MonthsToGoal)
}

// MinimumRequiredIncome is the smallest income under which the model is feasible.
func (m FinancialModel) MinimumRequiredIncome() float64 {
	return m.TotalFixed() + m.TotalMinimum() + m.RequiredMonthlySavings()
}

// Bounds returns the category bounds keyed by category name.
func (m FinancialModel) Bounds() map[string]CategoryBounds {
	out := make(map[string]CategoryBounds, len(m.VariableCategories))
	for _, vc := range m.VariableCategories {
		out[vc.Category] = vc
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
