// Package budget manages household budget profiles: income, fixed and
// flexible expenses and savings goals.
package budget

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/budgetopt/internal/modules/optimization"
)

// Field limits
const (
	MaxNameLength      = 255
	MaxCategoryLength  = 100
	MinGoalPriority    = 1
	MaxGoalPriority    = 10
	DefaultProfileName = "My budget"
)

var (
	// ErrProfileNotFound is returned when no profile has the requested id.
	ErrProfileNotFound = errors.New("budget profile not found")
	// ErrGoalNotFound is returned when a profile has no goal with the requested id.
	ErrGoalNotFound = errors.New("financial goal not found")
)

// FixedExpense is a recurring cost that is not optimized.
type FixedExpense struct {
	ID       int64   `json:"id,omitempty"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// VariableExpense is a flexible category with a spending range.
type VariableExpense struct {
	ID        int64   `json:"id,omitempty"`
	Category  string  `json:"category"`
	MinAmount float64 `json:"min_amount"`
	MaxAmount float64 `json:"max_amount"`
}

// Goal is a savings target.
type Goal struct {
	ID            int64   `json:"id,omitempty"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Deadline      *Date   `json:"deadline,omitempty"`
	Priority      int     `json:"priority"`
}

// Remaining is the amount still to save, never negative.
func (g Goal) Remaining() float64 {
	if rem := g.TargetAmount - g.CurrentAmount; rem > 0 {
		return rem
	}
	return 0
}

// Profile is a household budget snapshot.
type Profile struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	MonthlyIncome    float64           `json:"monthly_income"`
	FixedExpenses    []FixedExpense    `json:"fixed_expenses"`
	VariableExpenses []VariableExpense `json:"variable_expenses"`
	Goals            []Goal            `json:"financial_goals"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Bounds returns the flexible categories as optimizer bounds, in stored order.
func (p *Profile) Bounds() []optimization.CategoryBounds {
	out := make([]optimization.CategoryBounds, len(p.VariableExpenses))
	for i, ve := range p.VariableExpenses {
		out[i] = optimization.CategoryBounds{
			Category:  ve.Category,
			MinAmount: ve.MinAmount,
			MaxAmount: ve.MaxAmount,
		}
	}
	return out
}

// ProfileInput is the payload for creating a profile.
type ProfileInput struct {
	Name             string            `json:"name"`
	MonthlyIncome    float64           `json:"monthly_income"`
	FixedExpenses    []FixedExpense    `json:"fixed_expenses"`
	VariableExpenses []VariableExpense `json:"variable_expenses"`
	Goals            []Goal            `json:"financial_goals"`
}

// ProfileUpdate is a partial update. Nil fields are left as they are; a
// non-nil slice replaces the stored list entirely.
type ProfileUpdate struct {
	Name             *string           `json:"name,omitempty"`
	MonthlyIncome    *float64          `json:"monthly_income,omitempty"`
	FixedExpenses    []FixedExpense    `json:"fixed_expenses,omitempty"`
	VariableExpenses []VariableExpense `json:"variable_expenses,omitempty"`
	Goals            []Goal            `json:"financial_goals,omitempty"`
}

// Apply returns in with the update merged on top.
func (u ProfileUpdate) Apply(in ProfileInput) ProfileInput {
	if u.Name != nil {
		in.Name = *u.Name
	}
	if u.MonthlyIncome != nil {
		in.MonthlyIncome = *u.MonthlyIncome
	}
	if u.FixedExpenses != nil {
		in.FixedExpenses = u.FixedExpenses
	}
	if u.VariableExpenses != nil {
		in.VariableExpenses = u.VariableExpenses
	}
	if u.Goals != nil {
		in.Goals = u.Goals
	}
	return in
}

// Input returns the editable part of p.
func (p *Profile) Input() ProfileInput {
	return ProfileInput{
		Name:             p.Name,
		MonthlyIncome:    p.MonthlyIncome,
		FixedExpenses:    p.FixedExpenses,
		VariableExpenses: p.VariableExpenses,
		Goals:            p.Goals,
	}
}

// Normalize trims names and fills defaults (profile name, goal priority).
func (in *ProfileInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = DefaultProfileName
	}
	for i := range in.FixedExpenses {
		in.FixedExpenses[i].Category = strings.TrimSpace(in.FixedExpenses[i].Category)
	}
	for i := range in.VariableExpenses {
		in.VariableExpenses[i].Category = strings.TrimSpace(in.VariableExpenses[i].Category)
	}
	for i := range in.Goals {
		in.Goals[i].Name = strings.TrimSpace(in.Goals[i].Name)
		if in.Goals[i].Priority == 0 {
			in.Goals[i].Priority = MinGoalPriority
		}
	}
}

// Validate checks the input. Errors match optimization.ErrInvalidModel.
func (in ProfileInput) Validate() error {
	if len(in.Name) > MaxNameLength {
		return invalid("name", "must be at most %d characters", MaxNameLength)
	}
	if in.MonthlyIncome <= 0 {
		return invalid("monthly_income", "must be positive")
	}

	seen := make(map[string]bool, len(in.FixedExpenses))
	for i, fe := range in.FixedExpenses {
		field := fmt.Sprintf("fixed_expenses[%d]", i)
		if err := checkCategory(field, fe.Category, seen); err != nil {
			return err
		}
		if fe.Amount < 0 {
			return invalid(field, "amount must be non-negative")
		}
	}

	seen = make(map[string]bool, len(in.VariableExpenses))
	for i, ve := range in.VariableExpenses {
		field := fmt.Sprintf("variable_expenses[%d]", i)
		if err := checkCategory(field, ve.Category, seen); err != nil {
			return err
		}
		if ve.MinAmount < 0 || ve.MaxAmount < 0 {
			return invalid(field, "amounts must be non-negative")
		}
		if ve.MinAmount > ve.MaxAmount {
			return invalid(field, "min_amount %.2f exceeds max_amount %.2f", ve.MinAmount, ve.MaxAmount)
		}
	}

	for i, g := range in.Goals {
		field := fmt.Sprintf("financial_goals[%d]", i)
		if g.Name == "" || len(g.Name) > MaxNameLength {
			return invalid(field, "name must be 1-%d characters", MaxNameLength)
		}
		if g.TargetAmount <= 0 {
			return invalid(field, "target_amount must be positive")
		}
		if g.CurrentAmount < 0 {
			return invalid(field, "current_amount must be non-negative")
		}
		if g.Priority < MinGoalPriority || g.Priority > MaxGoalPriority {
			return invalid(field, "priority must be between %d and %d", MinGoalPriority, MaxGoalPriority)
		}
	}
	return nil
}

func checkCategory(field, category string, seen map[string]bool) error {
	if category == "" || len(category) > MaxCategoryLength {
		return invalid(field, "category must be 1-%d characters", MaxCategoryLength)
	}
	if seen[category] {
		return invalid(field, "duplicate category %q", category)
	}
	seen[category] = true
	return nil
}

func invalid(field, format string, args ...any) error {
	return &optimization.ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
