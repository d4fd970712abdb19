package budget

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/budgetopt/internal/modules/optimization"
)

// DateLayout is the wire format of goal deadlines.
const DateLayout = "2006-01-02"

// Date is a calendar date (UTC midnight). It marshals as "YYYY-MM-DD" and
// also accepts RFC 3339 timestamps.
type Date struct {
	time.Time
}

// NewDate builds a calendar date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("deadline must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		*d = Date{t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("deadline %q is not a date (want %s)", s, DateLayout)
	}
	y, m, day := t.Date()
	*d = NewDate(y, m, day)
	return nil
}

// MonthsUntil counts calendar months from now to deadline, never less than one.
// Only the year and month take part; days are ignored.
func MonthsUntil(deadline, now time.Time) int {
	months := (deadline.Year()-now.Year())*12 + int(deadline.Month()) - int(now.Month())
	if months < 1 {
		return 1
	}
	return months
}

// GoalSelection is the goal an optimization runs against.
type GoalSelection struct {
	Goal      *Goal   // nil when the profile has no goals
	Remaining float64 // amount still to save
	Months    int     // horizon in months
}

// SelectGoal picks the goal to optimize for: the one with goalID when given,
// otherwise the highest priority goal (the first one on ties). Without any
// goal the horizon is optimization.DefaultMonthsToGoal and nothing remains.
func SelectGoal(p *Profile, goalID *int64, now time.Time) (GoalSelection, error) {
	sel := GoalSelection{Months: optimization.DefaultMonthsToGoal}

	var chosen *Goal
	if goalID != nil {
		for i := range p.Goals {
			if p.Goals[i].ID == *goalID {
				chosen = &p.Goals[i]
				break
			}
		}
		if chosen == nil {
			return sel, fmt.Errorf("goal %d in profile %d: %w", *goalID, p.ID, ErrGoalNotFound)
		}
	} else {
		chosen = TopGoal(p)
	}

	if chosen == nil {
		return sel, nil
	}
	sel.Goal = chosen
	sel.Remaining = chosen.Remaining()
	if chosen.Deadline != nil {
		sel.Months = MonthsUntil(chosen.Deadline.Time, now)
	}
	return sel, nil
}

// TopGoal returns the highest priority goal, or nil.
func TopGoal(p *Profile) *Goal {
	var top *Goal
	for i := range p.Goals {
		if top == nil || p.Goals[i].Priority > top.Priority {
			top = &p.Goals[i]
		}
	}
	return top
}

// BuildModel turns a stored profile into an optimizer input for mode.
func BuildModel(p *Profile, mode optimization.Mode, goalID *int64, now time.Time) (optimization.FinancialModel, error) {
	sel, err := SelectGoal(p, goalID, now)
	if err != nil {
		return optimization.FinancialModel{}, err
	}

	fixed := make([]optimization.FixedExpense, len(p.FixedExpenses))
	for i, fe := range p.FixedExpenses {
		fixed[i] = optimization.FixedExpense{Category: fe.Category, Amount: fe.Amount}
	}

	return optimization.FinancialModel{
		MonthlyIncome:      p.MonthlyIncome,
		FixedExpenses:      fixed,
		VariableCategories: p.Bounds(),
		SavingsGoal:        sel.Remaining,
		MonthsToGoal:       sel.Months,
		Mode:               mode,
	}, nil
}
