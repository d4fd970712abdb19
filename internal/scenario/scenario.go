// Package scenario reads what-if budgets from TOML files.
//
// A scenario file looks like:
//
//	monthly_income = 4000
//	savings_goal   = 6000
//	months_to_goal = 12
//	mode           = "balanced"
//
//	[fixed]
//	rent = 1500
//
//	[[variable]]
//	category = "food"
//	min      = 300
//	max      = 600
package scenario

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aristath/budgetopt/internal/modules/optimization"
)

// File is the on-disk form of a scenario.
type File struct {
	MonthlyIncome float64            `toml:"monthly_income"`
	SavingsGoal   float64            `toml:"savings_goal"`
	MonthsToGoal  int                `toml:"months_to_goal"`
	Mode          string             `toml:"mode"`
	Fixed         map[string]float64 `toml:"fixed"`
	Variable      []Variable         `toml:"variable"`
}

// Variable is one flexible category.
type Variable struct {
	Category string  `toml:"category"`
	Min      float64 `toml:"min"`
	Max      float64 `toml:"max"`
}

// Load reads and parses the scenario at path.
func Load(path string) (optimization.FinancialModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return optimization.FinancialModel{}, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a scenario. Fixed expenses keep their order in the file,
// months_to_goal defaults to 12 and an empty mode means max_savings.
// Unknown keys are rejected so typos do not silently change the budget.
func Parse(data string) (optimization.FinancialModel, error) {
	var f File
	md, err := toml.Decode(data, &f)
	if err != nil {
		return optimization.FinancialModel{}, fmt.Errorf("parsing scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return optimization.FinancialModel{}, fmt.Errorf("parsing scenario: unknown keys %s", strings.Join(keys, ", "))
	}

	mode, err := optimization.ParseMode(f.Mode)
	if err != nil {
		return optimization.FinancialModel{}, err
	}

	m := optimization.FinancialModel{
		MonthlyIncome: f.MonthlyIncome,
		SavingsGoal:   f.SavingsGoal,
		MonthsToGoal:  f.MonthsToGoal,
		Mode:          mode,
	}
	if !md.IsDefined("months_to_goal") {
		m.MonthsToGoal = optimization.DefaultMonthsToGoal
	}

	for _, key := range md.Keys() {
		if len(key) == 2 && key[0] == "fixed" {
			m.FixedExpenses = append(m.FixedExpenses, optimization.FixedExpense{
				Category: key[1],
				Amount:   f.Fixed[key[1]],
			})
		}
	}

	for _, v := range f.Variable {
		m.VariableCategories = append(m.VariableCategories, optimization.CategoryBounds{
			Category:  v.Category,
			MinAmount: v.Min,
			MaxAmount: v.Max,
		})
	}

	return m, nil
}
