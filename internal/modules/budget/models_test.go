package budget

import (
	"errors"
	"strings"
	"testing"

	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ProfileInput {
	return ProfileInput{
		Name:          "Household",
		MonthlyIncome: 4000,
		FixedExpenses: []FixedExpense{
			{Category: "rent", Amount: 1500},
			{Category: "insurance", Amount: 120},
		},
		VariableExpenses: []VariableExpense{
			{Category: "food", MinAmount: 300, MaxAmount: 600},
			{Category: "leisure", MinAmount: 0, MaxAmount: 250},
		},
		Goals: []Goal{
			{Name: "Emergency fund", TargetAmount: 6000, CurrentAmount: 1000, Priority: 3},
		},
	}
}

func TestProfileInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *ProfileInput)
		field  string
	}{
		{"valid", func(in *ProfileInput) {}, ""},
		{"zero income", func(in *ProfileInput) { in.MonthlyIncome = 0 }, "monthly_income"},
		{"negative fixed", func(in *ProfileInput) { in.FixedExpenses[0].Amount = -1 }, "fixed_expenses[0]"},
		{"empty fixed category", func(in *ProfileInput) { in.FixedExpenses[1].Category = "" }, "fixed_expenses[1]"},
		{"duplicate fixed category", func(in *ProfileInput) { in.FixedExpenses[1].Category = "rent" }, "fixed_expenses[1]"},
		{"inverted bounds", func(in *ProfileInput) { in.VariableExpenses[0].MinAmount = 700 }, "variable_expenses[0]"},
		{"negative min", func(in *ProfileInput) { in.VariableExpenses[1].MinAmount = -5 }, "variable_expenses[1]"},
		{"long category", func(in *ProfileInput) {
			in.VariableExpenses[0].Category = strings.Repeat("x", MaxCategoryLength+1)
		}, "variable_expenses[0]"},
		{"goal without name", func(in *ProfileInput) { in.Goals[0].Name = "" }, "financial_goals[0]"},
		{"goal zero target", func(in *ProfileInput) { in.Goals[0].TargetAmount = 0 }, "financial_goals[0]"},
		{"goal negative progress", func(in *ProfileInput) { in.Goals[0].CurrentAmount = -1 }, "financial_goals[0]"},
		{"goal priority too high", func(in *ProfileInput) { in.Goals[0].Priority = 11 }, "financial_goals[0]"},
		{"long name", func(in *ProfileInput) { in.Name = strings.Repeat("n", MaxNameLength+1) }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, optimization.ErrInvalidModel))
			var verr *optimization.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestProfileInput_SameCategoryFixedAndVariable(t *testing.T) {
	in := validInput()
	in.VariableExpenses[0].Category = "rent"
	assert.NoError(t, in.Validate())
}

func TestProfileInput_Normalize(t *testing.T) {
	in := ProfileInput{
		Name:             "  ",
		FixedExpenses:    []FixedExpense{{Category: " rent ", Amount: 1}},
		VariableExpenses: []VariableExpense{{Category: "\tfood", MaxAmount: 1}},
		Goals:            []Goal{{Name: " car ", TargetAmount: 1}},
	}
	in.Normalize()

	assert.Equal(t, DefaultProfileName, in.Name)
	assert.Equal(t, "rent", in.FixedExpenses[0].Category)
	assert.Equal(t, "food", in.VariableExpenses[0].Category)
	assert.Equal(t, "car", in.Goals[0].Name)
	assert.Equal(t, MinGoalPriority, in.Goals[0].Priority)
}

func TestProfileUpdate_Apply(t *testing.T) {
	base := validInput()
	income := 5000.0

	merged := ProfileUpdate{MonthlyIncome: &income}.Apply(base)
	assert.Equal(t, 5000.0, merged.MonthlyIncome)
	assert.Equal(t, base.Name, merged.Name)
	assert.Len(t, merged.FixedExpenses, 2)

	cleared := ProfileUpdate{Goals: []Goal{}}.Apply(base)
	assert.Empty(t, cleared.Goals)
	assert.Len(t, cleared.VariableExpenses, 2)
}

func TestGoal_Remaining(t *testing.T) {
	assert.Equal(t, 5000.0, Goal{TargetAmount: 6000, CurrentAmount: 1000}.Remaining())
	assert.Equal(t, 0.0, Goal{TargetAmount: 6000, CurrentAmount: 7000}.Remaining())
}

func TestProfile_Bounds(t *testing.T) {
	in := validInput()
	p := &Profile{VariableExpenses: in.VariableExpenses}

	bounds := p.Bounds()
	require.Len(t, bounds, 2)
	assert.Equal(t, optimization.CategoryBounds{Category: "food", MinAmount: 300, MaxAmount: 600}, bounds[0])
	assert.Equal(t, "leisure", bounds[1].Category)
}
