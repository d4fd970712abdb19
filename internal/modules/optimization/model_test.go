package optimization

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() FinancialModel {
	return FinancialModel{
		MonthlyIncome:      5000,
		FixedExpenses:      []FixedExpense{{Category: "rent", Amount: 1500}},
		VariableCategories: []CategoryBounds{{Category: "food", MinAmount: 200, MaxAmount: 500}},
		MonthsToGoal:       12,
		Mode:               ModeMaxSavings,
	}
}

func TestFinancialModel_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(m *FinancialModel)
		field  string
	}{
		{"valid", func(m *FinancialModel) {}, ""},
		{"zero income", func(m *FinancialModel) { m.MonthlyIncome = 0 }, "monthly_income"},
		{"negative income", func(m *FinancialModel) { m.MonthlyIncome = -10 }, "monthly_income"},
		{"NaN income", func(m *FinancialModel) { m.MonthlyIncome = math.NaN() }, "monthly_income"},
		{"negative goal", func(m *FinancialModel) { m.SavingsGoal = -1 }, "savings_goal"},
		{"zero horizon", func(m *FinancialModel) { m.MonthsToGoal = 0 }, "months_to_goal"},
		{"unknown mode", func(m *FinancialModel) { m.Mode = "yolo" }, "optimization_mode"},
		{"negative fixed", func(m *FinancialModel) { m.FixedExpenses[0].Amount = -5 }, "fixed_expenses[0]"},
		{"empty fixed name", func(m *FinancialModel) { m.FixedExpenses[0].Category = " " }, "fixed_expenses[0]"},
		{"duplicate fixed", func(m *FinancialModel) {
			m.FixedExpenses = append(m.FixedExpenses, FixedExpense{Category: "rent", Amount: 1})
		}, "fixed_expenses[1]"},
		{"inverted bounds", func(m *FinancialModel) {
			m.VariableCategories[0] = CategoryBounds{Category: "food", MinAmount: 600, MaxAmount: 500}
		}, "variable_categories[0]"},
		{"negative min", func(m *FinancialModel) { m.VariableCategories[0].MinAmount = -1 }, "variable_categories[0]"},
		{"duplicate variable", func(m *FinancialModel) {
			m.VariableCategories = append(m.VariableCategories, CategoryBounds{Category: "food", MaxAmount: 10})
		}, "variable_categories[1]"},
		{"same name fixed and variable is allowed", func(m *FinancialModel) {
			m.VariableCategories = append(m.VariableCategories, CategoryBounds{Category: "rent", MaxAmount: 10})
		}, ""},
		{"empty variable categories is allowed", func(m *FinancialModel) { m.VariableCategories = nil }, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := validModel()
			tc.mutate(&m)

			err := m.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidModel))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"max_savings", ModeMaxSavings, false},
		{"BALANCED", ModeBalanced, false},
		{" fastest_goal ", ModeFastestGoal, false},
		{"", ModeMaxSavings, false},
		{"cheapest", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			m, err := ParseMode(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidModel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, m)
		})
	}
}

func TestMode_JSON(t *testing.T) {
	var payload struct {
		Mode Mode `json:"mode"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"mode":"balanced"}`), &payload))
	assert.Equal(t, ModeBalanced, payload.Mode)

	err := json.Unmarshal([]byte(`{"mode":"nope"}`), &payload)
	assert.Error(t, err)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"balanced"}`, string(out))
}

func TestFinancialModel_MinimumRequiredIncome(t *testing.T) {
	m := FinancialModel{
		MonthlyIncome: 2000,
		FixedExpenses: []FixedExpense{{Category: "rent", Amount: 1800}},
		VariableCategories: []CategoryBounds{
			{Category: "food", MinAmount: 300, MaxAmount: 600},
		},
		MonthsToGoal: 12,
	}
	assert.Equal(t, 2100.0, m.MinimumRequiredIncome())
	assert.False(t, m.GoalActive())

	m.SavingsGoal = 1200
	assert.True(t, m.GoalActive())
	assert.Equal(t, 100.0, m.RequiredMonthlySavings())
	assert.Equal(t, 2200.0, m.MinimumRequiredIncome())
}
