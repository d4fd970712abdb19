package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	testCases := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"already rounded", 3300, 3300},
		{"half rounds up", 2.675, 2.68},
		{"half rounds up small", 0.125, 0.13},
		{"below half rounds down", 10.004, 10},
		{"negative half away from zero", -1.005, -1.01},
		{"repeating fraction", 6000.0 / 12.0 / 7.0, 71.43},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RoundMoney(tc.input))
		})
	}
}

func TestRoundMoneyMap(t *testing.T) {
	in := map[string]float64{"food": 200.004, "fun": 99.995}
	out := RoundMoneyMap(in)

	assert.Equal(t, map[string]float64{"food": 200.0, "fun": 100.0}, out)
	assert.Equal(t, 200.004, in["food"], "input must not be modified")
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 1800.0, Sum([]float64{1500, 300}))
}

func TestRemainderMoney(t *testing.T) {
	// 1000.00 - 333.33 - 333.33 = 333.34
	assert.Equal(t, 333.34, RemainderMoney(1000, 333.333, 333.333))
	assert.Equal(t, 3300.0, RemainderMoney(5000, 1500, 200))
}

func TestLinearProjection(t *testing.T) {
	assert.Empty(t, LinearProjection(100, 0))

	projected := LinearProjection(250, 4)
	assert.Equal(t, []float64{250, 500, 750, 1000}, projected)

	flat := LinearProjection(0, 3)
	assert.Equal(t, []float64{0, 0, 0}, flat)
}

func TestMonthsToTarget(t *testing.T) {
	months, ok := MonthsToTarget(6000, 500)
	assert.True(t, ok)
	assert.Equal(t, 12.0, months)

	_, ok = MonthsToTarget(0, 500)
	assert.False(t, ok, "no goal means no horizon")

	_, ok = MonthsToTarget(6000, 0)
	assert.False(t, ok, "no savings means no horizon")
}
