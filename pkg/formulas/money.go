// Package formulas holds the small numeric helpers shared by the optimizer and its callers.
package formulas

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// MoneyPlaces is the number of decimal places used when presenting amounts.
const MoneyPlaces = 2

// RoundMoney rounds an amount to two decimal places, halves away from zero.
// The decimal conversion uses the shortest representation of the float, so
// 2.675 rounds to 2.68 rather than the 2.67 that binary rounding would give.
func RoundMoney(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(MoneyPlaces).Float64()
	return rounded
}

// RoundMoneyMap returns a copy of amounts with every value rounded.
func RoundMoneyMap(amounts map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(amounts))
	for k, v := range amounts {
		out[k] = RoundMoney(v)
	}
	return out
}

// Sum adds up values; an empty slice sums to zero.
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// RemainderMoney returns total minus parts, computed on the rounded amounts in
// exact decimal arithmetic. Used when a rounded breakdown must add back up to
// the rounded total.
func RemainderMoney(total float64, parts ...float64) float64 {
	rem := decimal.NewFromFloat(total).Round(MoneyPlaces)
	for _, p := range parts {
		rem = rem.Sub(decimal.NewFromFloat(p).Round(MoneyPlaces))
	}
	out, _ := rem.Float64()
	return out
}

// LinearProjection returns the cumulative balance after each of the given
// months when the same amount is added every month (no compounding).
// Entry i holds perMonth * (i+1).
func LinearProjection(perMonth float64, months int) []float64 {
	if months <= 0 {
		return []float64{}
	}
	out := make([]float64, months)
	for i := range out {
		out[i] = perMonth * float64(i+1)
	}
	return out
}

// MonthsToTarget returns how many months of perMonth it takes to reach target.
// The second result is false when the figure is undefined (no target or no
// monthly contribution).
func MonthsToTarget(target, perMonth float64) (float64, bool) {
	if target <= 0 || perMonth <= 0 {
		return 0, false
	}
	return target / perMonth, true
}
