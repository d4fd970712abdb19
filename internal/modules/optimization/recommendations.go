package optimization

import "fmt"

// Recommendation thresholds
const (
	NearMaximumRatio      = 0.8 // Allocation above 80% of a category's ceiling is flagged
	LongGoalHorizonMonths = 24  // Goals further out than this get a spending-cut nudge
)

// DefaultRecommendations is shown when no rule fires.
var DefaultRecommendations = []string{
	"Your budget looks well-optimized!",
	"Keep tracking your expenses and adjusting as needed.",
}

// Recommend produces advice for an optimal allocation. Categories are visited
// in the order of bounds, so the output is stable for identical inputs.
// The result may be empty.
func Recommend(allocation map[string]float64, bounds []CategoryBounds, monthlySavings, savingsGoal float64) []string {
	recs := []string{}

	for _, b := range bounds {
		amount, ok := allocation[b.Category]
		if !ok {
			continue
		}
		if amount > NearMaximumRatio*b.MaxAmount {
			recs = append(recs, fmt.Sprintf(
				"You're spending $%.2f on %s, close to your maximum. Reducing to minimum ($%.2f) could save $%.2f/month.",
				amount, b.Category, b.MinAmount, amount-b.MinAmount,
			))
		}
	}

	if savingsGoal > 0 && monthlySavings > 0 {
		months := savingsGoal / monthlySavings
		if months > LongGoalHorizonMonths {
			recs = append(recs, fmt.Sprintf(
				"At current savings rate, it will take %.0f months to reach your goal. Consider reducing discretionary spending to accelerate.",
				months,
			))
		}
	}

	if savingsGoal == 0 && monthlySavings > 0 {
		recs = append(recs, fmt.Sprintf(
			"Great job saving $%.2f/month! Consider setting a specific goal like building a 6-month emergency fund.",
			monthlySavings,
		))
	}

	return recs
}

// RecommendOrDefault returns Recommend's output, or DefaultRecommendations when it is empty.
func RecommendOrDefault(allocation map[string]float64, bounds []CategoryBounds, monthlySavings, savingsGoal float64) []string {
	recs := Recommend(allocation, bounds, monthlySavings, savingsGoal)
	if len(recs) == 0 {
		return append([]string(nil), DefaultRecommendations...)
	}
	return recs
}
