package optimization

// Status is the outcome of one optimization.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusError      Status = "error"
)

// Result messages
const (
	OptimalMessage     = "Successfully optimized budget allocation"
	SolverErrorMessage = "The optimization could not be completed due to an internal error. Please try again later."
)

// IncomeAllocation splits income into fixed, variable and savings shares.
type IncomeAllocation struct {
	Fixed    float64 `json:"fixed"`
	Variable float64 `json:"variable"`
	Savings  float64 `json:"savings"`
}

// Diagnosis explains why no allocation was found. It is derived from the
// model alone and does not depend on what the solver reported.
type Diagnosis struct {
	MinRequiredIncome float64  `json:"min_required_income"`
	MonthlyIncome     float64  `json:"monthly_income"`
	Shortfall         float64  `json:"shortfall"`
	Suggestions       []string `json:"suggestions,omitempty"`
	SolverTimedOut    bool     `json:"solver_timed_out,omitempty"`
}

// Result is the outcome of one optimization. Monetary values are rounded to
// two decimal places. The JSON form is stored verbatim and displayed later.
// ProjectedSavings is computed from the unrounded monthly savings and rounded
// per entry, so an entry can differ from MonthlySavings*(i+1) by more than a
// cent over long horizons.
type Result struct {
	Status               Status             `json:"status"`
	Mode                 Mode               `json:"mode"`
	Message              string             `json:"message"`
	MonthlySavings       float64            `json:"monthly_savings"`
	SpendingAllocation   map[string]float64 `json:"spending_allocation,omitempty"`
	TotalMonthlySpending float64            `json:"total_monthly_spending"`
	MonthsToGoalActual   *float64           `json:"months_to_goal_actual"`
	ProjectedSavings     []float64          `json:"projected_savings,omitempty"`
	FixedExpenses        map[string]float64 `json:"fixed_expenses,omitempty"`
	TotalFixedExpenses   float64            `json:"total_fixed_expenses"`
	IncomeAllocation     *IncomeAllocation  `json:"income_allocation,omitempty"`
	Diagnosis            *Diagnosis         `json:"diagnosis,omitempty"`
}

// IsOptimal reports whether the result carries an allocation.
func (r *Result) IsOptimal() bool {
	return r != nil && r.Status == StatusOptimal
}

// errorResult builds the generic status=error result returned on solver faults.
func errorResult(mode Mode) *Result {
	return &Result{
		Status:  StatusError,
		Mode:    mode,
		Message: SolverErrorMessage,
	}
}
