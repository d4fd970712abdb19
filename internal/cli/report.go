package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aristath/budgetopt/internal/modules/optimization"
)

// RenderResult renders an optimization result with optional recommendations.
func RenderResult(res *optimization.Result, recs []string) string {
	var b strings.Builder

	b.WriteString(RenderTitle("BUDGET " + strings.ToUpper(strings.ReplaceAll(res.Mode.String(), "_", " "))))
	b.WriteString("\n\n")
	b.WriteString("  Status: ")
	b.WriteString(renderStatus(res.Status))
	b.WriteString("\n")
	if res.Message != "" {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(res.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch res.Status {
	case optimization.StatusOptimal:
		renderAllocation(&b, res)
	case optimization.StatusInfeasible:
		renderDiagnosis(&b, res.Diagnosis)
	}

	if len(recs) > 0 {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, r := range recs {
			b.WriteString("  • ")
			b.WriteString(valueStyle.Render(r))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderStatus(s optimization.Status) string {
	switch s {
	case optimization.StatusOptimal:
		return goodStyle.Render(string(s))
	case optimization.StatusInfeasible:
		return warnStyle.Render(string(s))
	default:
		return badStyle.Render(string(s))
	}
}

func renderAllocation(b *strings.Builder, res *optimization.Result) {
	rows := [][]string{}
	for _, c := range sortedKeys(res.FixedExpenses) {
		rows = append(rows, []string{c, "fixed", FormatMoney(res.FixedExpenses[c])})
	}
	for _, c := range sortedKeys(res.SpendingAllocation) {
		rows = append(rows, []string{c, "flexible", FormatMoney(res.SpendingAllocation[c])})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Total spending", "", FormatMoney(res.TotalMonthlySpending)},
		[]string{"Monthly savings", "", FormatMoney(res.MonthlySavings)},
	)
	b.WriteString(RenderTable(Table{
		Title:   "Allocation",
		Headers: []string{"Category", "Kind", "Monthly"},
		Rows:    rows,
	}))
	b.WriteString("\n")

	if res.MonthsToGoalActual != nil {
		fmt.Fprintf(b, "  Goal reached in %.1f months\n", *res.MonthsToGoalActual)
	}
	if n := len(res.ProjectedSavings); n > 0 {
		fmt.Fprintf(b, "  Saved after %d months: %s\n", n, FormatMoney(res.ProjectedSavings[n-1]))
	}
	b.WriteString("\n")
}

func renderDiagnosis(b *strings.Builder, d *optimization.Diagnosis) {
	if d == nil {
		return
	}
	rows := [][]string{
		{"Minimum required income", FormatMoney(d.MinRequiredIncome)},
		{"Monthly income", FormatMoney(d.MonthlyIncome)},
		{"Shortfall", FormatMoney(d.Shortfall)},
	}
	b.WriteString(RenderTable(Table{Title: "Diagnosis", Rows: rows}))
	for i, s := range d.Suggestions {
		fmt.Fprintf(b, "  (%d) %s\n", i+1, s)
	}
	b.WriteString("\n")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
