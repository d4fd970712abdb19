package main

import (
	"fmt"

	"github.com/aristath/budgetopt/internal/cli"
	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Optimize a scenario and print the allocation",
	RunE:  runScenarioCmd,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Optimize a scenario and print recommendations",
	RunE:  runRecommendCmd,
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(recommendCmd)
}

func runScenarioCmd(cmd *cobra.Command, _ []string) error {
	_, res, err := runScenario(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, res)
	}
	fmt.Fprintln(out, cli.RenderResult(res, nil))
	return exitStatus(res)
}

func runRecommendCmd(cmd *cobra.Command, _ []string) error {
	model, res, err := runScenario(cmd.Context())
	if err != nil {
		return err
	}

	var recs []string
	if res.IsOptimal() {
		recs = optimization.RecommendOrDefault(res.SpendingAllocation, model.VariableCategories, res.MonthlySavings, model.SavingsGoal)
	} else {
		recs = []string{res.Message}
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, recs)
	}
	fmt.Fprintln(out, cli.RenderResult(res, recs))
	return exitStatus(res)
}

// exitStatus turns solver faults into a non-zero exit.
func exitStatus(res *optimization.Result) error {
	if res.Status == optimization.StatusError {
		return fmt.Errorf("optimization failed: %s", res.Message)
	}
	return nil
}
