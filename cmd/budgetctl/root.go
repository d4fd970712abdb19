package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/aristath/budgetopt/internal/modules/optimization"
	"github.com/aristath/budgetopt/internal/scenario"
	"github.com/aristath/budgetopt/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	flagFile     string
	flagMode     string
	flagTimeout  time.Duration
	flagJSON     bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "budgetctl",
	Short:         "Budget optimizer CLI",
	Long:          "Run what-if budget optimizations on TOML scenario files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Scenario file (TOML)")
	rootCmd.PersistentFlags().StringVarP(&flagMode, "mode", "m", "", "Override the scenario mode (max_savings, balanced, fastest_goal)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", optimization.DefaultSolveTimeout, "Solver time limit")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of a report")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level")
}

// runScenario is the shared load-and-optimize path used by all commands.
func runScenario(ctx context.Context) (optimization.FinancialModel, *optimization.Result, error) {
	if flagFile == "" {
		return optimization.FinancialModel{}, nil, fmt.Errorf("a scenario file is required (-f)")
	}

	model, err := scenario.Load(flagFile)
	if err != nil {
		return model, nil, err
	}
	if flagMode != "" {
		if model.Mode, err = optimization.ParseMode(flagMode); err != nil {
			return model, nil, err
		}
	}

	log := logger.New(logger.Config{Level: flagLogLevel, Pretty: true, Output: os.Stderr})
	svc := optimization.NewService(optimization.NewSimplexSolver(log), flagTimeout, log)

	res, err := svc.Optimize(ctx, model)
	if err != nil {
		return model, nil, err
	}
	return model, res, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
