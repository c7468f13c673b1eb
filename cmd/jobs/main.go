// Package main provides the command line entry point for the daily data pipeline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/nfl-bets/internal/app"
	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/service"
)

var (
	configFile string
	printJSON  bool
	appLog     *logrus.Logger
	components *app.Components
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.PathFromEnv("config/config.yaml"), "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&printJSON, "json", false, "Print the run summary as JSON")

	rootCmd.AddCommand(
		stepCommand(service.StepStats, "Collect the current week's player stats"),
		stepCommand(service.StepProps, "Collect today's player prop lines"),
		stepCommand(service.StepRolling, "Recompute rolling stats for every player"),
		stepCommand(service.StepAll, "Run the full daily pipeline"),
		opportunitiesCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run the NFL prop data pipeline",
	Long:  `Collects weekly stats and prop lines, then refreshes the rolling stats used by the probability engine.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)

		components, err = app.Build(cmd.Context(), cfg, appLog)
		if err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if components != nil {
			components.Close()
		}
	},
}

func stepCommand(step service.Step, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(step),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if components.Jobs == nil {
				return fmt.Errorf("pipeline unavailable: sportsdata and odds API keys are required")
			}
			run, err := components.Jobs.RunStep(cmd.Context(), step)
			if err != nil {
				return err
			}
			if err := report(cmd, run); err != nil {
				return err
			}
			if !run.Succeeded() {
				return fmt.Errorf("%d step(s) failed", len(run.Errors))
			}
			return nil
		},
	}
}

var opportunitiesCmd = &cobra.Command{
	Use:   "opportunities",
	Short: "Evaluate today's prop lines and print value opportunities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opps, err := components.Probabilities.Opportunities(cmd.Context())
		if err != nil {
			return err
		}
		if printJSON {
			return writeJSON(cmd, opps)
		}
		for _, o := range opps {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-24s %-40s %6.2f p=%.3f implied=%.3f edge=%+.3f\n",
				o.Rank, o.PlayerName, o.PropName, o.Price, o.Probability, o.ImpliedProbability, o.Edge)
		}
		if len(opps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No value opportunities found")
		}
		return nil
	},
}

func report(cmd *cobra.Command, run interface{}) error {
	if printJSON {
		return writeJSON(cmd, run)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run summary:\n%s\n", data)
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
