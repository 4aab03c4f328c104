// Package cmd - compute command
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dpe-envelope/adapters/input"
	tableloader "dpe-envelope/adapters/tables"
	"dpe-envelope/core/engine"
	"dpe-envelope/core/enums"
	"dpe-envelope/core/output"
	"dpe-envelope/internal/config"
	"dpe-envelope/internal/logging"
)

var (
	tablesPath   string
	outputFormat string
	legacyCompat bool
	precision    int32
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute <dwelling>",
	Short: "Compute the floor coefficients of one dwelling",
	Long: `Load a dwelling description (YAML or JSON), resolve the coefficients of
its low floors against the reference tables and print the result.

Floors whose coefficients cannot be resolved are listed as unresolved; they
never fail the command.

Examples:
  dpe-envelope compute maison.yaml
  dpe-envelope compute --tables tables.yaml --format json appartement.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

func init() {
	addEngineFlags(computeCmd)
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&tablesPath, "tables", "t", "", "reference table file (default from config)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
	cmd.Flags().BoolVar(&legacyCompat, "legacy", true, "reproduce the reference engine's method overrides and period substitution")
	cmd.Flags().Int32Var(&precision, "precision", 4, "decimal places of printed coefficients")
}

// settings merges the command flags over the global configuration
func settings(cmd *cobra.Command) config.Config {
	cfg := *config.Get()
	if cmd.Flags().Changed("tables") {
		cfg.Tables.Path = tablesPath
	}
	if cmd.Flags().Changed("legacy") {
		cfg.Engine.LegacyCompat = legacyCompat
	}
	if cmd.Flags().Changed("precision") {
		cfg.Engine.Precision = precision
	}
	return cfg
}

func newEngine(cfg config.Config) (*engine.Engine, error) {
	snap, err := tableloader.Load(cfg.Tables.Path)
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(snap, enums.Default(), engine.Config{
		LegacyCompat: cfg.Engine.LegacyCompat,
		Workers:      cfg.Batch.Workers,
	}, logging.Logger), nil
}

func runCompute(cmd *cobra.Command, args []string) error {
	cfg := settings(cmd)

	formatter, err := output.New(output.Format(outputFormat), cfg.Engine.Precision)
	if err != nil {
		return err
	}

	e, err := newEngine(cfg)
	if err != nil {
		return err
	}

	dwelling, err := input.Load(args[0])
	if err != nil {
		return err
	}

	logging.Info("computing dwelling",
		zap.String("dwelling", dwelling.ID),
		zap.String("source", dwelling.Source),
		zap.Bool("legacy_compat", cfg.Engine.LegacyCompat),
	)

	result, err := e.Compute(context.Background(), dwelling.Request())
	if err != nil {
		logging.Error("dwelling not computed", zap.String("dwelling", dwelling.ID), zap.Error(err))
		return err
	}

	return formatter.Render(cmd.OutOrStdout(), []*engine.Result{result})
}
