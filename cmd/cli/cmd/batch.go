// Package cmd - batch command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dpe-envelope/adapters/input"
	"dpe-envelope/core/engine"
	"dpe-envelope/core/output"
	"dpe-envelope/internal/logging"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dwelling>...",
	Short: "Compute several dwellings concurrently",
	Long: `Compute every dwelling given on the command line against the same
reference tables. Results are printed in argument order. A dwelling that
cannot be loaded or computed is reported and does not stop the others.

Examples:
  dpe-envelope batch logements/*.yaml
  dpe-envelope batch --format json a.yaml b.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	addEngineFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := settings(cmd)

	formatter, err := output.New(output.Format(outputFormat), cfg.Engine.Precision)
	if err != nil {
		return err
	}

	e, err := newEngine(cfg)
	if err != nil {
		return err
	}

	failed := 0
	reqs := make([]*engine.Request, 0, len(args))
	sources := make([]string, 0, len(args))
	for _, path := range args {
		d, err := input.Load(path)
		if err != nil {
			failed++
			logging.Warn("dwelling not loaded", zap.String("source", path), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			continue
		}
		reqs = append(reqs, d.Request())
		sources = append(sources, path)
	}

	outcomes, err := e.ComputeBatch(context.Background(), reqs)
	if err != nil {
		return err
	}

	results := make([]*engine.Result, 0, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			failed++
			logging.Warn("dwelling not computed", zap.String("source", sources[i]), zap.Error(o.Err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", sources[i], o.Err)
			continue
		}
		results = append(results, o.Result)
	}

	logging.Info("batch computed",
		zap.Int("dwellings", len(args)),
		zap.Int("failed", failed),
		zap.Int("workers", cfg.Batch.Workers),
	)

	if err := formatter.Render(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d dwellings failed", failed, len(args))
	}
	return nil
}
