package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/feasibility-cli/internal/model"
)

var (
	batchFile        string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze many scenarios from a YAML or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scenarios, err := loadScenarioList(batchFile, scenarioBase())
		if err != nil {
			return err
		}

		api, err := initAPI(cfg.API)
		if err != nil {
			return err
		}
		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		res, err := processBatch(ctx, scenarios, batchConcurrency, func(ctx context.Context, sc model.Scenario) (*model.Analysis, error) {
			return runAnalysis(ctx, st, api, sc)
		})
		if err != nil {
			return err
		}

		formatHistory(os.Stdout, res.Analyses)
		fmt.Fprintf(os.Stdout, "\n%d analyzed, %d failed\n", res.Succeeded, res.Failed)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "scenario list (.yaml or .xlsx)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "scenarios analyzed at once")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// analyzeFunc analyzes and stores one scenario.
type analyzeFunc func(ctx context.Context, sc model.Scenario) (*model.Analysis, error)

// batchResult holds the stored analyses in input order, skipping failures.
type batchResult struct {
	Analyses  []model.Analysis
	Succeeded int
	Failed    int
}

// processBatch validates and analyzes scenarios concurrently. A failed
// scenario is logged and counted without stopping the batch.
func processBatch(ctx context.Context, scenarios []model.Scenario, concurrency int, analyze analyzeFunc) (*batchResult, error) {
	if len(scenarios) == 0 {
		zap.L().Info("no scenarios to analyze")
		return &batchResult{}, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("scenarios", len(scenarios)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	results := make([]*model.Analysis, len(scenarios))
	var succeeded, failed atomic.Int64

	for i, raw := range scenarios {
		g.Go(func() error {
			log := zap.L().With(
				zap.Int("index", i),
				zap.String("project_type", string(raw.ProjectType)),
				zap.String("city", raw.City),
			)

			sc, err := model.NewScenario(raw)
			if err != nil {
				failed.Add(1)
				log.Error("invalid scenario", zap.Error(err))
				return nil
			}

			a, err := analyze(gctx, sc)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			results[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	res := &batchResult{
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}
	for _, a := range results {
		if a != nil {
			res.Analyses = append(res.Analyses, *a)
		}
	}

	zap.L().Info("batch complete",
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
