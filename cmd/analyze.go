package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/monitoring"
	"github.com/sells-group/feasibility-cli/internal/report"
	"github.com/sells-group/feasibility-cli/internal/store"
)

var analyzeFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a business scenario and store the result",
	Long:  "Validates the scenario form, asks the analysis API for scores (falling back to the mock result per api.fallback), saves it as the latest analysis and prints the results view.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sc := model.DefaultScenario()
		if analyzeFile != "" {
			var err error
			if sc, err = loadScenarioFile(analyzeFile, scenarioBase()); err != nil {
				return err
			}
		}
		applyScenarioFlags(cmd.Flags(), &sc)

		sc, err := model.NewScenario(sc)
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

		a, err := runAnalysis(ctx, st, api, sc)
		if err != nil {
			return err
		}
		return report.RenderResults(os.Stdout, a)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "YAML scenario file; flags override its values")
	scenarioFlags(analyzeCmd.Flags())
	rootCmd.AddCommand(analyzeCmd)
}

// scenarioAnalyzer is the fallback-aware analysis call.
type scenarioAnalyzer interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, model.Source, error)
}

// runAnalysis analyzes a validated scenario and saves the outcome.
func runAnalysis(ctx context.Context, st store.Store, api scenarioAnalyzer, sc model.Scenario) (*model.Analysis, error) {
	resp, src, err := api.Analyze(ctx, sc.AnalyzeRequest())
	if err != nil {
		return nil, eris.Wrap(err, "analyze")
	}

	a := &model.Analysis{
		Scenario: sc,
		Result:   *resp,
		Source:   src,
	}
	if err := st.SaveAnalysis(ctx, a); err != nil {
		return nil, eris.Wrap(err, "analyze: save")
	}
	monitoring.AnalysesStored.WithLabelValues(string(src)).Inc()

	zap.L().Info("analysis stored",
		zap.String("id", a.ID),
		zap.String("project_type", string(sc.ProjectType)),
		zap.String("city", sc.City),
		zap.String("source", string(src)),
	)
	return a, nil
}
