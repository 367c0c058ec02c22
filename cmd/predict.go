package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/report"
	"github.com/sells-group/feasibility-cli/internal/store"
)

// errNoAnalysis is returned when a command needs a stored analysis and there is none.
var errNoAnalysis = eris.New("no stored analysis; run `feasibility analyze` first")

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict viability for the latest analyzed scenario",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		api, err := initAPI(cfg.API)
		if err != nil {
			return err
		}
		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		a, err := runPredict(ctx, st, api)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, report.PredictionBadge(a.Prediction))
		if a.PredictionSource == model.SourceMock {
			fmt.Fprintln(os.Stdout, "Backend unavailable, showing mock prediction.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

// scenarioPredictor is the fallback-aware prediction call.
type scenarioPredictor interface {
	Predict(ctx context.Context, req model.PredictRequest) (*model.PredictResponse, model.Source, error)
}

// runPredict predicts for the latest stored scenario, using its analysed
// demand, and attaches the prediction to that analysis.
func runPredict(ctx context.Context, st store.Store, api scenarioPredictor) (*model.Analysis, error) {
	a, err := st.LastAnalysis(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "predict: load last analysis")
	}
	if a == nil {
		return nil, errNoAnalysis
	}

	resp, src, err := api.Predict(ctx, a.Scenario.PredictRequest(a.DemandScore()))
	if err != nil {
		return nil, eris.Wrap(err, "predict")
	}
	if err := st.AttachPrediction(ctx, a.ID, resp, src); err != nil {
		return nil, eris.Wrap(err, "predict: attach")
	}
	a.Prediction = resp
	a.PredictionSource = src

	zap.L().Info("prediction attached",
		zap.String("id", a.ID),
		zap.String("prediction", resp.Prediction),
		zap.Float64("confidence", resp.Confidence),
		zap.String("source", string(src)),
	)
	return a, nil
}
