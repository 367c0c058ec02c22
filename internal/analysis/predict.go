package analysis

import (
	"context"

	"github.com/sells-group/feasibility-cli/internal/model"
)

// Predictor classifies the viability of a scenario.
type Predictor interface {
	Predict(ctx context.Context, req model.PredictRequest) (*model.PredictResponse, error)
}

// Fallback prediction served when no trained model is loaded.
const (
	FallbackLabel      = "Promising"
	FallbackConfidence = 0.78
	FallbackNote       = "model not loaded, using fallback."
)

// FallbackPredictor answers every request with the fixed fallback prediction.
type FallbackPredictor struct{}

// Predict validates req and returns the fallback prediction.
func (FallbackPredictor) Predict(_ context.Context, req model.PredictRequest) (*model.PredictResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &model.PredictResponse{
		Prediction: FallbackLabel,
		Confidence: FallbackConfidence,
		Note:       FallbackNote,
	}, nil
}
