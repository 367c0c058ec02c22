package feasapi

import "github.com/sells-group/feasibility-cli/internal/model"

// MockAnalysis returns the canned analysis shown when the API is unavailable.
func MockAnalysis() *model.AnalyzeResponse {
	return &model.AnalyzeResponse{
		Summary: "Dummy feasibility (mock): good demand near campus; watch competition.",
		Pros:    []string{"High student footfall (mock)", "Lower rent (mock)"},
		Cons:    []string{"Nearby competition (mock)", "Seasonal demand (mock)"},
		Scores:  model.Scores{Risk: 42, Demand: 75, Competition: 60},
	}
}

// MockPrediction returns the canned prediction shown when the API is unavailable.
func MockPrediction() *model.PredictResponse {
	return &model.PredictResponse{
		Prediction: "Promising (mock)",
		Confidence: 0.78,
	}
}
