package model

import "time"

// Source records where an analysis or prediction came from.
type Source string

const (
	SourceBackend Source = "backend"
	SourceMock    Source = "mock"
)

// Analysis is a stored analysis: the submitted form, the backend answer and
// an optional prediction attached later.
type Analysis struct {
	ID               string           `json:"id"`
	Scenario         Scenario         `json:"scenario"`
	Result           AnalyzeResponse  `json:"result"`
	Source           Source           `json:"source"`
	Prediction       *PredictResponse `json:"prediction,omitempty"`
	PredictionSource Source           `json:"prediction_source,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// DemandScore returns the analysed demand as a predict input.
func (a *Analysis) DemandScore() *float64 {
	if a == nil {
		return nil
	}
	d := a.Result.Scores.Demand
	return &d
}

// AnalysisFilter narrows a listing of stored analyses. Zero values match
// everything; results are newest first.
type AnalysisFilter struct {
	ProjectType  string
	City         string
	Source       Source
	CreatedAfter time.Time
	Limit        int
	Offset       int
}
