package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Default values applied by the backend to omitted /analyze fields.
const (
	DefaultRadiusM    = 500
	DefaultBudgetLakh = 10.0
	DefaultOpenHours  = "08:00-22:00"
)

// AnalyzeRequest is the /analyze payload.
type AnalyzeRequest struct {
	ProjectType          string   `json:"project_type" validate:"required"`
	City                 string   `json:"city,omitempty"`
	Address              string   `json:"address,omitempty"`
	Lat                  *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon                  *float64 `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	RadiusM              int      `json:"radius_m" validate:"gte=0"`
	BudgetLakh           float64  `json:"budget_lakh"`
	SeatingCapacity      int      `json:"seating_capacity"`
	OpenHours            string   `json:"open_hours,omitempty"`
	UsePopulationDensity bool     `json:"use_population_density"`
	ConsiderCompetition  bool     `json:"consider_competition"`
	Notes                string   `json:"notes,omitempty"`
}

// NewAnalyzeRequest returns a request pre-filled with the backend defaults.
// Decoding JSON into it leaves omitted fields at those defaults.
func NewAnalyzeRequest() AnalyzeRequest {
	return AnalyzeRequest{
		RadiusM:              DefaultRadiusM,
		BudgetLakh:           DefaultBudgetLakh,
		OpenHours:            DefaultOpenHours,
		UsePopulationDensity: true,
		ConsiderCompetition:  true,
	}
}

// HasLocation reports whether both coordinates are present.
func (r AnalyzeRequest) HasLocation() bool {
	return r.Lat != nil && r.Lon != nil
}

// Validate checks required fields and coordinate ranges.
func (r *AnalyzeRequest) Validate() error {
	if err := structValidator().Struct(r); err != nil {
		return eris.Wrap(err, "analyze request: validate")
	}
	return nil
}

// POI is a point of interest counted toward competition.
type POI struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
	Type string  `json:"type"`
}

// AnalyzeDebug exposes the raw signals behind the scores.
type AnalyzeDebug struct {
	POICount    int      `json:"poi_count"`
	MeanDensity *float64 `json:"mean_density"`
	TIFUsed     bool     `json:"tif_used"`
}

// MapPreview describes the analysed catchment for a map view.
type MapPreview struct {
	Lat       float64         `json:"lat"`
	Lon       float64         `json:"lon"`
	RadiusM   int             `json:"radius_m"`
	Zoom      int             `json:"zoom"`
	Bounds    [4]float64      `json:"bounds"`
	Catchment json.RawMessage `json:"catchment"`
}

// AnalyzeResponse is the /analyze result.
type AnalyzeResponse struct {
	Summary string        `json:"summary"`
	Pros    []string      `json:"pros"`
	Cons    []string      `json:"cons"`
	Scores  Scores        `json:"scores"`
	Debug   *AnalyzeDebug `json:"debug,omitempty"`
	POIs    []POI         `json:"pois,omitempty"`
	Map     *MapPreview   `json:"map,omitempty"`
}

// PredictRequest is the /predict payload.
type PredictRequest struct {
	ProjectType     string   `json:"project_type" validate:"required"`
	City            string   `json:"city" validate:"required"`
	BudgetLakh      float64  `json:"budget_lakh"`
	SeatingCapacity int      `json:"seating_capacity"`
	RadiusM         int      `json:"radius_m"`
	DemandScore     *float64 `json:"demand_score,omitempty"`
}

// NewPredictRequest returns a request pre-filled with the backend defaults.
func NewPredictRequest() PredictRequest {
	return PredictRequest{RadiusM: DefaultRadiusM}
}

// Validate checks required fields.
func (r *PredictRequest) Validate() error {
	if err := structValidator().Struct(r); err != nil {
		return eris.Wrap(err, "predict request: validate")
	}
	return nil
}

// PredictResponse is the /predict result. Confidence is in [0,1].
type PredictResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Note       string  `json:"note,omitempty"`
}
