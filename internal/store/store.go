// Package store keeps analyses so the last result and form survive between
// commands.
package store

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/feasibility-cli/internal/model"
)

// ErrNotFound is returned when an analysis ID does not exist.
var ErrNotFound = eris.New("store: analysis not found")

// defaultListLimit caps ListAnalyses when the filter sets no limit.
const defaultListLimit = 100

// Store defines the persistence interface for analyses.
type Store interface {
	// SaveAnalysis inserts a or replaces the record with the same ID. An
	// empty ID is assigned, CreatedAt is set when zero and UpdatedAt is
	// always refreshed.
	SaveAnalysis(ctx context.Context, a *model.Analysis) error
	// LastAnalysis returns the newest analysis, or nil when none exist.
	LastAnalysis(ctx context.Context) (*model.Analysis, error)
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)
	ListAnalyses(ctx context.Context, filter model.AnalysisFilter) ([]model.Analysis, error)
	// AttachPrediction records a prediction made for a stored analysis.
	AttachPrediction(ctx context.Context, id string, p *model.PredictResponse, src model.Source) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

func listLimit(f model.AnalysisFilter) int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

func timeNow() time.Time { return time.Now().UTC() }

// sortNewestFirst orders by CreatedAt descending, keeping the given order for ties.
func sortNewestFirst(items []model.Analysis) {
	slices.SortStableFunc(items, func(a, b model.Analysis) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// stamp fills the bookkeeping fields before a save.
func stamp(a *model.Analysis, newID func() string) {
	now := timeNow()
	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// clone copies a so callers cannot mutate stored state through shared slices.
func clone(a *model.Analysis) *model.Analysis {
	c := *a
	c.Result.Pros = slices.Clone(a.Result.Pros)
	c.Result.Cons = slices.Clone(a.Result.Cons)
	c.Result.POIs = slices.Clone(a.Result.POIs)
	if a.Result.Debug != nil {
		d := *a.Result.Debug
		c.Result.Debug = &d
	}
	if a.Result.Map != nil {
		m := *a.Result.Map
		m.Catchment = slices.Clone(a.Result.Map.Catchment)
		c.Result.Map = &m
	}
	if a.Prediction != nil {
		p := *a.Prediction
		c.Prediction = &p
	}
	return &c
}

type encodedAnalysis struct {
	scenario   []byte
	result     []byte
	prediction []byte // nil when no prediction is attached
}

func encodeAnalysis(a *model.Analysis) (encodedAnalysis, error) {
	var out encodedAnalysis
	var err error
	if out.scenario, err = json.Marshal(a.Scenario); err != nil {
		return out, eris.Wrap(err, "marshal scenario")
	}
	if out.result, err = json.Marshal(a.Result); err != nil {
		return out, eris.Wrap(err, "marshal result")
	}
	if a.Prediction != nil {
		if out.prediction, err = json.Marshal(a.Prediction); err != nil {
			return out, eris.Wrap(err, "marshal prediction")
		}
	}
	return out, nil
}

func decodeAnalysis(a *model.Analysis, scenario, result, prediction []byte) error {
	if err := json.Unmarshal(scenario, &a.Scenario); err != nil {
		return eris.Wrap(err, "unmarshal scenario")
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return eris.Wrap(err, "unmarshal result")
	}
	if len(prediction) > 0 {
		a.Prediction = &model.PredictResponse{}
		if err := json.Unmarshal(prediction, a.Prediction); err != nil {
			return eris.Wrap(err, "unmarshal prediction")
		}
	}
	return nil
}
