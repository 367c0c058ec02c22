package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/feasibility-cli/internal/insight"
	"github.com/sells-group/feasibility-cli/internal/model"
)

// collectPageSize is how many analyses one ListAnalyses call reads.
const collectPageSize = 1000

// Snapshot holds a point-in-time summary of stored analyses.
type Snapshot struct {
	Total    int     `json:"total"`
	Backend  int     `json:"backend"`
	Mock     int     `json:"mock"`
	MockRate float64 `json:"mock_rate"`

	Feasible     int     `json:"feasible"`
	FeasibleRate float64 `json:"feasible_rate"`

	WithPrediction int `json:"with_prediction"`

	// Averages over analyses answered by the backend.
	AvgDemand      float64 `json:"avg_demand"`
	AvgRisk        float64 `json:"avg_risk"`
	AvgCompetition float64 `json:"avg_competition"`

	ByProjectType map[string]int `json:"by_project_type"`

	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Lister is the store method the collector needs.
type Lister interface {
	ListAnalyses(ctx context.Context, filter model.AnalysisFilter) ([]model.Analysis, error)
}

// Collector summarizes stored analyses.
type Collector struct {
	store    Lister
	pageSize int
}

// NewCollector creates a new snapshot collector.
func NewCollector(st Lister) *Collector {
	return &Collector{store: st, pageSize: collectPageSize}
}

// Collect summarizes the analyses saved within the lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*Snapshot, error) {
	now := time.Now().UTC()
	snap := &Snapshot{
		ByProjectType: map[string]int{},
		LookbackHours: lookbackHours,
		CollectedAt:   now,
	}

	items, err := c.listWindow(ctx, now.Add(-time.Duration(lookbackHours)*time.Hour))
	if err != nil {
		return nil, err
	}

	var demand, risk, competition float64
	for _, a := range items {
		snap.Total++
		snap.ByProjectType[string(a.Scenario.ProjectType)]++
		if a.Prediction != nil {
			snap.WithPrediction++
		}
		if insight.ComputeFeasibility(a.Result.Scores).Feasible {
			snap.Feasible++
		}

		if a.Source == model.SourceMock {
			snap.Mock++
			continue
		}
		snap.Backend++
		demand += a.Result.Scores.Demand
		risk += a.Result.Scores.Risk
		competition += a.Result.Scores.Competition
	}

	if snap.Total > 0 {
		snap.MockRate = float64(snap.Mock) / float64(snap.Total)
		snap.FeasibleRate = float64(snap.Feasible) / float64(snap.Total)
	}
	if snap.Backend > 0 {
		n := float64(snap.Backend)
		snap.AvgDemand = demand / n
		snap.AvgRisk = risk / n
		snap.AvgCompetition = competition / n
	}
	return snap, nil
}

// listWindow pages through every analysis created after since.
func (c *Collector) listWindow(ctx context.Context, since time.Time) ([]model.Analysis, error) {
	var all []model.Analysis
	for offset := 0; ; offset += c.pageSize {
		page, err := c.store.ListAnalyses(ctx, model.AnalysisFilter{
			CreatedAfter: since,
			Limit:        c.pageSize,
			Offset:       offset,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "monitoring: list analyses (offset %d)", offset)
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			return all, nil
		}
	}
}
