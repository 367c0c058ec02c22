// Package insight derives the feasibility score, business recommendations,
// demand/supply gap, 12-month trend and risk factors from a score record.
//
// Every function is pure: inputs are clamped to [0,100] before use, results
// are fresh values, and no state is shared between calls.
package insight

import (
	"math"
	"slices"

	"github.com/sells-group/feasibility-cli/internal/model"
)

// Cutoff is the minimum feasibility score considered feasible.
const Cutoff = 65

// Feasibility score weights.
const (
	demandWeight    = 0.5
	safetyWeight    = 0.3
	openSpaceWeight = 0.2
)

// Clamp restricts n to [0,100].
func Clamp(n float64) float64 {
	return ClampTo(n, 0, 100)
}

// ClampTo restricts n to [lo,hi]. NaN maps to lo.
func ClampTo(n, lo, hi float64) float64 {
	if math.IsNaN(n) {
		return lo
	}
	return math.Max(lo, math.Min(hi, n))
}

func clampInt(n int) int {
	return max(0, min(100, n))
}

// round is half away from zero; all callers pass non-negative values.
func round(x float64) int {
	return int(math.Round(x))
}

// Parts is the per-signal breakdown behind a feasibility score.
type Parts struct {
	Demand    float64 `json:"demand"`
	Safety    float64 `json:"safety"`
	OpenSpace float64 `json:"openSpace"`
}

// Feasibility is the Business Feasibility Score and its verdict.
type Feasibility struct {
	Score    int   `json:"score"`
	Feasible bool  `json:"feasible"`
	Cutoff   int   `json:"cutoff"`
	Parts    Parts `json:"parts"`
}

// ComputeFeasibility weights demand, safety (100-risk) and open space
// (100-competition) 0.5/0.3/0.2 into a 0-100 score.
func ComputeFeasibility(s model.Scores) Feasibility {
	parts := Parts{
		Demand:    Clamp(s.Demand),
		Safety:    100 - Clamp(s.Risk),
		OpenSpace: 100 - Clamp(s.Competition),
	}
	score := round(demandWeight*parts.Demand + safetyWeight*parts.Safety + openSpaceWeight*parts.OpenSpace)
	return Feasibility{
		Score:    score,
		Feasible: score >= Cutoff,
		Cutoff:   Cutoff,
		Parts:    parts,
	}
}

// Recommendation is a business category and its viability probability (0-100).
type Recommendation struct {
	Name string `json:"name"`
	Prob int    `json:"prob"`
}

type category struct {
	name                     string
	wDemand, wSafety, wSpace float64
}

// categories is declaration-ordered; ties in RecommendBusinesses keep this order.
var categories = [...]category{
	{"Cafe / Quick Bites", 0.58, 0.22, 0.20},
	{"Gym / Fitness", 0.50, 0.30, 0.20},
	{"Stationery / Print", 0.40, 0.35, 0.25},
	{"Hostel Mess", 0.52, 0.28, 0.20},
}

// Categories returns the recommendation category labels in declaration order.
func Categories() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.name
	}
	return names
}

// RecommendBusinesses returns the three most viable categories, highest first.
func RecommendBusinesses(s model.Scores) []Recommendation {
	d := Clamp(s.Demand)
	safety := 100 - Clamp(s.Risk)
	space := 100 - Clamp(s.Competition)

	items := make([]Recommendation, len(categories))
	for i, c := range categories {
		items[i] = Recommendation{
			Name: c.name,
			Prob: clampInt(round(c.wDemand*d + c.wSafety*safety + c.wSpace*space)),
		}
	}
	slices.SortStableFunc(items, func(a, b Recommendation) int {
		return b.Prob - a.Prob
	})
	return items[:3]
}

// GapPoint compares demand against the inferred supply for one segment.
type GapPoint struct {
	Label  string  `json:"label"`
	Demand float64 `json:"demand"`
	Supply int     `json:"supply"`
}

// BuildGapSeries infers supply from competition. Supply is a placeholder until
// real supply data exists, so every segment reports the same demand.
func BuildGapSeries(s model.Scores) []GapPoint {
	demand := Clamp(s.Demand)
	competition := Clamp(s.Competition)
	supplyFactor := 0.3 + 0.7*(competition/100) // 0.3..1.0
	supply := float64(round(demand * supplyFactor))

	return []GapPoint{
		{Label: "Food", Demand: demand, Supply: round(supply * 0.9)},
		{Label: "Fitness", Demand: demand, Supply: round(supply * 0.8)},
		{Label: "Services", Demand: demand, Supply: round(supply * 1.0)},
	}
}

// TrendPoint is the projected demand level for one month.
type TrendPoint struct {
	Month  int `json:"month"`
	Demand int `json:"demand"`
}

// BuildTrendSeries projects demand over 12 months: a slight monthly rise
// reduced by risk and competition drag, saturating at 100.
func BuildTrendSeries(s model.Scores) []TrendPoint {
	riskDrag := (Clamp(s.Risk) - 50) / 200        // -0.25..+0.25
	compDrag := (Clamp(s.Competition) - 50) / 250 // -0.20..+0.20
	step := 0.6 - riskDrag - compDrag

	level := Clamp(s.Demand)
	points := make([]TrendPoint, 12)
	for i := range points {
		level = Clamp(level + step)
		points[i] = TrendPoint{Month: i + 1, Demand: round(level)}
	}
	return points
}

// Risk factor sentences.
const (
	RiskHighOperational  = "High operational risk (capital/seasonality)."
	RiskDenseCompetition = "Dense competition within the catchment."
	RiskWeakDemand       = "Weak local demand; consider alternative spot."
	RiskNoRedFlags       = "No major red flags detected."
)

// InferRiskFactors lists the red flags raised by the score record, in
// risk, competition, demand order. It never returns an empty list.
func InferRiskFactors(s model.Scores) []string {
	var items []string
	if Clamp(s.Risk) >= 70 {
		items = append(items, RiskHighOperational)
	}
	if Clamp(s.Competition) >= 70 {
		items = append(items, RiskDenseCompetition)
	}
	if Clamp(s.Demand) <= 40 {
		items = append(items, RiskWeakDemand)
	}
	if len(items) == 0 {
		items = append(items, RiskNoRedFlags)
	}
	return items
}
