package insight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/feasibility-cli/internal/model"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 100.0, Clamp(140))
	assert.Equal(t, 42.5, Clamp(42.5))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 100.0, Clamp(math.Inf(1)))
	assert.Equal(t, 0.0, Clamp(math.Inf(-1)))

	assert.Equal(t, 10.0, ClampTo(3, 10, 20))
	assert.Equal(t, 20.0, ClampTo(30, 10, 20))
	assert.Equal(t, 10.0, ClampTo(math.NaN(), 10, 20))
}

func TestComputeFeasibility(t *testing.T) {
	tests := []struct {
		name     string
		scores   model.Scores
		score    int
		feasible bool
	}{
		{"best case", model.Scores{Demand: 100, Risk: 0, Competition: 0}, 100, true},
		{"worst case", model.Scores{Demand: 0, Risk: 100, Competition: 100}, 0, false},
		{"mock payload", model.Scores{Demand: 75, Risk: 42, Competition: 60}, 63, false},
		{"exactly at cutoff", model.Scores{Demand: 70, Risk: 40, Competition: 40}, 65, true},
		{"out of range clamps", model.Scores{Demand: 180, Risk: -40, Competition: -1}, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFeasibility(tt.scores)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.feasible, got.Feasible)
			assert.Equal(t, 65, got.Cutoff)
		})
	}
}

func TestComputeFeasibility_Parts(t *testing.T) {
	got := ComputeFeasibility(model.Scores{Demand: 120, Risk: 30, Competition: 110})
	assert.Equal(t, Parts{Demand: 100, Safety: 70, OpenSpace: 0}, got.Parts)
}

func TestRecommendBusinesses_MockPayload(t *testing.T) {
	got := RecommendBusinesses(model.Scores{Demand: 75, Risk: 42, Competition: 60})
	require.Len(t, got, 3)

	// Gym and Hostel Mess tie at 63; declaration order decides.
	assert.Equal(t, []Recommendation{
		{Name: "Cafe / Quick Bites", Prob: 64},
		{Name: "Gym / Fitness", Prob: 63},
		{Name: "Hostel Mess", Prob: 63},
	}, got)
}

func TestRecommendBusinesses_AllTied(t *testing.T) {
	got := RecommendBusinesses(model.Scores{Demand: 50, Risk: 50, Competition: 50})
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, 50, r.Prob)
	}
	assert.Equal(t, "Cafe / Quick Bites", got[0].Name)
	assert.Equal(t, "Gym / Fitness", got[1].Name)
	assert.Equal(t, "Stationery / Print", got[2].Name)
}

func TestRecommendBusinesses_ClampsInputs(t *testing.T) {
	got := RecommendBusinesses(model.Scores{Demand: 150, Risk: -20, Competition: -5})
	for _, r := range got {
		assert.Equal(t, 100, r.Prob)
	}
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{
		"Cafe / Quick Bites", "Gym / Fitness", "Stationery / Print", "Hostel Mess",
	}, Categories())
}

func TestBuildGapSeries(t *testing.T) {
	got := BuildGapSeries(model.Scores{Demand: 75, Risk: 42, Competition: 60})
	assert.Equal(t, []GapPoint{
		{Label: "Food", Demand: 75, Supply: 49},
		{Label: "Fitness", Demand: 75, Supply: 43},
		{Label: "Services", Demand: 75, Supply: 54},
	}, got)
}

func TestBuildGapSeries_NoCompetition(t *testing.T) {
	got := BuildGapSeries(model.Scores{Demand: 100, Competition: 0})
	// supplyFactor bottoms out at 0.3.
	assert.Equal(t, 30, got[2].Supply)
	assert.Equal(t, 27, got[0].Supply)
	assert.Equal(t, 24, got[1].Supply)
}

func TestBuildTrendSeries(t *testing.T) {
	got := BuildTrendSeries(model.Scores{Demand: 75, Risk: 42, Competition: 60})
	require.Len(t, got, 12)

	want := []int{76, 76, 77, 77, 78, 79, 79, 80, 80, 81, 82, 82}
	for i, p := range got {
		assert.Equal(t, i+1, p.Month)
		assert.Equal(t, want[i], p.Demand, "month %d", p.Month)
	}
}

func TestBuildTrendSeries_SaturatesEarly(t *testing.T) {
	got := BuildTrendSeries(model.Scores{Demand: 99, Risk: 0, Competition: 0})
	for _, p := range got {
		assert.Equal(t, 100, p.Demand, "month %d", p.Month)
	}
}

func TestBuildTrendSeries_ClampsDrags(t *testing.T) {
	// Out-of-range risk would otherwise produce a negative step.
	got := BuildTrendSeries(model.Scores{Demand: 50, Risk: 500, Competition: 500})
	assert.GreaterOrEqual(t, got[11].Demand, got[0].Demand)
	assert.Equal(t, 52, got[11].Demand) // 50 + 12*0.15
}

func TestInferRiskFactors(t *testing.T) {
	tests := []struct {
		name   string
		scores model.Scores
		want   []string
	}{
		{"high risk only", model.Scores{Risk: 80, Competition: 30, Demand: 60}, []string{RiskHighOperational}},
		{"no red flags", model.Scores{Risk: 10, Competition: 10, Demand: 90}, []string{RiskNoRedFlags}},
		{"all triggers in order", model.Scores{Risk: 90, Competition: 90, Demand: 10},
			[]string{RiskHighOperational, RiskDenseCompetition, RiskWeakDemand}},
		{"thresholds inclusive", model.Scores{Risk: 70, Competition: 70, Demand: 40},
			[]string{RiskHighOperational, RiskDenseCompetition, RiskWeakDemand}},
		{"just below thresholds", model.Scores{Risk: 69.9, Competition: 69.9, Demand: 40.1}, []string{RiskNoRedFlags}},
		{"competition and demand", model.Scores{Risk: 20, Competition: 75, Demand: 30},
			[]string{RiskDenseCompetition, RiskWeakDemand}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferRiskFactors(tt.scores))
		})
	}
}

func TestEvaluate(t *testing.T) {
	s := model.Scores{Demand: 75, Risk: 42, Competition: 60}
	r := Evaluate(s)

	assert.Equal(t, s, r.Scores)
	assert.Equal(t, 63, r.Feasibility.Score)
	assert.Len(t, r.Recommendations, 3)
	assert.Len(t, r.Gap, 3)
	assert.Len(t, r.Trend, 12)
	assert.Equal(t, []string{RiskNoRedFlags}, r.RiskFactors)
}

func TestPlaceholders(t *testing.T) {
	assert.Len(t, Demographics(), 4)
	assert.Equal(t, "Students", Demographics()[0].Label)
	assert.Len(t, Spending(), 2)
}
