package insight

import "github.com/sells-group/feasibility-cli/internal/model"

// Report bundles every derived view of one score record.
type Report struct {
	Scores          model.Scores     `json:"scores"`
	Feasibility     Feasibility      `json:"feasibility"`
	Recommendations []Recommendation `json:"recommendations"`
	Gap             []GapPoint       `json:"gap"`
	Trend           []TrendPoint     `json:"trend"`
	RiskFactors     []string         `json:"riskFactors"`
}

// Evaluate runs every derivation over s.
func Evaluate(s model.Scores) Report {
	return Report{
		Scores:          s,
		Feasibility:     ComputeFeasibility(s),
		Recommendations: RecommendBusinesses(s),
		Gap:             BuildGapSeries(s),
		Trend:           BuildTrendSeries(s),
		RiskFactors:     InferRiskFactors(s),
	}
}
