package analysis

import (
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/feasibility-cli/internal/geo"
	"github.com/sells-group/feasibility-cli/internal/model"
)

// Score bounds shared by every backend score.
const (
	minScore = 0
	maxScore = 100
)

// clampScore rounds half to even and bounds the result to [0,100].
func clampScore(x float64) int {
	if math.IsNaN(x) {
		return minScore
	}
	r := math.RoundToEven(x)
	if r < minScore {
		return minScore
	}
	if r > maxScore {
		return maxScore
	}
	return int(r)
}

// NeutralDemand is the demand score used when no density reading exists.
const NeutralDemand = 60

// DensityToScore maps a mean population density to a 0..100 demand score
// relative to maxVal. A nil mean yields NeutralDemand.
func DensityToScore(mean *float64, maxVal float64) int {
	if mean == nil || maxVal <= 0 {
		return NeutralDemand
	}
	return clampScore(100 * *mean / maxVal)
}

// CompetitionFromCount scores how saturated a circular catchment of radiusM
// metres is, given the number of competing POIs found inside it.
func CompetitionFromCount(count, radiusM int) int {
	area := geo.AreaKM2(radiusM)
	var density float64
	if area > 0 {
		density = float64(count) / area
	}
	return clampScore(density * 15)
}

// Risk adjustments applied by RiskFromInputs.
const (
	riskBase            = 50
	riskBudgetShort     = 15
	riskBudgetAmple     = -10
	riskSeatingShort    = 10
	riskSeatingOver     = 5
	riskLongHours       = 8
	riskVeryLongHours   = 5
	riskLowDemand       = 10
	riskHighCompetition = 12
)

// RiskInput collects the inputs to RiskFromInputs.
type RiskInput struct {
	ProjectType string
	BudgetLakh  float64
	Seating     int
	OpenHours   string
	Demand      int
	Competition int
}

// RiskFromInputs estimates operational risk from budget, seating and opening
// hours against the project's typical profile, adjusted by demand and
// competition.
func RiskFromInputs(in RiskInput) int {
	p := ProfileFor(in.ProjectType)
	risk := riskBase

	if in.BudgetLakh < p.BudgetLow {
		risk += riskBudgetShort
	}
	if in.BudgetLakh > p.BudgetHigh {
		risk += riskBudgetAmple
	}

	if p.SeatingHigh > 0 {
		if in.Seating < p.SeatingLow {
			risk += riskSeatingShort
		}
		if in.Seating > p.SeatingHigh {
			risk += riskSeatingOver
		}
	}

	if open, ok := OpenHoursSpan(in.OpenHours); ok {
		if open >= 12 {
			risk += riskLongHours
		}
		if open >= 16 {
			risk += riskVeryLongHours
		}
	}

	if in.Demand <= 40 {
		risk += riskLowDemand
	}
	if in.Competition >= 70 {
		risk += riskHighCompetition
	}

	return clampScore(float64(risk))
}

// OpenHoursSpan returns the number of whole hours between the start and end
// of an "HH:MM-HH:MM" span, wrapping past midnight. Only the hour parts are
// read. An empty span means model.DefaultOpenHours. ok is false when the
// span cannot be parsed.
func OpenHoursSpan(span string) (hours int, ok bool) {
	if span == "" {
		span = model.DefaultOpenHours
	}
	parts := strings.Split(span, "-")
	if len(parts) != 2 {
		return 0, false
	}
	start, err := leadingHour(parts[0])
	if err != nil {
		return 0, false
	}
	end, err := leadingHour(parts[1])
	if err != nil {
		return 0, false
	}
	return ((end-start)%24 + 24) % 24, true
}

func leadingHour(s string) (int, error) {
	h, _, _ := strings.Cut(s, ":")
	return strconv.Atoi(strings.TrimSpace(h))
}
