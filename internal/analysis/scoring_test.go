package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestProfileFor(t *testing.T) {
	assert.Equal(t, "Cafe", ProfileFor("cafe").Label)
	assert.Equal(t, "Gym / Fitness", ProfileFor(" GYM ").Label)
	assert.Equal(t, "Hostel Mess", ProfileFor("hostel-mess").Label)
	assert.Equal(t, "Hostel Mess", ProfileFor("Hostel Mess").Label)
	assert.Equal(t, "Stationery / Print", ProfileFor("stationery").Label)

	// Unknown types score like a cafe.
	p := ProfileFor("bookstore")
	assert.Equal(t, "cafe", p.Key)
	assert.Equal(t, map[string]string{"amenity": "cafe"}, p.POITags)

	_, ok := LookupProfile("bookstore")
	assert.False(t, ok)
	assert.Equal(t, "business", Label("bookstore"))
	assert.Equal(t, "Hostel Mess", Label("hostel_mess"))
}

func TestNormalizeProjectKey(t *testing.T) {
	assert.Equal(t, "hostel_mess", NormalizeProjectKey("  Hostel-Mess "))
	assert.Equal(t, "quick_bites_cafe", NormalizeProjectKey("Quick Bites Cafe"))
	assert.Equal(t, "", NormalizeProjectKey(""))
}

func TestDensityToScore(t *testing.T) {
	tests := []struct {
		name string
		mean *float64
		max  float64
		want int
	}{
		{"no reading", nil, 5000, NeutralDemand},
		{"half", ptr(2500), 5000, 50},
		{"rounds", ptr(1234), 5000, 25},
		{"half to even", ptr(2525), 5000, 50},
		{"saturates", ptr(7000), 5000, 100},
		{"negative", ptr(-10), 5000, 0},
		{"bad max", ptr(100), 0, NeutralDemand},
		{"nan", ptr(math.NaN()), 5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DensityToScore(tt.mean, tt.max))
		})
	}
}

func TestCompetitionFromCount(t *testing.T) {
	assert.Equal(t, 0, CompetitionFromCount(0, 500))
	assert.Equal(t, 5, CompetitionFromCount(1, 1000))
	assert.Equal(t, 14, CompetitionFromCount(3, 1000))
	assert.Equal(t, 100, CompetitionFromCount(10, 500))
	assert.Equal(t, 0, CompetitionFromCount(10, 0))
}

func TestOpenHoursSpan(t *testing.T) {
	tests := []struct {
		span  string
		hours int
		ok    bool
	}{
		{"08:00-22:00", 14, true},
		{"", 14, true},
		{"22:00-06:00", 8, true},
		{"6-23", 17, true},
		{"09:30-09:15", 0, true},
		{"8:00", 0, false},
		{"a-b", 0, false},
		{"08:00-22:00-23:00", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.span, func(t *testing.T) {
			hours, ok := OpenHoursSpan(tt.span)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.hours, hours)
		})
	}
}

func TestRiskFromInputs(t *testing.T) {
	base := RiskInput{
		ProjectType: "cafe",
		BudgetLakh:  10,
		Seating:     30,
		OpenHours:   "08:00-22:00",
		Demand:      60,
		Competition: 45,
	}
	tests := []struct {
		name   string
		modify func(*RiskInput)
		want   int
	}{
		{"typical cafe", func(*RiskInput) {}, 58},
		{"short budget", func(in *RiskInput) { in.BudgetLakh = 5 }, 73},
		{"ample budget", func(in *RiskInput) { in.BudgetLakh = 30 }, 48},
		{"few seats", func(in *RiskInput) { in.Seating = 10 }, 68},
		{"too many seats", func(in *RiskInput) { in.Seating = 100 }, 63},
		{"very long hours", func(in *RiskInput) { in.OpenHours = "06:00-23:00" }, 63},
		{"overnight", func(in *RiskInput) { in.OpenHours = "22:00-06:00" }, 50},
		{"malformed hours", func(in *RiskInput) { in.OpenHours = "all day" }, 50},
		{"default hours", func(in *RiskInput) { in.OpenHours = "" }, 58},
		{"weak demand and crowded", func(in *RiskInput) { in.Demand = 40; in.Competition = 70 }, 80},
		{"unknown type scores as cafe", func(in *RiskInput) { in.ProjectType = "bakery" }, 58},
		{"gym ignores seating", func(in *RiskInput) { in.ProjectType = "gym"; in.Seating = 0 }, 73},
		{"clamped", func(in *RiskInput) {
			in.BudgetLakh = 1
			in.Seating = 0
			in.OpenHours = "00:00-23:00"
			in.Demand = 0
			in.Competition = 100
		}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.modify(&in)
			assert.Equal(t, tt.want, RiskFromInputs(in))
		})
	}
}
