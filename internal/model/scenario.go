package model

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

// ProjectType enumerates the business formats offered by the scenario form.
type ProjectType string

const (
	ProjectCafe       ProjectType = "cafe"
	ProjectGym        ProjectType = "gym"
	ProjectHostelMess ProjectType = "hostel-mess"
	ProjectBookstore  ProjectType = "bookstore"
	ProjectOther      ProjectType = "other"
)

// Scenario is the business-scenario form a user fills in before analysis.
type Scenario struct {
	ProjectType          ProjectType `json:"project_type" yaml:"project_type" validate:"required,oneof=cafe gym hostel-mess bookstore other"`
	City                 string      `json:"city" yaml:"city" validate:"required,min=1"`
	Address              string      `json:"address,omitempty" yaml:"address"`
	BudgetLakh           float64     `json:"budget_lakh" yaml:"budget_lakh" validate:"gte=1"`
	SeatingCapacity      int         `json:"seating_capacity" yaml:"seating_capacity" validate:"gte=1"`
	OpenHours            string      `json:"open_hours,omitempty" yaml:"open_hours"`
	Lat                  float64     `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon                  float64     `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
	RadiusM              int         `json:"radius_m" yaml:"radius_m" validate:"gte=50,lte=5000"`
	UsePopulationDensity bool        `json:"use_population_density" yaml:"use_population_density"`
	ConsiderCompetition  bool        `json:"consider_competition" yaml:"consider_competition"`
	Notes                string      `json:"notes,omitempty" yaml:"notes"`
}

// DefaultScenario returns the form's initial values (a campus-adjacent cafe in Vellore).
func DefaultScenario() Scenario {
	return Scenario{
		ProjectType:          ProjectCafe,
		City:                 "Vellore",
		BudgetLakh:           10,
		SeatingCapacity:      30,
		OpenHours:            "08:00-22:00",
		Lat:                  12.9698,
		Lon:                  79.1559,
		RadiusM:              500,
		UsePopulationDensity: true,
		ConsiderCompetition:  true,
		Notes:                "Target students near PRP block; affordable breakfast menu.",
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the form's field ranges.
func (s *Scenario) Validate() error {
	if err := structValidator().Struct(s); err != nil {
		return eris.Wrap(err, "scenario: validate")
	}
	return nil
}

// NewScenario applies the form defaults to any zero-valued optional fields
// of s and validates the result.
func NewScenario(s Scenario) (Scenario, error) {
	if s.RadiusM == 0 {
		s.RadiusM = 500
	}
	if s.OpenHours == "" {
		s.OpenHours = "08:00-22:00"
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// AnalyzeRequest converts the form into the backend /analyze payload.
func (s Scenario) AnalyzeRequest() AnalyzeRequest {
	lat, lon := s.Lat, s.Lon
	return AnalyzeRequest{
		ProjectType:          string(s.ProjectType),
		City:                 s.City,
		Address:              s.Address,
		Lat:                  &lat,
		Lon:                  &lon,
		RadiusM:              s.RadiusM,
		BudgetLakh:           s.BudgetLakh,
		SeatingCapacity:      s.SeatingCapacity,
		OpenHours:            s.OpenHours,
		UsePopulationDensity: s.UsePopulationDensity,
		ConsiderCompetition:  s.ConsiderCompetition,
		Notes:                s.Notes,
	}
}

// PredictRequest converts the form into the backend /predict payload. The
// demand score is attached only when a previous analysis supplied one.
func (s Scenario) PredictRequest(demand *float64) PredictRequest {
	return PredictRequest{
		ProjectType:     string(s.ProjectType),
		City:            s.City,
		BudgetLakh:      s.BudgetLakh,
		SeatingCapacity: s.SeatingCapacity,
		RadiusM:         s.RadiusM,
		DemandScore:     demand,
	}
}
