package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/report"
)

// scenarioBase is the form default used for scenario files: the initial
// form values without the sample address and notes.
func scenarioBase() model.Scenario {
	s := model.DefaultScenario()
	s.Address = ""
	s.Notes = ""
	return s
}

// loadScenarioFile reads a single YAML scenario over base.
func loadScenarioFile(path string, base model.Scenario) (model.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Scenario{}, eris.Wrapf(err, "read scenario file %s", path)
	}
	s := base
	if err := yaml.Unmarshal(data, &s); err != nil {
		return model.Scenario{}, eris.Wrapf(err, "parse scenario file %s", path)
	}
	return s, nil
}

// loadScenarioList reads many scenarios from a YAML list or an XLSX sheet.
// Each entry starts from base.
func loadScenarioList(path string, base model.Scenario) ([]model.Scenario, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return report.ReadScenarios(path, base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read scenario file %s", path)
	}
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, eris.Wrapf(err, "parse scenario file %s", path)
	}

	out := make([]model.Scenario, 0, len(nodes))
	for i := range nodes {
		s := base
		if err := nodes[i].Decode(&s); err != nil {
			return nil, eris.Wrapf(err, "parse scenario %d in %s", i+1, path)
		}
		out = append(out, s)
	}
	return out, nil
}

// scenarioFlags registers the form fields as flags on fs.
func scenarioFlags(fs *pflag.FlagSet) {
	def := model.DefaultScenario()
	fs.String("project-type", string(def.ProjectType), "business format (cafe, gym, hostel-mess, bookstore, other)")
	fs.String("city", def.City, "city name")
	fs.String("address", "", "street address")
	fs.Float64("budget", def.BudgetLakh, "budget in lakh INR")
	fs.Int("seating", def.SeatingCapacity, "seating or member capacity")
	fs.String("hours", def.OpenHours, "opening hours as HH:MM-HH:MM")
	fs.Float64("lat", def.Lat, "latitude")
	fs.Float64("lon", def.Lon, "longitude")
	fs.Int("radius", def.RadiusM, "catchment radius in metres")
	fs.Bool("no-density", false, "skip the population density signal")
	fs.Bool("no-competition", false, "skip the competition signal")
	fs.String("notes", "", "free-form notes")
}

// applyScenarioFlags overrides s with every scenario flag set on the command line.
func applyScenarioFlags(fs *pflag.FlagSet, s *model.Scenario) {
	if fs.Changed("project-type") {
		v, _ := fs.GetString("project-type")
		s.ProjectType = model.ProjectType(v)
	}
	if fs.Changed("city") {
		s.City, _ = fs.GetString("city")
	}
	if fs.Changed("address") {
		s.Address, _ = fs.GetString("address")
	}
	if fs.Changed("budget") {
		s.BudgetLakh, _ = fs.GetFloat64("budget")
	}
	if fs.Changed("seating") {
		s.SeatingCapacity, _ = fs.GetInt("seating")
	}
	if fs.Changed("hours") {
		s.OpenHours, _ = fs.GetString("hours")
	}
	if fs.Changed("lat") {
		s.Lat, _ = fs.GetFloat64("lat")
	}
	if fs.Changed("lon") {
		s.Lon, _ = fs.GetFloat64("lon")
	}
	if fs.Changed("radius") {
		s.RadiusM, _ = fs.GetInt("radius")
	}
	if fs.Changed("no-density") {
		off, _ := fs.GetBool("no-density")
		s.UsePopulationDensity = !off
	}
	if fs.Changed("no-competition") {
		off, _ := fs.GetBool("no-competition")
		s.ConsiderCompetition = !off
	}
	if fs.Changed("notes") {
		s.Notes, _ = fs.GetString("notes")
	}
}
