package report

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/feasibility-cli/internal/model"
)

// ReadScenarios reads one scenario per row from the first sheet of an XLSX
// workbook. The first row names the columns using the scenario's YAML keys;
// columns that are absent or blank keep the value from base.
func ReadScenarios(path string, base model.Scenario) ([]model.Scenario, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("report: workbook %s has no sheets", path)
	}

	rows := f.Sheets[0].Rows
	if len(rows) == 0 {
		return nil, nil
	}
	header := rowToStrings(rows[0])
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []model.Scenario
	for i, row := range rows[1:] {
		cells := rowToStrings(row)
		if blankRow(cells) {
			continue
		}
		s := base
		for j, value := range cells {
			if j >= len(header) {
				break
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if err := setScenarioField(&s, header[j], value); err != nil {
				return nil, eris.Wrapf(err, "report: row %d", i+2)
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func setScenarioField(s *model.Scenario, column, value string) error {
	var err error
	switch column {
	case "project_type":
		s.ProjectType = model.ProjectType(value)
	case "city":
		s.City = value
	case "address":
		s.Address = value
	case "open_hours":
		s.OpenHours = value
	case "notes":
		s.Notes = value
	case "budget_lakh":
		s.BudgetLakh, err = strconv.ParseFloat(value, 64)
	case "lat":
		s.Lat, err = strconv.ParseFloat(value, 64)
	case "lon":
		s.Lon, err = strconv.ParseFloat(value, 64)
	case "seating_capacity":
		s.SeatingCapacity, err = parseInt(value)
	case "radius_m":
		s.RadiusM, err = parseInt(value)
	case "use_population_density":
		s.UsePopulationDensity, err = strconv.ParseBool(value)
	case "consider_competition":
		s.ConsiderCompetition, err = strconv.ParseBool(value)
	default:
		// Unknown columns are ignored.
	}
	if err != nil {
		return eris.Wrapf(err, "column %s", column)
	}
	return nil
}

// parseInt accepts whole numbers written as floats, which spreadsheets
// commonly produce.
func parseInt(value string) (int, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, eris.Errorf("%q is not a whole number", value)
	}
	return int(f), nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
