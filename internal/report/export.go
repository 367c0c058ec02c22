package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/feasibility-cli/internal/insight"
	"github.com/sells-group/feasibility-cli/internal/model"
)

// Workbook sheet names written by ExportXLSX.
const (
	SheetFeasibility     = "Feasibility"
	SheetRecommendations = "Recommendations"
	SheetGap             = "Gap"
	SheetTrend           = "Trend"
	SheetRisks           = "Risks"
)

// WriteJSON writes a two-space indented JSON document of a.
func WriteJSON(w io.Writer, a *model.Analysis) error {
	if a == nil {
		return eris.New("report: no analysis to export")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(a), "report: encode json")
}

// ExportXLSX writes the insight views of rep to a workbook at path, one
// sheet per view.
func ExportXLSX(path string, rep insight.Report) error {
	f := xlsx.NewFile()

	sheet, err := addSheet(f, SheetFeasibility, "Metric", "Value")
	if err != nil {
		return err
	}
	fe := rep.Feasibility
	addFloatRow(sheet, "Demand", rep.Scores.Demand)
	addFloatRow(sheet, "Risk", rep.Scores.Risk)
	addFloatRow(sheet, "Competition", rep.Scores.Competition)
	addIntRow(sheet, "Feasibility", fe.Score)
	addIntRow(sheet, "Cutoff", fe.Cutoff)
	row := sheet.AddRow()
	row.AddCell().SetString("Feasible")
	row.AddCell().SetBool(fe.Feasible)

	if sheet, err = addSheet(f, SheetRecommendations, "Business", "Probability"); err != nil {
		return err
	}
	for _, r := range rep.Recommendations {
		addIntRow(sheet, r.Name, r.Prob)
	}

	if sheet, err = addSheet(f, SheetGap, "Segment", "Demand", "Supply"); err != nil {
		return err
	}
	for _, g := range rep.Gap {
		row := sheet.AddRow()
		row.AddCell().SetString(g.Label)
		row.AddCell().SetFloat(g.Demand)
		row.AddCell().SetInt(g.Supply)
	}

	if sheet, err = addSheet(f, SheetTrend, "Month", "Demand"); err != nil {
		return err
	}
	for _, p := range rep.Trend {
		row := sheet.AddRow()
		row.AddCell().SetInt(p.Month)
		row.AddCell().SetInt(p.Demand)
	}

	if sheet, err = addSheet(f, SheetRisks, "Risk factor"); err != nil {
		return err
	}
	for _, r := range rep.RiskFactors {
		sheet.AddRow().AddCell().SetString(r)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func addSheet(f *xlsx.File, name string, headers ...string) (*xlsx.Sheet, error) {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "report: add sheet %s", name)
	}
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
	return sheet, nil
}

func addIntRow(sheet *xlsx.Sheet, label string, v int) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetInt(v)
}

func addFloatRow(sheet *xlsx.Sheet, label string, v float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloat(v)
}
