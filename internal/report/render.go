// Package report renders stored analyses for the terminal and exports them
// as JSON and XLSX workbooks.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"

	"github.com/sells-group/feasibility-cli/internal/insight"
	"github.com/sells-group/feasibility-cli/internal/model"
)

const barWidth = 20

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	badgeStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12"))
)

// RenderResults writes the results view of a stored analysis to w.
func RenderResults(w io.Writer, a *model.Analysis) error {
	if a == nil {
		return eris.New("report: no analysis to render")
	}

	rep := insight.Evaluate(a.Result.Scores)
	var b strings.Builder

	b.WriteString(titleStyle.Render("Feasibility Results"))
	b.WriteString("\n")
	b.WriteString(a.Result.Summary)
	b.WriteString("\n")
	if a.Source == model.SourceMock {
		b.WriteString(mutedStyle.Render("Backend unavailable, showing mock analysis."))
		b.WriteString("\n")
	}
	if a.Prediction != nil {
		b.WriteString(badgeStyle.Render(PredictionBadge(a.Prediction)))
		b.WriteString("\n")
	}

	writeList(&b, "Pros", a.Result.Pros)
	writeList(&b, "Cons", a.Result.Cons)

	writeInsights(&b, rep)

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write results")
}

// RenderInsights writes the score bars and insight views of rep to w.
func RenderInsights(w io.Writer, rep insight.Report) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Feasibility Insights"))
	b.WriteString("\n")
	writeInsights(&b, rep)
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write insights")
}

func writeInsights(b *strings.Builder, rep insight.Report) {
	section(b, "Scores")
	s := rep.Scores
	writeBar(b, "Demand", s.Demand)
	writeBar(b, "Risk", s.Risk)
	writeBar(b, "Competition", s.Competition)

	section(b, "Feasibility")
	f := rep.Feasibility
	verdict := badStyle.Render("Not feasible")
	if f.Feasible {
		verdict = goodStyle.Render("Feasible")
	}
	fmt.Fprintf(b, "  %d/100  %s (cutoff %d)\n", f.Score, verdict, f.Cutoff)

	section(b, "Top Recommendations")
	for i, r := range rep.Recommendations {
		fmt.Fprintf(b, "  %d. %-20s %3d%%\n", i+1, r.Name, r.Prob)
	}

	section(b, "Demand vs Supply")
	for _, g := range rep.Gap {
		fmt.Fprintf(b, "  %-10s demand %3.0f  supply %3d\n", g.Label, g.Demand, g.Supply)
	}

	section(b, "Demand Trend (12 months)")
	trend := make([]string, len(rep.Trend))
	for i, p := range rep.Trend {
		trend[i] = strconv.Itoa(p.Demand)
	}
	b.WriteString("  " + strings.Join(trend, " ") + "\n")

	writeList(b, "Risk Factors", rep.RiskFactors)

	writeStats(b, "Demographics", insight.Demographics())
	writeStats(b, "Spending", insight.Spending())
}

// PredictionBadge formats a prediction as "<label> (<confidence>%)".
func PredictionBadge(p *model.PredictResponse) string {
	return fmt.Sprintf("%s (%d%%)", p.Prediction, int(math.Round(p.Confidence*100)))
}

// Bar draws a score in [0,100] as a fixed-width bar.
func Bar(score float64) string {
	filled := int(math.Round(insight.Clamp(score) / 100 * barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	section(b, title)
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("  none"))
		b.WriteString("\n")
		return
	}
	for _, item := range items {
		b.WriteString("  • " + item + "\n")
	}
}

func writeBar(b *strings.Builder, label string, score float64) {
	fmt.Fprintf(b, "  %-12s %3.0f %s\n", label, score, Bar(score))
}

func writeStats(b *strings.Builder, title string, stats []insight.Stat) {
	section(b, title)
	for _, st := range stats {
		fmt.Fprintf(b, "  %s: %s\n", st.Label, mutedStyle.Render(st.Value))
	}
}
