package main

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/feasibility-cli/internal/model"
)

func TestFormatHistory(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	items := []model.Analysis{
		{
			ID:         "abc12345-6789-0000-0000-000000000000",
			Scenario:   model.Scenario{ProjectType: model.ProjectCafe, City: "Vellore"},
			Result:     model.AnalyzeResponse{Scores: model.Scores{Demand: 90, Risk: 20, Competition: 10}},
			Source:     model.SourceBackend,
			Prediction: &model.PredictResponse{Prediction: "Promising", Confidence: 0.8},
			CreatedAt:  now,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Scenario:  model.Scenario{ProjectType: model.ProjectGym, City: "A Very Long City Name Indeed"},
			Result:    model.AnalyzeResponse{Scores: model.Scores{Demand: 75, Risk: 42, Competition: 60}},
			Source:    model.SourceMock,
			CreatedAt: now.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	formatHistory(&buf, items)
	out := buf.String()

	assert.Contains(t, out, "PROJECT")
	assert.Contains(t, out, "FEAS")
	assert.Contains(t, out, "abc12345")
	assert.NotContains(t, out, "abc12345-6789")
	assert.Contains(t, out, "Vellore")
	assert.Contains(t, out, "87*")
	assert.Contains(t, out, "Promising")
	assert.Contains(t, out, "mock")
	assert.Contains(t, out, "63 ")
	assert.Contains(t, out, "A Very Long City ...")
	assert.Contains(t, out, "2025-06-15 10:30")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestTruncateCity(t *testing.T) {
	assert.Equal(t, "Vellore", truncateCity("Vellore"))
	assert.Equal(t, "Exactly Twenty Chars", truncateCity("Exactly Twenty Chars"))
	assert.Equal(t, "Tiruchirāppaḷḷi C...", truncateCity("Tiruchirāppaḷḷi Cantonment"))
}

func TestFormatHistory_MultiByteCity(t *testing.T) {
	items := []model.Analysis{{
		ID:       "abc12345",
		Scenario: model.Scenario{ProjectType: model.ProjectCafe, City: "Tiruchirāppaḷḷi Cantonment"},
		Source:   model.SourceBackend,
	}}

	var buf bytes.Buffer
	formatHistory(&buf, items)

	assert.True(t, utf8.Valid(buf.Bytes()))
	assert.Contains(t, buf.String(), "Tiruchirāppaḷḷi C...")
}
