package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/feasibility-cli/internal/config"
	"github.com/sells-group/feasibility-cli/internal/model"
)

type fakeDensity struct {
	mean  *float64
	err   error
	calls int
}

func (f *fakeDensity) MeanDensity(_ context.Context, _, _ float64, _ int) (*float64, error) {
	f.calls++
	return f.mean, f.err
}

type fakePOIs struct {
	count   int
	err     error
	calls   int
	gotTags map[string]string
}

func (f *fakePOIs) POIs(_ context.Context, lat, lon float64, _ int, tags map[string]string) ([]model.POI, error) {
	f.calls++
	f.gotTags = tags
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.POI, f.count)
	for i := range out {
		out[i] = model.POI{Lat: lat, Lon: lon, Name: fmt.Sprintf("poi-%d", i), Type: "node"}
	}
	return out, nil
}

func cafeRequest() model.AnalyzeRequest {
	req := model.NewAnalyzeRequest()
	req.ProjectType = "cafe"
	req.City = "Vellore"
	lat, lon := 12.9698, 79.1559
	req.Lat = &lat
	req.Lon = &lon
	req.SeatingCapacity = 30
	return req
}

func TestAnalyze_NoSources(t *testing.T) {
	a := NewAnalyzer(config.DefaultAnalysisConfig())

	resp, err := a.Analyze(context.Background(), cafeRequest())
	require.NoError(t, err)

	assert.Equal(t, model.Scores{Demand: 60, Risk: 58, Competition: 45}, resp.Scores)
	assert.Equal(t, "Feasibility for a cafe in Vellore: demand 60, risk 58, competition 45.", resp.Summary)
	assert.Equal(t, []string{ProCafeFit, "Radius 500 m analyzed in Vellore."}, resp.Pros)
	assert.Empty(t, resp.Cons)
	require.NotNil(t, resp.Debug)
	assert.Equal(t, 0, resp.Debug.POICount)
	assert.Nil(t, resp.Debug.MeanDensity)
	assert.False(t, resp.Debug.TIFUsed)
	assert.NotNil(t, resp.POIs)
	assert.Empty(t, resp.POIs)

	require.NotNil(t, resp.Map)
	assert.Equal(t, 500, resp.Map.RadiusM)
	assert.Contains(t, string(resp.Map.Catchment), `"Polygon"`)
}

func TestAnalyze_WithDensity(t *testing.T) {
	density := &fakeDensity{mean: ptr(2500)}
	a := NewAnalyzer(config.DefaultAnalysisConfig(), WithDensitySource(density))

	resp, err := a.Analyze(context.Background(), cafeRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, density.calls)
	assert.InDelta(t, 50.0, resp.Scores.Demand, 0.001)
	assert.True(t, resp.Debug.TIFUsed)
	require.NotNil(t, resp.Debug.MeanDensity)
	assert.InDelta(t, 2500.0, *resp.Debug.MeanDensity, 0.001)
	assert.Contains(t, resp.Summary, "(mean density: 2500.0)")
}

func TestAnalyze_DensityErrorIsNeutral(t *testing.T) {
	density := &fakeDensity{err: errors.New("raster unreadable")}
	a := NewAnalyzer(config.DefaultAnalysisConfig(), WithDensitySource(density))

	resp, err := a.Analyze(context.Background(), cafeRequest())
	require.NoError(t, err)
	assert.InDelta(t, 60.0, resp.Scores.Demand, 0.001)
	assert.False(t, resp.Debug.TIFUsed)
}

func TestAnalyze_DensityDisabled(t *testing.T) {
	density := &fakeDensity{mean: ptr(100)}
	a := NewAnalyzer(config.DefaultAnalysisConfig(), WithDensitySource(density))

	req := cafeRequest()
	req.UsePopulationDensity = false
	resp, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, density.calls)
	assert.InDelta(t, 60.0, resp.Scores.Demand, 0.001)
}

func TestAnalyze_CompetitionFromPOIs(t *testing.T) {
	pois := &fakePOIs{count: 60}
	a := NewAnalyzer(config.DefaultAnalysisConfig(), WithCompetitionSource(pois))

	req := cafeRequest()
	req.RadiusM = 1000
	resp, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"amenity": "cafe"}, pois.gotTags)
	assert.InDelta(t, 100.0, resp.Scores.Competition, 0.001)
	assert.InDelta(t, 70.0, resp.Scores.Risk, 0.001)
	assert.Equal(t, 60, resp.Debug.POICount)
	assert.Len(t, resp.POIs, 50)
	assert.Contains(t, resp.Cons, ConHeavyCompetition)
	assert.Contains(t, resp.Cons, ConCafeCrowded)
}

func TestAnalyze_CompetitionErrorFallback(t *testing.T) {
	pois := &fakePOIs{err: errors.New("overpass timeout")}
	a := NewAnalyzer(config.DefaultAnalysisConfig(), WithCompetitionSource(pois))

	resp, err := a.Analyze(context.Background(), cafeRequest())
	require.NoError(t, err)
	assert.InDelta(t, 55.0, resp.Scores.Competition, 0.001)
	assert.Equal(t, 0, resp.Debug.POICount)
}

func TestAnalyze_NoLocation(t *testing.T) {
	density := &fakeDensity{mean: ptr(100)}
	pois := &fakePOIs{count: 3}
	a := NewAnalyzer(config.DefaultAnalysisConfig(), WithDensitySource(density), WithCompetitionSource(pois))

	req := cafeRequest()
	req.Lat = nil
	resp, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, density.calls)
	assert.Equal(t, 0, pois.calls)
	assert.Nil(t, resp.Map)
	assert.InDelta(t, 45.0, resp.Scores.Competition, 0.001)
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	a := NewAnalyzer(config.AnalysisConfig{})
	_, err := a.Analyze(context.Background(), model.NewAnalyzeRequest())
	assert.Error(t, err)
}

func TestNewAnalyzer_FillsDefaults(t *testing.T) {
	a := NewAnalyzer(config.AnalysisConfig{MaxPOIs: 5})
	assert.Equal(t, 5, a.cfg.MaxPOIs)
	assert.InDelta(t, 5000.0, a.cfg.PopMaxDensity, 0.001)
	assert.Equal(t, 60, a.cfg.NeutralDemand)
	assert.Equal(t, 45, a.cfg.NeutralCompetition)
	assert.Equal(t, 55, a.cfg.CompetitionErrorFallback)
}

func TestFallbackPredictor(t *testing.T) {
	req := model.NewPredictRequest()
	req.ProjectType = "cafe"
	req.City = "Vellore"

	resp, err := FallbackPredictor{}.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Promising", resp.Prediction)
	assert.InDelta(t, 0.78, resp.Confidence, 0.0001)
	assert.Equal(t, "model not loaded, using fallback.", resp.Note)

	_, err = FallbackPredictor{}.Predict(context.Background(), model.NewPredictRequest())
	assert.Error(t, err)
}
