package feasapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/resilience"
)

type stubAPI struct {
	err     error
	analyze *model.AnalyzeResponse
	predict *model.PredictResponse
}

func (s *stubAPI) Analyze(context.Context, model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	return s.analyze, s.err
}

func (s *stubAPI) Predict(context.Context, model.PredictRequest) (*model.PredictResponse, error) {
	return s.predict, s.err
}

func transportErr(kind resilience.Kind) error {
	return &TransportError{Op: "analyze", Kind: kind, Err: errors.New("boom")}
}

func TestFallback_BackendSuccess(t *testing.T) {
	want := &model.AnalyzeResponse{Summary: "real", Scores: model.Scores{Demand: 80}}
	f := NewFallback(&stubAPI{analyze: want}, FallbackNever)

	got, src, err := f.Analyze(context.Background(), analyzeRequest())
	require.NoError(t, err)
	assert.Equal(t, model.SourceBackend, src)
	assert.Same(t, want, got)
}

func TestFallback_Policies(t *testing.T) {
	tests := []struct {
		name     string
		policy   FallbackPolicy
		err      error
		wantMock bool
	}{
		{"all on client error", FallbackAll, transportErr(resilience.KindClientError), true},
		{"all on plain error", FallbackAll, errors.New("anything"), true},
		{"nil policy is all", nil, transportErr(resilience.KindDecode), true},
		{"transient on refused", FallbackTransient, transportErr(resilience.KindConnectionRefused), true},
		{"transient on server", FallbackTransient, transportErr(resilience.KindServerError), true},
		{"transient on client error", FallbackTransient, transportErr(resilience.KindClientError), false},
		{"transient on decode", FallbackTransient, transportErr(resilience.KindDecode), false},
		{"never", FallbackNever, transportErr(resilience.KindTimeout), false},
		{"on timeout", FallbackOn(resilience.KindTimeout), transportErr(resilience.KindTimeout), true},
		{"on timeout, refused", FallbackOn(resilience.KindTimeout), transportErr(resilience.KindConnectionRefused), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFallback(&stubAPI{err: tt.err}, tt.policy)

			resp, src, err := f.Analyze(context.Background(), analyzeRequest())
			if tt.wantMock {
				require.NoError(t, err)
				assert.Equal(t, model.SourceMock, src)
				assert.Equal(t, MockAnalysis(), resp)
				return
			}
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Empty(t, src)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFallback_Predict(t *testing.T) {
	f := NewFallback(&stubAPI{err: transportErr(resilience.KindNetwork)}, FallbackTransient)

	resp, src, err := f.Predict(context.Background(), model.PredictRequest{ProjectType: "cafe", City: "Vellore"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceMock, src)
	assert.Equal(t, "Promising (mock)", resp.Prediction)
	assert.InDelta(t, 0.78, resp.Confidence, 0.0001)
}

func TestMockPayloads(t *testing.T) {
	a := MockAnalysis()
	assert.Equal(t, "Dummy feasibility (mock): good demand near campus; watch competition.", a.Summary)
	assert.Equal(t, []string{"High student footfall (mock)", "Lower rent (mock)"}, a.Pros)
	assert.Equal(t, []string{"Nearby competition (mock)", "Seasonal demand (mock)"}, a.Cons)
	assert.Equal(t, model.Scores{Demand: 75, Risk: 42, Competition: 60}, a.Scores)

	// Each call returns a fresh value.
	a.Pros[0] = "changed"
	assert.Equal(t, "High student footfall (mock)", MockAnalysis().Pros[0])
}

func TestParseFallbackPolicy(t *testing.T) {
	for _, name := range []string{"", "all", "transient", "never"} {
		p, err := ParseFallbackPolicy(name)
		require.NoError(t, err, name)
		assert.NotNil(t, p)
	}
	_, err := ParseFallbackPolicy("sometimes")
	assert.Error(t, err)

	never, _ := ParseFallbackPolicy("never")
	assert.False(t, never(errors.New("x")))
}
