package main

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/store"
)

// stubAPI answers analyze and predict calls with fixed results and records
// the requests it saw.
type stubAPI struct {
	mu          sync.Mutex
	analyzeErr  error
	predictErr  error
	source      model.Source
	analyzeReqs []model.AnalyzeRequest
	predictReqs []model.PredictRequest
}

func (s *stubAPI) Analyze(_ context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, model.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzeReqs = append(s.analyzeReqs, req)
	if s.analyzeErr != nil {
		return nil, "", s.analyzeErr
	}
	return &model.AnalyzeResponse{
		Summary: "Feasibility for a " + req.ProjectType + " in " + req.City + ".",
		Pros:    []string{"Strong local demand signal."},
		Cons:    []string{},
		Scores:  model.Scores{Demand: 72, Risk: 40, Competition: 35},
	}, s.sourceOrBackend(), nil
}

func (s *stubAPI) Predict(_ context.Context, req model.PredictRequest) (*model.PredictResponse, model.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictReqs = append(s.predictReqs, req)
	if s.predictErr != nil {
		return nil, "", s.predictErr
	}
	return &model.PredictResponse{Prediction: "Promising", Confidence: 0.81}, s.sourceOrBackend(), nil
}

func (s *stubAPI) sourceOrBackend() model.Source {
	if s.source == "" {
		return model.SourceBackend
	}
	return s.source
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st := store.NewMemory()
	require.NoError(t, st.Migrate(context.Background()))
	return st
}
