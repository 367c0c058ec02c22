package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/feasibility-cli/internal/model"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*model.Analysis // oldest first
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveAnalysis(_ context.Context, a *model.Analysis) error {
	if a == nil {
		return eris.New("memory: nil analysis")
	}
	stamp(a, uuid.NewString)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items {
		if existing.ID == a.ID {
			s.items[i] = clone(a)
			return nil
		}
	}
	s.items = append(s.items, clone(a))
	return nil
}

func (s *MemoryStore) LastAnalysis(_ context.Context) (*model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *model.Analysis
	for _, a := range s.items {
		if last == nil || !a.CreatedAt.Before(last.CreatedAt) {
			last = a
		}
	}
	if last == nil {
		return nil, nil
	}
	return clone(last), nil
}

func (s *MemoryStore) GetAnalysis(_ context.Context, id string) (*model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.ID == id {
			return clone(a), nil
		}
	}
	return nil, eris.Wrapf(ErrNotFound, "memory: get analysis %s", id)
}

func (s *MemoryStore) ListAnalyses(_ context.Context, f model.AnalysisFilter) ([]model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Analysis
	for i := len(s.items) - 1; i >= 0; i-- {
		a := s.items[i]
		if f.ProjectType != "" && string(a.Scenario.ProjectType) != f.ProjectType {
			continue
		}
		if f.City != "" && !strings.EqualFold(a.Scenario.City, f.City) {
			continue
		}
		if f.Source != "" && a.Source != f.Source {
			continue
		}
		if !f.CreatedAfter.IsZero() && !a.CreatedAt.After(f.CreatedAfter) {
			continue
		}
		matched = append(matched, *clone(a))
	}
	sortNewestFirst(matched)

	offset := max(f.Offset, 0)
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit := listLimit(f); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) AttachPrediction(_ context.Context, id string, p *model.PredictResponse, src model.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ID == id {
			pred := *p
			a.Prediction = &pred
			a.PredictionSource = src
			a.UpdatedAt = timeNow()
			return nil
		}
	}
	return eris.Wrapf(ErrNotFound, "memory: attach prediction %s", id)
}
