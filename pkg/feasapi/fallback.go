package feasapi

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/monitoring"
	"github.com/sells-group/feasibility-cli/internal/resilience"
)

// FallbackPolicy decides whether a failed call is answered with the mock
// payload instead of an error.
type FallbackPolicy func(err error) bool

var (
	// FallbackAll substitutes the mock for every failure.
	FallbackAll FallbackPolicy = func(error) bool { return true }

	// FallbackTransient substitutes the mock only when the API looks
	// unreachable or overloaded.
	FallbackTransient FallbackPolicy = func(err error) bool { return KindOf(err).Transient() }

	// FallbackNever always surfaces the error.
	FallbackNever FallbackPolicy = func(error) bool { return false }
)

// FallbackOn substitutes the mock only for the listed failure kinds.
func FallbackOn(kinds ...resilience.Kind) FallbackPolicy {
	return func(err error) bool {
		return slices.Contains(kinds, KindOf(err))
	}
}

// ParseFallbackPolicy maps a config name ("all", "transient", "never") to a policy.
func ParseFallbackPolicy(name string) (FallbackPolicy, error) {
	switch name {
	case "", "all":
		return FallbackAll, nil
	case "transient":
		return FallbackTransient, nil
	case "never":
		return FallbackNever, nil
	default:
		return nil, eris.Errorf("feasapi: unknown fallback policy %q", name)
	}
}

// Fallback wraps an API and answers failed calls with the mock payloads
// when its policy allows. The returned Source tells the caller which one
// it got.
type Fallback struct {
	api    API
	policy FallbackPolicy
}

// NewFallback creates a Fallback. A nil policy means FallbackAll.
func NewFallback(api API, policy FallbackPolicy) *Fallback {
	if policy == nil {
		policy = FallbackAll
	}
	return &Fallback{api: api, policy: policy}
}

// Analyze calls the API and falls back to MockAnalysis.
func (f *Fallback) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, model.Source, error) {
	resp, err := f.api.Analyze(ctx, req)
	if err == nil {
		return resp, model.SourceBackend, nil
	}
	if !f.substitute("analyze", err) {
		return nil, "", err
	}
	return MockAnalysis(), model.SourceMock, nil
}

// Predict calls the API and falls back to MockPrediction.
func (f *Fallback) Predict(ctx context.Context, req model.PredictRequest) (*model.PredictResponse, model.Source, error) {
	resp, err := f.api.Predict(ctx, req)
	if err == nil {
		return resp, model.SourceBackend, nil
	}
	if !f.substitute("predict", err) {
		return nil, "", err
	}
	return MockPrediction(), model.SourceMock, nil
}

func (f *Fallback) substitute(op string, err error) bool {
	if !f.policy(err) {
		return false
	}
	kind := KindOf(err)
	monitoring.ClientFallbacks.WithLabelValues(op, string(kind)).Inc()
	zap.L().Warn("feasapi: using mock result",
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	return true
}
