package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/config"
	"github.com/sells-group/feasibility-cli/internal/geo"
	"github.com/sells-group/feasibility-cli/internal/model"
)

// DensitySource reads the mean population density inside a catchment.
// A nil result with a nil error means no reading is available there.
type DensitySource interface {
	MeanDensity(ctx context.Context, lat, lon float64, radiusM int) (*float64, error)
}

// CompetitionSource lists competing points of interest matching tags inside
// a catchment.
type CompetitionSource interface {
	POIs(ctx context.Context, lat, lon float64, radiusM int, tags map[string]string) ([]model.POI, error)
}

// Analyzer scores a business location. Both sources are optional; without
// them demand and competition take their neutral values.
type Analyzer struct {
	cfg         config.AnalysisConfig
	density     DensitySource
	competition CompetitionSource
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDensitySource sets the population density reader.
func WithDensitySource(src DensitySource) Option {
	return func(a *Analyzer) { a.density = src }
}

// WithCompetitionSource sets the POI lookup.
func WithCompetitionSource(src CompetitionSource) Option {
	return func(a *Analyzer) { a.competition = src }
}

// NewAnalyzer creates an Analyzer. Zero-valued settings in cfg take the
// defaults from config.DefaultAnalysisConfig.
func NewAnalyzer(cfg config.AnalysisConfig, opts ...Option) *Analyzer {
	def := config.DefaultAnalysisConfig()
	if cfg.PopMaxDensity <= 0 {
		cfg.PopMaxDensity = def.PopMaxDensity
	}
	if cfg.NeutralDemand <= 0 {
		cfg.NeutralDemand = def.NeutralDemand
	}
	if cfg.NeutralCompetition <= 0 {
		cfg.NeutralCompetition = def.NeutralCompetition
	}
	if cfg.CompetitionErrorFallback <= 0 {
		cfg.CompetitionErrorFallback = def.CompetitionErrorFallback
	}
	if cfg.MaxPOIs <= 0 {
		cfg.MaxPOIs = def.MaxPOIs
	}
	a := &Analyzer{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores req and writes the narrative around the scores. Source
// failures degrade to neutral values rather than failing the request.
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := zap.L().With(
		zap.String("project_type", req.ProjectType),
		zap.String("city", req.City),
	)

	mean := a.meanDensity(ctx, req, log)
	demand := a.cfg.NeutralDemand
	if mean != nil {
		demand = DensityToScore(mean, a.cfg.PopMaxDensity)
	}

	competition, pois := a.competitionScore(ctx, req, log)

	risk := RiskFromInputs(RiskInput{
		ProjectType: req.ProjectType,
		BudgetLakh:  req.BudgetLakh,
		Seating:     req.SeatingCapacity,
		OpenHours:   req.OpenHours,
		Demand:      demand,
		Competition: competition,
	})

	pros, cons := ProsCons(NarrativeInput{
		ProjectType: req.ProjectType,
		Demand:      demand,
		Risk:        risk,
		Competition: competition,
		City:        req.City,
		RadiusM:     req.RadiusM,
	})

	out := pois
	if len(out) > a.cfg.MaxPOIs {
		out = out[:a.cfg.MaxPOIs]
	}
	if out == nil {
		out = []model.POI{}
	}

	resp := &model.AnalyzeResponse{
		Summary: Summary(req.ProjectType, req.City, demand, risk, competition, mean),
		Pros:    pros,
		Cons:    cons,
		Scores: model.Scores{
			Demand:      float64(demand),
			Risk:        float64(risk),
			Competition: float64(competition),
		},
		Debug: &model.AnalyzeDebug{
			POICount:    len(pois),
			MeanDensity: mean,
			TIFUsed:     mean != nil,
		},
		POIs: out,
	}

	if req.HasLocation() && req.RadiusM > 0 {
		preview, err := geo.Preview(*req.Lat, *req.Lon, req.RadiusM)
		if err != nil {
			log.Debug("analysis: map preview skipped", zap.Error(err))
		} else {
			resp.Map = preview
		}
	}

	log.Info("analysis: scored location",
		zap.Int("demand", demand),
		zap.Int("risk", risk),
		zap.Int("competition", competition),
		zap.Int("poi_count", len(pois)),
	)
	return resp, nil
}

func (a *Analyzer) meanDensity(ctx context.Context, req model.AnalyzeRequest, log *zap.Logger) *float64 {
	if a.density == nil || !req.UsePopulationDensity || !req.HasLocation() {
		return nil
	}
	mean, err := a.density.MeanDensity(ctx, *req.Lat, *req.Lon, req.RadiusM)
	if err != nil {
		log.Warn("analysis: density lookup failed, using neutral demand", zap.Error(err))
		return nil
	}
	return mean
}

func (a *Analyzer) competitionScore(ctx context.Context, req model.AnalyzeRequest, log *zap.Logger) (int, []model.POI) {
	if a.competition == nil || !req.ConsiderCompetition || !req.HasLocation() {
		return a.cfg.NeutralCompetition, nil
	}
	tags := ProfileFor(req.ProjectType).POITags
	pois, err := a.competition.POIs(ctx, *req.Lat, *req.Lon, req.RadiusM, tags)
	if err != nil {
		log.Warn("analysis: POI lookup failed, using fallback competition",
			zap.Error(err), zap.Int("fallback", a.cfg.CompetitionErrorFallback))
		return a.cfg.CompetitionErrorFallback, nil
	}
	return CompetitionFromCount(len(pois), req.RadiusM), pois
}
