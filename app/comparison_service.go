package app

import (
	"context"
	"fmt"
	"time"

	"gobayes/domain/bayes"
	"gobayes/domain/core"
	"gobayes/internal"
	"gobayes/models"
	"gobayes/ports"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// ComparisonService orchestrates the full comparison flow: raw observation
// records plus a shared prior in, posteriors derived, strategy dispatched,
// interval attached, outcome optionally persisted.
type ComparisonService struct {
	comparator ports.ComparatorPort
	intervals  ports.IntervalPort
	repo       ports.ExperimentRepository // nil disables persistence
	logger     *internal.Logger
}

// NewComparisonService wires the service. repo may be nil for callers that
// only need the computation.
func NewComparisonService(comparator ports.ComparatorPort, intervals ports.IntervalPort, repo ports.ExperimentRepository, logger *internal.Logger) *ComparisonService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ComparisonService{
		comparator: comparator,
		intervals:  intervals,
		repo:       repo,
		logger:     logger,
	}
}

// Strategies lists the registered strategy identifiers.
func (s *ComparisonService) Strategies() []bayes.Strategy {
	return s.comparator.Strategies()
}

// IntervalRequest defines a credible-interval computation without a
// strategy dispatch.
type IntervalRequest struct {
	Prior bayes.Prior       `json:"prior"`
	A     bayes.Observation `json:"a"`
	B     bayes.Observation `json:"b"`
	Level float64           `json:"level,omitempty"` // 0 means default
}

// IntervalOutcome bundles the derived posteriors with the interval.
type IntervalOutcome struct {
	PosteriorA bayes.Posterior        `json:"posterior_a"`
	PosteriorB bayes.Posterior        `json:"posterior_b"`
	Interval   bayes.CredibleInterval `json:"interval"`
}

// Interval derives both posteriors and computes the credible interval for
// the difference mu_b - mu_a.
func (s *ComparisonService) Interval(ctx context.Context, req IntervalRequest) (*IntervalOutcome, error) {
	a, err := bayes.NewPosterior(req.Prior, req.A)
	if err != nil {
		return nil, fmt.Errorf("deriving posterior for %q: %w", req.A.Entity, err)
	}
	b, err := bayes.NewPosterior(req.Prior, req.B)
	if err != nil {
		return nil, fmt.Errorf("deriving posterior for %q: %w", req.B.Entity, err)
	}

	level := req.Level
	if level == 0 {
		level = bayes.DefaultConfidenceLevel
	}
	ci, err := s.intervals.Interval(ctx, a, b, level)
	if err != nil {
		return nil, err
	}
	return &IntervalOutcome{PosteriorA: a, PosteriorB: b, Interval: ci}, nil
}

// CompareRequest defines one pairwise comparison.
type CompareRequest struct {
	Prior    bayes.Prior         `json:"prior"`
	A        bayes.Observation   `json:"a"`
	B        bayes.Observation   `json:"b"`
	Strategy bayes.Strategy      `json:"strategy"`
	Params   bayes.CompareParams `json:"params"`
	Level    float64             `json:"level,omitempty"` // 0 means default

	// ExperimentID links the persisted record; ignored when no repository
	// is configured.
	ExperimentID uuid.UUID `json:"experiment_id,omitempty"`
}

// CompareOutcome bundles the derived posteriors with the strategy result
// and the credible interval for the difference.
type CompareOutcome struct {
	PosteriorA bayes.Posterior        `json:"posterior_a"`
	PosteriorB bayes.Posterior        `json:"posterior_b"`
	Result     bayes.ComparisonResult `json:"result"`
	Interval   bayes.CredibleInterval `json:"interval"`
}

// Compare derives both posteriors, runs the chosen strategy, and computes
// the credible interval for the difference.
func (s *ComparisonService) Compare(ctx context.Context, req CompareRequest) (*CompareOutcome, error) {
	a, err := bayes.NewPosterior(req.Prior, req.A)
	if err != nil {
		return nil, fmt.Errorf("deriving posterior for %q: %w", req.A.Entity, err)
	}
	b, err := bayes.NewPosterior(req.Prior, req.B)
	if err != nil {
		return nil, fmt.Errorf("deriving posterior for %q: %w", req.B.Entity, err)
	}

	result, err := s.comparator.Compare(ctx, req.Strategy, a, b, req.Params)
	if err != nil {
		return nil, err
	}

	level := req.Level
	if level == 0 {
		level = bayes.DefaultConfidenceLevel
	}
	ci, err := s.intervals.Interval(ctx, a, b, level)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("compared %q vs %q via %s: p=%.4f estimate=%.5f",
		req.A.Entity, req.B.Entity, req.Strategy, result.Probability, ci.Estimate)

	outcome := &CompareOutcome{PosteriorA: a, PosteriorB: b, Result: result, Interval: ci}

	if s.repo != nil && req.ExperimentID != uuid.Nil {
		if err := s.persist(ctx, req, outcome); err != nil {
			// Persistence is an audit trail, not the result; surface but
			// do not discard the computation.
			s.logger.Warn("failed to persist comparison: %v", err)
		}
	}
	return outcome, nil
}

func (s *ComparisonService) persist(ctx context.Context, req CompareRequest, outcome *CompareOutcome) error {
	rec := &models.ComparisonRecord{
		ID:           uuid.New(),
		ExperimentID: req.ExperimentID,
		EntityA:      req.A.Entity.String(),
		SuccessesA:   req.A.Successes,
		TrialsA:      req.A.Trials,
		EntityB:      req.B.Entity.String(),
		SuccessesB:   req.B.Successes,
		TrialsB:      req.B.Trials,
		Strategy:     string(req.Strategy),
		Probability:  outcome.Result.Probability,
		Estimate:     outcome.Interval.Estimate,
		IntervalLow:  outcome.Interval.Low,
		IntervalHi:   outcome.Interval.High,
		Level:        outcome.Interval.Level,
		Metadata:     models.JSONBMap(outcome.Result.Metadata),
		CreatedAt:    time.Now(),
	}
	return s.repo.SaveComparison(ctx, rec)
}

// CreateExperiment registers a named experiment under a shared prior.
func (s *ComparisonService) CreateExperiment(ctx context.Context, name string, prior bayes.Prior) (*models.Experiment, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("no experiment repository configured")
	}
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	exp := &models.Experiment{
		ID:         uuid.New(),
		Name:       name,
		PriorAlpha: prior.Alpha,
		PriorBeta:  prior.Beta,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.SaveExperiment(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// BatchRequest compares one baseline entity against every candidate.
type BatchRequest struct {
	Prior      bayes.Prior         `json:"prior"`
	Baseline   bayes.Observation   `json:"baseline"`
	Candidates []bayes.Observation `json:"candidates"`
	Level      float64             `json:"level,omitempty"`
}

// BatchEntry is one candidate's interval against the baseline.
type BatchEntry struct {
	Entity    core.EntityKey         `json:"entity"`
	Posterior bayes.Posterior        `json:"posterior"`
	Interval  bayes.CredibleInterval `json:"interval"`
}

// BatchSummary aggregates the candidate estimates.
type BatchSummary struct {
	Candidates   int     `json:"candidates"`
	MeanEstimate float64 `json:"mean_estimate"`
	MinEstimate  float64 `json:"min_estimate"`
	MaxEstimate  float64 `json:"max_estimate"`
	FavoredCount int     `json:"favored_count"` // candidates with P(candidate > baseline) > 0.5
}

// BatchOutcome is the full batch result: per-candidate intervals plus an
// aggregate summary.
type BatchOutcome struct {
	Baseline bayes.Posterior `json:"baseline"`
	Entries  []BatchEntry    `json:"entries"`
	Summary  BatchSummary    `json:"summary"`
}

// BatchCompare derives every posterior and runs the interval calculator's
// batch mode. An empty candidate list is a valid request producing an empty
// outcome.
func (s *ComparisonService) BatchCompare(ctx context.Context, req BatchRequest) (*BatchOutcome, error) {
	baseline, err := bayes.NewPosterior(req.Prior, req.Baseline)
	if err != nil {
		return nil, fmt.Errorf("deriving baseline posterior for %q: %w", req.Baseline.Entity, err)
	}

	candidates := make([]bayes.Posterior, len(req.Candidates))
	for i, obs := range req.Candidates {
		candidates[i], err = bayes.NewPosterior(req.Prior, obs)
		if err != nil {
			return nil, fmt.Errorf("deriving posterior for %q: %w", obs.Entity, err)
		}
	}

	level := req.Level
	if level == 0 {
		level = bayes.DefaultConfidenceLevel
	}
	intervals, err := s.intervals.Batch(ctx, baseline, candidates, level)
	if err != nil {
		return nil, err
	}

	outcome := &BatchOutcome{
		Baseline: baseline,
		Entries:  make([]BatchEntry, len(intervals)),
	}
	estimates := make([]float64, len(intervals))
	for i, ci := range intervals {
		outcome.Entries[i] = BatchEntry{
			Entity:    req.Candidates[i].Entity,
			Posterior: candidates[i],
			Interval:  ci,
		}
		estimates[i] = ci.Estimate
		if ci.PosteriorProb > 0.5 {
			outcome.Summary.FavoredCount++
		}
	}

	outcome.Summary.Candidates = len(intervals)
	if len(estimates) > 0 {
		outcome.Summary.MeanEstimate, _ = stats.Mean(estimates)
		outcome.Summary.MinEstimate, _ = stats.Min(estimates)
		outcome.Summary.MaxEstimate, _ = stats.Max(estimates)
	}

	s.logger.Info("batch compare: baseline %q vs %d candidates, %d favored",
		req.Baseline.Entity, len(intervals), outcome.Summary.FavoredCount)
	return outcome, nil
}
