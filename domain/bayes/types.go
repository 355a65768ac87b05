package bayes

import (
	"fmt"

	"gobayes/domain/core"
)

// Strategy identifies one of the four numerical approaches for computing
// P(B > A) over two Beta posteriors. The caller chooses; nothing selects a
// strategy automatically.
type Strategy string

const (
	// StrategySimulation draws paired samples from both posteriors.
	// Unbiased, error shrinks as O(1/sqrt(draws)).
	StrategySimulation Strategy = "simulation"

	// StrategyIntegration discretizes the joint density on a grid.
	// Deterministic; cost grows quadratically in grid resolution.
	StrategyIntegration Strategy = "integration"

	// StrategyExact evaluates the closed-form finite sum in log-space.
	// Exact for integer alpha_b; O(round(alpha_b)) time.
	StrategyExact Strategy = "exact"

	// StrategyApproximation moment-matches each posterior to a Normal.
	// O(1) and batchable, but biased for skewed posteriors.
	StrategyApproximation Strategy = "approximation"
)

// ParseStrategy maps an identifier to a Strategy, failing with a
// configuration error on unknown names.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySimulation, StrategyIntegration, StrategyExact, StrategyApproximation:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownStrategy, s)
}

// CompareParams carries the strategy-specific knobs. Only the fields the
// chosen strategy needs are consulted; the facade rejects calls where a
// required field is missing.
type CompareParams struct {
	// Simulation: number of paired draws and the explicit RNG seed.
	Draws int    `json:"draws,omitempty"`
	Seed  uint64 `json:"seed,omitempty"`

	// Integration: grid bounds and step width. Bounds must cover the
	// effective support of both posteriors; undercoverage biases the
	// estimate low and is surfaced as a warning, not an error.
	Lower float64 `json:"lower,omitempty"`
	Upper float64 `json:"upper,omitempty"`
	Step  float64 `json:"step,omitempty"`
}

// WarningCode flags non-fatal numerical caveats attached to a result.
type WarningCode string

const (
	// WarningAlphaRounded: the exact strategy rounded a non-integer
	// alpha_b to form its summation bound; the result is an
	// approximation, not exact.
	WarningAlphaRounded WarningCode = "ALPHA_ROUNDED"

	// WarningExtremeLogTerm: an intermediate log-space term was extreme
	// enough that the summed probability may have degraded precision.
	WarningExtremeLogTerm WarningCode = "EXTREME_LOG_TERM"

	// WarningNarrowBounds: the integration grid missed a non-trivial
	// share of posterior mass; the estimate is biased low.
	WarningNarrowBounds WarningCode = "NARROW_BOUNDS"

	// WarningSkewedPosterior: a posterior has small alpha or beta, where
	// the Normal approximation is systematically biased.
	WarningSkewedPosterior WarningCode = "SKEWED_POSTERIOR"
)

// ComparisonResult is the outcome of one strategy evaluation: the
// probability that B's true rate exceeds A's, plus numerical caveats.
type ComparisonResult struct {
	Probability float64                `json:"probability"`
	Strategy    Strategy               `json:"strategy"`
	Warnings    []WarningCode          `json:"warnings,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	ComputedAt  core.Timestamp         `json:"computed_at"`
}

// CredibleInterval is a two-sided quantile interval for the difference
// mu_b - mu_a, together with the posterior probability that B exceeds A.
// Invariant: Low <= Estimate <= High.
type CredibleInterval struct {
	PosteriorProb float64 `json:"posterior_prob"`
	Estimate      float64 `json:"estimate"`
	Low           float64 `json:"low"`
	High          float64 `json:"high"`
	Level         float64 `json:"level"`
}

// Validate checks the interval ordering invariant and level range.
func (ci CredibleInterval) Validate() error {
	if ci.Level <= 0 || ci.Level >= 1 {
		return fmt.Errorf("%w: got %g", core.ErrInvalidConfidence, ci.Level)
	}
	if ci.Low > ci.Estimate || ci.Estimate > ci.High {
		return core.NewValidationError("credible_interval",
			fmt.Sprintf("ordering violated: low=%g estimate=%g high=%g", ci.Low, ci.Estimate, ci.High))
	}
	return nil
}

// DefaultConfidenceLevel is applied when a caller leaves the level unset.
const DefaultConfidenceLevel = 0.95
