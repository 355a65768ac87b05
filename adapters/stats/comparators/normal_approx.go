package comparators

import (
	"context"
	"math"

	"gobayes/domain/bayes"
	"gobayes/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Posteriors with alpha or beta below this are skewed enough that the
// Normal moment match is directionally biased, not just noisy.
const skewThreshold = 10.0

// NormalApproxComparator moment-matches each Beta posterior to a Normal
// using the exact Beta moments, then evaluates the difference distribution
// N(mu_b - mu_a, var_a + var_b) at zero. The returned value is P(B > A),
// i.e. one minus the Normal CDF of the difference at zero.
//
// This is O(1) per pair and trivially batchable against one baseline. The
// trade-off: when either posterior has small alpha or beta the Beta is
// skewed and the Normal match is a *biased* estimator - the error has a
// systematic direction set by the skew, it does not average out.
type NormalApproxComparator struct{}

// NewNormalApproxComparator creates the approximation strategy.
func NewNormalApproxComparator() *NormalApproxComparator {
	return &NormalApproxComparator{}
}

func (c *NormalApproxComparator) Name() bayes.Strategy {
	return bayes.StrategyApproximation
}

func (c *NormalApproxComparator) Description() string {
	return "O(1) Normal moment match of the difference; biased for skewed (small alpha/beta) posteriors"
}

// Compare returns P(B > A) under the Normal approximation.
func (c *NormalApproxComparator) Compare(ctx context.Context, a, b bayes.Posterior, params bayes.CompareParams) (bayes.ComparisonResult, error) {
	if err := validatePair(a, b); err != nil {
		return bayes.ComparisonResult{}, err
	}

	diff := distuv.Normal{
		Mu:    b.Mean() - a.Mean(),
		Sigma: math.Sqrt(a.Variance() + b.Variance()),
	}
	// CDF(0) is P(diff < 0) = P(A > B); complement gives P(B > A).
	prob := 1 - diff.CDF(0)

	var warnings []bayes.WarningCode
	if math.Min(a.Alpha, a.Beta) < skewThreshold || math.Min(b.Alpha, b.Beta) < skewThreshold {
		warnings = append(warnings, bayes.WarningSkewedPosterior)
	}

	return bayes.ComparisonResult{
		Probability: clampProbability(prob),
		Strategy:    bayes.StrategyApproximation,
		Warnings:    warnings,
		Metadata: map[string]interface{}{
			"diff_mean":  diff.Mu,
			"diff_sigma": diff.Sigma,
		},
		ComputedAt: core.Now(),
	}, nil
}
