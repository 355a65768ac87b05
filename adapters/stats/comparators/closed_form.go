package comparators

import (
	"context"
	"math"

	"gobayes/domain/bayes"
	"gobayes/domain/core"
)

// A log-space term above this overflows math.Exp to +Inf.
const extremeLogTerm = 700.0

// Below this every term underflows math.Exp to exactly zero (ln of the
// smallest subnormal float64 is about -744.4), so a sum whose largest term
// sits under it has lost all precision, not just contributed ~0.
const underflowLogTerm = -745.0

// integerTolerance decides whether alpha_b needed rounding at all.
const integerTolerance = 1e-9

// ClosedFormComparator evaluates the finite summation
//
//	P(B > A) = sum_{i=0}^{round(alpha_b)-1} exp( lnB(alpha_a+i, beta_a+beta_b)
//	            - ln(beta_b+i) - lnB(1+i, beta_b) - lnB(alpha_a, beta_a) )
//
// which is exact when alpha_b is an integer. Every term is assembled in
// log-space and exponentiated only at the end, so large parameters do not
// overflow intermediate Beta-function values.
//
// Cost is O(round(alpha_b)): thousands of observed successes mean thousands
// of terms, and batching many comparisons gains nothing without re-deriving
// the shared log-Beta terms. Non-integer alpha_b is rounded to the nearest
// integer to form the summation bound; the result is then an approximation
// and carries an ALPHA_ROUNDED warning rather than pretending exactness.
type ClosedFormComparator struct{}

// NewClosedFormComparator creates the exact strategy.
func NewClosedFormComparator() *ClosedFormComparator {
	return &ClosedFormComparator{}
}

func (c *ClosedFormComparator) Name() bayes.Strategy {
	return bayes.StrategyExact
}

func (c *ClosedFormComparator) Description() string {
	return "Exact log-space finite sum over round(alpha_b) terms; O(alpha_b) time, approximate when alpha_b is non-integer"
}

// Compare returns P(B > A). The accumulation itself lives in sumLogTerms so
// the numerically delicate part stays independently testable.
func (c *ClosedFormComparator) Compare(ctx context.Context, a, b bayes.Posterior, params bayes.CompareParams) (bayes.ComparisonResult, error) {
	if err := validatePair(a, b); err != nil {
		return bayes.ComparisonResult{}, err
	}

	bound := math.Round(b.Alpha)
	var warnings []bayes.WarningCode
	if math.Abs(b.Alpha-bound) > integerTolerance {
		warnings = append(warnings, bayes.WarningAlphaRounded)
	}

	prob, extreme := sumLogTerms(a.Alpha, a.Beta, b.Beta, int(bound))
	if extreme {
		warnings = append(warnings, bayes.WarningExtremeLogTerm)
	}

	return bayes.ComparisonResult{
		Probability: clampProbability(prob),
		Strategy:    bayes.StrategyExact,
		Warnings:    warnings,
		Metadata: map[string]interface{}{
			"terms":         int(bound),
			"alpha_b_input": b.Alpha,
		},
		ComputedAt: core.Now(),
	}, nil
}

// sumLogTerms accumulates the closed-form series for P(B > A) where B's
// alpha has been rounded to `terms`. It reports genuine precision loss:
// a term large enough to overflow, or a series whose every term underflows
// to zero. Merely tiny terms are fine - they contribute ~0 exactly as the
// math says they should.
func sumLogTerms(alphaA, betaA, betaB float64, terms int) (prob float64, extreme bool) {
	// Shared across all terms; computed once.
	logDenom := logBeta(alphaA, betaA)

	total := 0.0
	maxLogTerm := math.Inf(-1)
	for i := 0; i < terms; i++ {
		fi := float64(i)
		logTerm := logBeta(alphaA+fi, betaA+betaB) -
			math.Log(betaB+fi) -
			logBeta(1+fi, betaB) -
			logDenom
		if logTerm > extremeLogTerm {
			extreme = true
		}
		if logTerm > maxLogTerm {
			maxLogTerm = logTerm
		}
		total += math.Exp(logTerm)
	}
	if terms > 0 && maxLogTerm < underflowLogTerm {
		extreme = true
	}
	return total, extreme
}
