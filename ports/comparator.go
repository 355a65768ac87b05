package ports

import (
	"context"

	"gobayes/domain/bayes"
)

// ComparatorPort dispatches a comparison to one of the registered
// numerical strategies.
type ComparatorPort interface {
	// Compare returns P(B > A) for the chosen strategy. Fails with a
	// configuration error on unknown strategies or missing parameters.
	Compare(ctx context.Context, strategy bayes.Strategy, a, b bayes.Posterior, params bayes.CompareParams) (bayes.ComparisonResult, error)

	// Strategies lists the registered strategy identifiers.
	Strategies() []bayes.Strategy
}

// IntervalPort derives credible intervals for posterior differences.
type IntervalPort interface {
	// Interval computes the two-sided quantile interval at the given level.
	Interval(ctx context.Context, a, b bayes.Posterior, level float64) (bayes.CredibleInterval, error)

	// Batch compares one baseline against each candidate independently.
	// Empty candidates yield an empty result, not an error.
	Batch(ctx context.Context, baseline bayes.Posterior, candidates []bayes.Posterior, level float64) ([]bayes.CredibleInterval, error)
}
