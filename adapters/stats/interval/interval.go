// Package interval derives credible intervals for the difference between
// two Beta posteriors using the Normal moment match: the difference is
// approximated as N(mu_b - mu_a, var_a + var_b) and the two-sided quantile
// interval is read off the inverse Normal CDF.
package interval

import (
	"context"
	"fmt"
	"math"

	"gobayes/domain/bayes"
	"gobayes/domain/core"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

const defaultWorkers = 4

// Calculator computes credible intervals. It is stateless apart from the
// batch worker bound; concurrent use needs no locking.
type Calculator struct {
	workers int
}

// NewCalculator creates a calculator. workers bounds batch parallelism;
// values below one fall back to the default.
func NewCalculator(workers int) *Calculator {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Calculator{workers: workers}
}

// Interval returns the posterior probability that B exceeds A, the point
// estimate of the difference mu_b - mu_a, and the two-sided quantile
// interval at the requested confidence level.
func (c *Calculator) Interval(ctx context.Context, a, b bayes.Posterior, level float64) (bayes.CredibleInterval, error) {
	if err := a.Validate(); err != nil {
		return bayes.CredibleInterval{}, fmt.Errorf("posterior A: %w", err)
	}
	if err := b.Validate(); err != nil {
		return bayes.CredibleInterval{}, fmt.Errorf("posterior B: %w", err)
	}
	if level <= 0 || level >= 1 {
		return bayes.CredibleInterval{}, fmt.Errorf("%w: got %g", core.ErrInvalidConfidence, level)
	}

	diff := distuv.Normal{
		Mu:    b.Mean() - a.Mean(),
		Sigma: math.Sqrt(a.Variance() + b.Variance()),
	}

	tail := (1 - level) / 2
	return bayes.CredibleInterval{
		PosteriorProb: 1 - diff.CDF(0),
		Estimate:      diff.Mu,
		Low:           diff.Quantile(tail),
		High:          diff.Quantile(1 - tail),
		Level:         level,
	}, nil
}

// Batch compares one fixed baseline against a sequence of candidates,
// returning one interval per candidate in input order. Results are fully
// independent; candidates are processed on a bounded worker pool. An empty
// candidate set yields an empty slice, not an error.
func (c *Calculator) Batch(ctx context.Context, baseline bayes.Posterior, candidates []bayes.Posterior, level float64) ([]bayes.CredibleInterval, error) {
	if len(candidates) == 0 {
		return []bayes.CredibleInterval{}, nil
	}

	results := make([]bayes.CredibleInterval, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, candidate := range candidates {
		g.Go(func() error {
			ci, err := c.Interval(gctx, baseline, candidate, level)
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			results[i] = ci
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
