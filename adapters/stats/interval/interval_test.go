package interval

import (
	"context"
	"testing"

	"gobayes/domain/bayes"
	"gobayes/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPosterior(t *testing.T, alpha, beta float64) bayes.Posterior {
	t.Helper()
	p, err := bayes.PosteriorFromParams(alpha, beta)
	require.NoError(t, err)
	return p
}

func TestInterval_OrderingInvariant(t *testing.T) {
	calc := NewCalculator(0)
	ctx := context.Background()

	pairs := [][2]bayes.Posterior{
		{mustPosterior(t, 10, 10), mustPosterior(t, 10, 10)},
		{mustPosterior(t, 3872.4, 8880.3), mustPosterior(t, 2228.4, 5071.3)},
		{mustPosterior(t, 2, 50), mustPosterior(t, 50, 2)},
	}

	for _, pair := range pairs {
		ci, err := calc.Interval(ctx, pair[0], pair[1], 0.95)
		require.NoError(t, err)
		assert.NoError(t, ci.Validate())
		assert.LessOrEqual(t, ci.Low, ci.Estimate)
		assert.LessOrEqual(t, ci.Estimate, ci.High)
	}
}

func TestInterval_BattingScenario(t *testing.T) {
	calc := NewCalculator(0)

	prior := bayes.Prior{Alpha: 101.4, Beta: 287.3}
	a, err := bayes.NewPosterior(prior, bayes.Observation{Entity: "a", Successes: 3771, Trials: 12364})
	require.NoError(t, err)
	b, err := bayes.NewPosterior(prior, bayes.Observation{Entity: "b", Successes: 2127, Trials: 6911})
	require.NoError(t, err)

	ci, err := calc.Interval(context.Background(), a, b, 0.95)
	require.NoError(t, err)

	// B holds a small positive edge: estimate = mu_b - mu_a.
	assert.InDelta(t, b.Mean()-a.Mean(), ci.Estimate, 1e-12)
	assert.InDelta(t, 0.0016, ci.Estimate, 0.003)
	assert.InDelta(t, 0.60, ci.PosteriorProb, 0.02)
	assert.Less(t, ci.Low, 0.0)
	assert.Greater(t, ci.High, 0.0)
}

// Fewer trials mean a wider interval, holding the prior and the other
// entity fixed (shrinkage via the prior).
func TestInterval_WidthGrowsAsTrialsShrink(t *testing.T) {
	calc := NewCalculator(0)
	ctx := context.Background()

	prior := bayes.Prior{Alpha: 20, Beta: 60}
	baseline, err := bayes.NewPosterior(prior, bayes.Observation{Entity: "base", Successes: 300, Trials: 1000})
	require.NoError(t, err)

	trials := []int64{10000, 1000, 100, 10}
	prevWidth := -1.0
	for _, n := range trials {
		obs := bayes.Observation{Entity: "cand", Successes: n / 4, Trials: n}
		candidate, err := bayes.NewPosterior(prior, obs)
		require.NoError(t, err)

		ci, err := calc.Interval(ctx, baseline, candidate, 0.95)
		require.NoError(t, err)

		width := ci.High - ci.Low
		if prevWidth >= 0 {
			assert.Greater(t, width, prevWidth, "interval must widen as trials drop to %d", n)
		}
		prevWidth = width
	}
}

func TestInterval_LevelControlsWidth(t *testing.T) {
	calc := NewCalculator(0)
	ctx := context.Background()

	a := mustPosterior(t, 50, 150)
	b := mustPosterior(t, 60, 140)

	narrow, err := calc.Interval(ctx, a, b, 0.80)
	require.NoError(t, err)
	wide, err := calc.Interval(ctx, a, b, 0.99)
	require.NoError(t, err)

	assert.Greater(t, wide.High-wide.Low, narrow.High-narrow.Low)
	assert.Equal(t, 0.80, narrow.Level)
	assert.Equal(t, 0.99, wide.Level)
}

func TestInterval_RejectsBadConfidenceLevel(t *testing.T) {
	calc := NewCalculator(0)
	a := mustPosterior(t, 10, 10)

	for _, level := range []float64{0, 1, -0.5, 1.5} {
		_, err := calc.Interval(context.Background(), a, a, level)
		assert.ErrorIs(t, err, core.ErrInvalidConfidence, "level %g", level)
	}
}

func TestBatch_EmptyCandidatesYieldEmptyResult(t *testing.T) {
	calc := NewCalculator(0)
	baseline := mustPosterior(t, 10, 10)

	results, err := calc.Batch(context.Background(), baseline, nil, 0.95)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatch_ResultsMatchSequentialCalls(t *testing.T) {
	calc := NewCalculator(2)
	ctx := context.Background()

	baseline := mustPosterior(t, 300, 700)
	candidates := []bayes.Posterior{
		mustPosterior(t, 310, 690),
		mustPosterior(t, 280, 720),
		mustPosterior(t, 400, 600),
		mustPosterior(t, 5, 15),
	}

	batch, err := calc.Batch(ctx, baseline, candidates, 0.95)
	require.NoError(t, err)
	require.Len(t, batch, len(candidates))

	for i, candidate := range candidates {
		single, err := calc.Interval(ctx, baseline, candidate, 0.95)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i], "candidate %d", i)
	}
}

func TestBatch_InvalidCandidateFails(t *testing.T) {
	calc := NewCalculator(2)
	baseline := mustPosterior(t, 10, 10)
	candidates := []bayes.Posterior{
		mustPosterior(t, 12, 10),
		{Alpha: -1, Beta: 4},
	}

	_, err := calc.Batch(context.Background(), baseline, candidates, 0.95)
	assert.ErrorIs(t, err, core.ErrInvalidPosterior)
}
