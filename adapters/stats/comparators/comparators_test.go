package comparators

import (
	"context"
	"math"
	"testing"

	"gobayes/domain/bayes"
	"gobayes/domain/core"
)

func mustPosterior(t *testing.T, alpha, beta float64) bayes.Posterior {
	t.Helper()
	p, err := bayes.PosteriorFromParams(alpha, beta)
	if err != nil {
		t.Fatalf("PosteriorFromParams(%g, %g): %v", alpha, beta, err)
	}
	return p
}

// fullGrid covers the whole unit interval at a step fine enough for the
// agreement tolerances used below.
var fullGrid = bayes.CompareParams{
	Draws: 1_000_000,
	Seed:  42,
	Lower: 0,
	Upper: 1,
	Step:  0.0005,
}

func TestEngine_IdenticalPosteriors_AllStrategiesNearHalf(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	a := mustPosterior(t, 10, 10)
	b := mustPosterior(t, 10, 10)

	for _, strategy := range engine.Strategies() {
		result, err := engine.Compare(ctx, strategy, a, b, fullGrid)
		if err != nil {
			t.Fatalf("%s: Compare returned error: %v", strategy, err)
		}
		if math.Abs(result.Probability-0.5) > 0.01 {
			t.Errorf("%s: identical posteriors gave %f, want ~0.5", strategy, result.Probability)
		}
		if result.Strategy != strategy {
			t.Errorf("result tagged %q, want %q", result.Strategy, strategy)
		}
	}
}

func TestEngine_StrategiesAgreeForModerateParameters(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	// All parameters comfortably above 50, where every strategy's
	// documented error bound is inside +-0.01.
	pairs := []struct {
		name string
		a, b bayes.Posterior
	}{
		{"near even", mustPosterior(t, 60, 80), mustPosterior(t, 75, 90)},
		{"clear edge", mustPosterior(t, 120, 260), mustPosterior(t, 140, 250)},
		{"large counts", mustPosterior(t, 600, 1400), mustPosterior(t, 630, 1380)},
	}

	for _, pair := range pairs {
		t.Run(pair.name, func(t *testing.T) {
			probs := make(map[bayes.Strategy]float64)
			for _, strategy := range engine.Strategies() {
				result, err := engine.Compare(ctx, strategy, pair.a, pair.b, fullGrid)
				if err != nil {
					t.Fatalf("%s: %v", strategy, err)
				}
				probs[strategy] = result.Probability
			}

			for s1, p1 := range probs {
				for s2, p2 := range probs {
					if math.Abs(p1-p2) > 0.01 {
						t.Errorf("%s (%f) and %s (%f) differ by more than 0.01", s1, p1, s2, p2)
					}
				}
			}
		})
	}
}

func TestComplementSymmetry(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	a := mustPosterior(t, 80, 120)
	b := mustPosterior(t, 95, 110)

	cases := []struct {
		strategy bayes.Strategy
		tol      float64
	}{
		{bayes.StrategyExact, 1e-6},
		{bayes.StrategyApproximation, 1e-9},
		{bayes.StrategyIntegration, 0.005},
		{bayes.StrategySimulation, 0.01},
	}

	for _, tc := range cases {
		t.Run(string(tc.strategy), func(t *testing.T) {
			ab, err := engine.Compare(ctx, tc.strategy, a, b, fullGrid)
			if err != nil {
				t.Fatal(err)
			}
			ba, err := engine.Compare(ctx, tc.strategy, b, a, fullGrid)
			if err != nil {
				t.Fatal(err)
			}
			if got := ab.Probability + ba.Probability; math.Abs(got-1) > tc.tol {
				t.Errorf("P(B>A) + P(A>B) = %f, want 1 within %g", got, tc.tol)
			}
		})
	}
}

func TestMonteCarlo_ConvergesToClosedForm(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	a := mustPosterior(t, 60, 140)
	b := mustPosterior(t, 70, 135)

	exact, err := engine.Compare(ctx, bayes.StrategyExact, a, b, bayes.CompareParams{})
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		draws int
		tol   float64
	}{
		{1_000, 0.05},
		{10_000, 0.02},
		{1_000_000, 0.005},
	}

	for _, step := range steps {
		mc, err := engine.Compare(ctx, bayes.StrategySimulation, a, b, bayes.CompareParams{Draws: step.draws, Seed: 7})
		if err != nil {
			t.Fatal(err)
		}
		if diff := math.Abs(mc.Probability - exact.Probability); diff > step.tol {
			t.Errorf("draws=%d: |mc - exact| = %f exceeds %g", step.draws, diff, step.tol)
		}
	}
}

func TestMonteCarlo_SeedDeterminism(t *testing.T) {
	c := NewMonteCarloComparator()
	ctx := context.Background()

	a := mustPosterior(t, 30, 50)
	b := mustPosterior(t, 35, 45)
	params := bayes.CompareParams{Draws: 50_000, Seed: 1234}

	first, err := c.Compare(ctx, a, b, params)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Compare(ctx, a, b, params)
	if err != nil {
		t.Fatal(err)
	}

	if first.Probability != second.Probability {
		t.Errorf("same seed produced %f then %f", first.Probability, second.Probability)
	}
}

func TestMonteCarlo_DrawParamErrors(t *testing.T) {
	c := NewMonteCarloComparator()
	a := mustPosterior(t, 10, 10)
	ctx := context.Background()

	// Omitted entirely: a configuration problem, not a bad value.
	_, err := c.Compare(ctx, a, a, bayes.CompareParams{Seed: 1})
	if !core.IsConfigurationError(err) {
		t.Errorf("expected missing-param configuration error for zero draws, got %v", err)
	}

	_, err = c.Compare(ctx, a, a, bayes.CompareParams{Draws: -100, Seed: 1})
	if !core.IsValidationError(err) {
		t.Errorf("expected draw count validation error, got %v", err)
	}
}

func TestIntegration_GridParamErrors(t *testing.T) {
	c := NewIntegrationComparator()
	a := mustPosterior(t, 10, 10)
	ctx := context.Background()

	if _, err := c.Compare(ctx, a, a, bayes.CompareParams{Lower: 0, Upper: 1}); !core.IsConfigurationError(err) {
		t.Errorf("expected missing-param configuration error for omitted step, got %v", err)
	}
	if _, err := c.Compare(ctx, a, a, bayes.CompareParams{Lower: 0, Upper: 1, Step: -0.001}); !core.IsValidationError(err) {
		t.Errorf("expected grid error for negative step, got %v", err)
	}
	if _, err := c.Compare(ctx, a, a, bayes.CompareParams{Lower: 0.8, Upper: 0.2, Step: 0.001}); !core.IsValidationError(err) {
		t.Errorf("expected grid error for inverted bounds, got %v", err)
	}
}

func TestIntegration_NarrowBoundsWarns(t *testing.T) {
	c := NewIntegrationComparator()
	a := mustPosterior(t, 10, 10)
	b := mustPosterior(t, 12, 10)

	// Beta(10,10) holds substantial mass outside [0.45, 0.55].
	result, err := c.Compare(context.Background(), a, b, bayes.CompareParams{Lower: 0.45, Upper: 0.55, Step: 0.0005})
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, w := range result.Warnings {
		if w == bayes.WarningNarrowBounds {
			found = true
		}
	}
	if !found {
		t.Errorf("expected NARROW_BOUNDS warning, got %v", result.Warnings)
	}
}

func TestNormalApprox_WarnsOnSkewedPosteriors(t *testing.T) {
	c := NewNormalApproxComparator()

	skewed := mustPosterior(t, 2, 40)
	broad := mustPosterior(t, 60, 60)

	result, err := c.Compare(context.Background(), skewed, broad, bayes.CompareParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) == 0 || result.Warnings[0] != bayes.WarningSkewedPosterior {
		t.Errorf("expected SKEWED_POSTERIOR warning, got %v", result.Warnings)
	}
}

func TestEngine_UnknownStrategy(t *testing.T) {
	engine := NewEngine()
	a := mustPosterior(t, 10, 10)

	_, err := engine.Compare(context.Background(), bayes.Strategy("bogus"), a, a, bayes.CompareParams{})
	if !core.IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

// The batting-average scenario: shared prior (101.4, 287.3), entity A with
// 3771/12364 and entity B with 2127/6911. B carries a small edge.
func TestEngine_BattingScenario(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	prior := bayes.Prior{Alpha: 101.4, Beta: 287.3}
	a, err := bayes.NewPosterior(prior, bayes.Observation{Entity: "a", Successes: 3771, Trials: 12364})
	if err != nil {
		t.Fatal(err)
	}
	b, err := bayes.NewPosterior(prior, bayes.Observation{Entity: "b", Successes: 2127, Trials: 6911})
	if err != nil {
		t.Fatal(err)
	}

	exact, err := engine.Compare(ctx, bayes.StrategyExact, a, b, bayes.CompareParams{})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(exact.Probability-0.60) > 0.02 {
		t.Errorf("exact P(B>A) = %f, want 0.60 +- 0.02", exact.Probability)
	}

	// Non-integer alpha_b (2228.4) must surface the rounding.
	found := false
	for _, w := range exact.Warnings {
		if w == bayes.WarningAlphaRounded {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ALPHA_ROUNDED warning for alpha_b=%g", b.Alpha)
	}

	approx, err := engine.Compare(ctx, bayes.StrategyApproximation, a, b, bayes.CompareParams{})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(approx.Probability-exact.Probability) > 0.01 {
		t.Errorf("approximation %f and exact %f diverge beyond 0.01", approx.Probability, exact.Probability)
	}
}
