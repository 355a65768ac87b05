package comparators

import (
	"context"
	"fmt"

	"gobayes/domain/bayes"
	"gobayes/domain/core"
)

// Comparator is one numerical strategy for computing P(B > A) over two Beta
// posteriors. All implementations are pure functions of their inputs: no
// shared mutable state, safe for arbitrary concurrent invocation.
type Comparator interface {
	Name() bayes.Strategy
	Description() string
	Compare(ctx context.Context, a, b bayes.Posterior, params bayes.CompareParams) (bayes.ComparisonResult, error)
}

// Engine is the single polymorphic entry point over the four strategies.
// It dispatches by strategy identifier and rejects unknown identifiers or
// missing strategy-specific parameters with configuration errors.
type Engine struct {
	comparators map[bayes.Strategy]Comparator
}

// NewEngine creates an engine with all four strategies registered.
func NewEngine() *Engine {
	e := &Engine{comparators: make(map[bayes.Strategy]Comparator)}
	for _, c := range []Comparator{
		NewMonteCarloComparator(),
		NewIntegrationComparator(),
		NewClosedFormComparator(),
		NewNormalApproxComparator(),
	} {
		e.comparators[c.Name()] = c
	}
	return e
}

// Compare dispatches to the comparator matching the strategy identifier.
func (e *Engine) Compare(ctx context.Context, strategy bayes.Strategy, a, b bayes.Posterior, params bayes.CompareParams) (bayes.ComparisonResult, error) {
	c, ok := e.comparators[strategy]
	if !ok {
		return bayes.ComparisonResult{}, fmt.Errorf("%w: %q", core.ErrUnknownStrategy, strategy)
	}
	return c.Compare(ctx, a, b, params)
}

// Strategies returns the registered strategy identifiers.
func (e *Engine) Strategies() []bayes.Strategy {
	return []bayes.Strategy{
		bayes.StrategySimulation,
		bayes.StrategyIntegration,
		bayes.StrategyExact,
		bayes.StrategyApproximation,
	}
}

// Describe returns the human-readable contract for a strategy.
func (e *Engine) Describe(strategy bayes.Strategy) (string, error) {
	c, ok := e.comparators[strategy]
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownStrategy, strategy)
	}
	return c.Description(), nil
}

// validatePair checks both posteriors before any numerical work.
func validatePair(a, b bayes.Posterior) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("posterior A: %w", err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("posterior B: %w", err)
	}
	return nil
}

// clampProbability keeps accumulated floating-point results inside [0, 1].
func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
