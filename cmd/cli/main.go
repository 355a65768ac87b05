package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gobayes/adapters/excel"
	"gobayes/adapters/stats/comparators"
	"gobayes/adapters/stats/interval"
	"gobayes/app"
	"gobayes/domain/bayes"
	"gobayes/domain/core"
	"gobayes/internal"
	"gobayes/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobayes-cli",
		Short: "Bayesian A/B comparison of binomial success rates",
	}

	rootCmd.AddCommand(
		newCompareCmd(),
		newIntervalCmd(),
		newBatchCmd(),
		newStrategiesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService(workers int) *app.ComparisonService {
	engine := comparators.NewEngine()
	calc := interval.NewCalculator(workers)
	return app.NewComparisonService(engine, calc, nil, internal.DefaultLogger)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type priorFlags struct {
	alpha float64
	beta  float64
}

func (p *priorFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.alpha, "prior-alpha", 1.0, "Beta prior alpha (pseudo-successes)")
	cmd.Flags().Float64Var(&p.beta, "prior-beta", 1.0, "Beta prior beta (pseudo-failures)")
}

func (p *priorFlags) prior() bayes.Prior {
	return bayes.Prior{Alpha: p.alpha, Beta: p.beta}
}

func newCompareCmd() *cobra.Command {
	var prior priorFlags
	var strategy string
	var draws int
	var seed uint64
	var step float64
	var level float64

	cmd := &cobra.Command{
		Use:   "compare [successes-a] [trials-a] [successes-b] [trials-b]",
		Short: "Compute P(B > A) for two binomial observations",
		Long: `Derive Beta posteriors for two observed success counts under a shared
prior and compute the probability that B's true rate exceeds A's.

Example: gobayes-cli compare 3771 12364 2127 6911 --strategy exact`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			req := app.CompareRequest{
				Prior:    prior.prior(),
				A:        bayes.Observation{Entity: "A", Successes: counts[0], Trials: counts[1]},
				B:        bayes.Observation{Entity: "B", Successes: counts[2], Trials: counts[3]},
				Strategy: bayes.Strategy(strategy),
				Params: bayes.CompareParams{
					Draws: draws,
					Seed:  seed,
					Lower: 0,
					Upper: 1,
					Step:  step,
				},
				Level: level,
			}
			outcome, err := newService(1).Compare(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(outcome)
		},
	}

	prior.register(cmd)
	cmd.Flags().StringVar(&strategy, "strategy", string(bayes.StrategySimulation), "Strategy: simulation, integration, exact, or approximation")
	cmd.Flags().IntVar(&draws, "draws", 100_000, "Monte Carlo draw count")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "Random seed for deterministic simulation")
	cmd.Flags().Float64Var(&step, "step", 0.001, "Grid step for numerical integration")
	cmd.Flags().Float64Var(&level, "level", bayes.DefaultConfidenceLevel, "Credible interval level")

	return cmd
}

func newIntervalCmd() *cobra.Command {
	var prior priorFlags
	var level float64

	cmd := &cobra.Command{
		Use:   "interval [successes-a] [trials-a] [successes-b] [trials-b]",
		Short: "Compute the credible interval for the rate difference B - A",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			req := app.IntervalRequest{
				Prior: prior.prior(),
				A:     bayes.Observation{Entity: "A", Successes: counts[0], Trials: counts[1]},
				B:     bayes.Observation{Entity: "B", Successes: counts[2], Trials: counts[3]},
				Level: level,
			}
			outcome, err := newService(1).Interval(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(outcome)
		},
	}

	prior.register(cmd)
	cmd.Flags().Float64Var(&level, "level", bayes.DefaultConfidenceLevel, "Credible interval level")

	return cmd
}

func newBatchCmd() *cobra.Command {
	var prior priorFlags
	var level float64
	var workers int
	var baseline string
	var format string

	cmd := &cobra.Command{
		Use:   "batch [observations-file]",
		Short: "Compare every candidate in a sheet against a baseline",
		Long: `Read observations from an .xlsx or .csv file (columns: entity,
successes, trials) and compute a credible interval for each candidate
against the baseline. The baseline defaults to the first row.

Example: gobayes-cli batch variants.xlsx --baseline control --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0], prior.prior(), baseline, level, workers, format)
		},
	}

	prior.register(cmd)
	cmd.Flags().Float64Var(&level, "level", bayes.DefaultConfidenceLevel, "Credible interval level")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent interval computations")
	cmd.Flags().StringVar(&baseline, "baseline", "", "Entity to use as baseline (default: first row)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown, html, or json")

	return cmd
}

func runBatch(ctx context.Context, path string, prior bayes.Prior, baselineEntity string, level float64, workers int, format string) error {
	observations, err := excel.NewObservationReader(path).Read()
	if err != nil {
		return fmt.Errorf("reading observations: %w", err)
	}
	if len(observations) == 0 {
		return fmt.Errorf("no observations in %s", path)
	}

	baselineIdx := 0
	if baselineEntity != "" {
		baselineIdx = -1
		for i, obs := range observations {
			if obs.Entity == core.EntityKey(baselineEntity) {
				baselineIdx = i
				break
			}
		}
		if baselineIdx < 0 {
			return fmt.Errorf("baseline entity %q not found in %s", baselineEntity, path)
		}
	}

	baseline := observations[baselineIdx]
	candidates := make([]bayes.Observation, 0, len(observations)-1)
	for i, obs := range observations {
		if i != baselineIdx {
			candidates = append(candidates, obs)
		}
	}

	outcome, err := newService(workers).BatchCompare(ctx, app.BatchRequest{
		Prior:      prior,
		Baseline:   baseline,
		Candidates: candidates,
		Level:      level,
	})
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return printJSON(outcome)
	case "html":
		md := report.BuildMarkdown(baseline.Entity, outcome)
		_, err := os.Stdout.Write(report.RenderHTML(md))
		return err
	default:
		fmt.Print(report.BuildMarkdown(baseline.Entity, outcome))
		return nil
	}
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the registered comparison strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := comparators.NewEngine()
			for _, s := range engine.Strategies() {
				desc, err := engine.Describe(s)
				if err != nil {
					return err
				}
				fmt.Printf("%-14s %s\n", s, desc)
			}
			return nil
		},
	}
}

func parseCounts(args []string) ([4]int64, error) {
	var counts [4]int64
	names := [4]string{"successes-a", "trials-a", "successes-b", "trials-b"}
	for i, arg := range args {
		if _, err := fmt.Sscanf(arg, "%d", &counts[i]); err != nil {
			return counts, fmt.Errorf("invalid %s %q: must be an integer", names[i], arg)
		}
	}
	return counts, nil
}
