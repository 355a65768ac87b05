package bayes

import (
	"fmt"

	"gobayes/domain/core"
)

// Prior holds the shared empirical-Bayes pseudo-counts applied to every
// entity before its own observations. It is threaded explicitly into each
// posterior construction so comparisons under different priors stay
// independently reproducible; there is no process-wide prior.
type Prior struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Validate checks the prior is a well-defined Beta parameter pair.
func (p Prior) Validate() error {
	if p.Alpha <= 0 || p.Beta <= 0 {
		return fmt.Errorf("%w: got alpha=%g, beta=%g", core.ErrInvalidPrior, p.Alpha, p.Beta)
	}
	return nil
}

// Observation is one entity's raw success/trial record, as produced by the
// upstream estimator. Successes must be non-negative and not exceed trials.
type Observation struct {
	Entity    core.EntityKey `json:"entity"`
	Successes int64          `json:"successes"`
	Trials    int64          `json:"trials"`
}

// Validate checks the observation counts.
func (o Observation) Validate() error {
	if o.Trials <= 0 || o.Successes < 0 || o.Successes > o.Trials {
		return core.NewObservationError(o.Entity, o.Successes, o.Trials)
	}
	return nil
}

// Posterior is an immutable Beta(alpha, beta) parameter pair summarizing one
// entity's success-rate uncertainty. Both parameters are strictly positive
// for every value built through NewPosterior or PosteriorFromParams; treat
// the struct as read-only once constructed.
type Posterior struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// NewPosterior updates the prior with observed counts:
// alpha = prior.Alpha + successes, beta = prior.Beta + (trials - successes).
func NewPosterior(prior Prior, obs Observation) (Posterior, error) {
	if err := prior.Validate(); err != nil {
		return Posterior{}, err
	}
	if err := obs.Validate(); err != nil {
		return Posterior{}, err
	}
	return Posterior{
		Alpha: prior.Alpha + float64(obs.Successes),
		Beta:  prior.Beta + float64(obs.Trials-obs.Successes),
	}, nil
}

// PosteriorFromParams builds a posterior directly from Beta parameters,
// for callers that already carry fitted values.
func PosteriorFromParams(alpha, beta float64) (Posterior, error) {
	p := Posterior{Alpha: alpha, Beta: beta}
	if err := p.Validate(); err != nil {
		return Posterior{}, err
	}
	return p, nil
}

// Validate checks the Beta distribution is well-defined.
func (p Posterior) Validate() error {
	if p.Alpha <= 0 || p.Beta <= 0 {
		return fmt.Errorf("%w: got alpha=%g, beta=%g", core.ErrInvalidPosterior, p.Alpha, p.Beta)
	}
	return nil
}

// Mean returns the exact first moment alpha / (alpha + beta).
func (p Posterior) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// Variance returns the exact second central moment
// alpha*beta / ((alpha+beta)^2 * (alpha+beta+1)).
func (p Posterior) Variance() float64 {
	n := p.Alpha + p.Beta
	return p.Alpha * p.Beta / (n * n * (n + 1))
}

func (p Posterior) String() string {
	return fmt.Sprintf("Beta(%g, %g)", p.Alpha, p.Beta)
}
