package bayes

import (
	"math"
	"testing"

	"gobayes/domain/core"
)

func TestNewPosterior_AddsPseudoCounts(t *testing.T) {
	prior := Prior{Alpha: 101.4, Beta: 287.3}
	obs := Observation{Entity: "a", Successes: 3771, Trials: 12364}

	p, err := NewPosterior(prior, obs)
	if err != nil {
		t.Fatalf("NewPosterior returned error: %v", err)
	}

	if math.Abs(p.Alpha-3872.4) > 1e-9 {
		t.Errorf("Alpha = %g, want 3872.4", p.Alpha)
	}
	if math.Abs(p.Beta-8880.3) > 1e-9 {
		t.Errorf("Beta = %g, want 8880.3", p.Beta)
	}
}

func TestNewPosterior_Validation(t *testing.T) {
	valid := Prior{Alpha: 1, Beta: 1}

	cases := []struct {
		name  string
		prior Prior
		obs   Observation
	}{
		{"zero prior alpha", Prior{Alpha: 0, Beta: 1}, Observation{Trials: 10}},
		{"negative prior beta", Prior{Alpha: 1, Beta: -2}, Observation{Trials: 10}},
		{"zero trials", valid, Observation{Successes: 0, Trials: 0}},
		{"negative successes", valid, Observation{Successes: -1, Trials: 10}},
		{"successes exceed trials", valid, Observation{Successes: 11, Trials: 10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPosterior(tc.prior, tc.obs); err == nil {
				t.Errorf("expected validation error, got nil")
			} else if !core.IsValidationError(err) {
				t.Errorf("expected validation error class, got %v", err)
			}
		})
	}
}

func TestPosterior_Moments(t *testing.T) {
	p, err := PosteriorFromParams(10, 30)
	if err != nil {
		t.Fatalf("PosteriorFromParams: %v", err)
	}

	if got, want := p.Mean(), 0.25; math.Abs(got-want) > 1e-12 {
		t.Errorf("Mean = %g, want %g", got, want)
	}
	// alpha*beta / ((alpha+beta)^2 (alpha+beta+1)) = 300 / (1600*41)
	if got, want := p.Variance(), 300.0/(1600.0*41.0); math.Abs(got-want) > 1e-15 {
		t.Errorf("Variance = %g, want %g", got, want)
	}
}

func TestPosteriorFromParams_RejectsNonPositive(t *testing.T) {
	if _, err := PosteriorFromParams(0, 5); err == nil {
		t.Error("expected error for alpha=0")
	}
	if _, err := PosteriorFromParams(5, 0); err == nil {
		t.Error("expected error for beta=0")
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"simulation", "integration", "exact", "approximation"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q) returned error: %v", s, err)
		}
	}

	if _, err := ParseStrategy("bogus"); !core.IsConfigurationError(err) {
		t.Errorf("expected configuration error for unknown strategy, got %v", err)
	}
}

func TestCredibleInterval_Validate(t *testing.T) {
	ok := CredibleInterval{PosteriorProb: 0.5, Estimate: 0.0, Low: -0.1, High: 0.1, Level: 0.95}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid interval rejected: %v", err)
	}

	bad := CredibleInterval{Estimate: 0.2, Low: -0.1, High: 0.1, Level: 0.95}
	if err := bad.Validate(); err == nil {
		t.Error("expected ordering violation error")
	}

	badLevel := CredibleInterval{Estimate: 0, Low: -0.1, High: 0.1, Level: 1.0}
	if err := badLevel.Validate(); err == nil {
		t.Error("expected confidence level error")
	}
}
