package comparators

import "math"

// logBeta computes ln B(a, b) from log-Gamma terms. Working in log-space is
// what keeps the closed-form summation stable: the Beta function over- or
// underflows float64 well before the parameter sizes this library is
// expected to handle (thousands of observed trials).
func logBeta(a, b float64) float64 {
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	return la + lb - lab
}
