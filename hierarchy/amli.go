package hierarchy

import "math"

// amliLambdaMax and amliLambdaMin bound the assumed spectrum of the
// preconditioned coarse operator. The Chebyshev coefficients are computed
// once at setup for this interval.
const (
	amliLambdaMax = 2.0
	amliLambdaMin = amliLambdaMax / 4
)

// amliCoefficients returns the degree+1 coefficients of the polynomial
// q(t) = coef[degree]·t^degree + … + coef[0] that AMLI cycling applies to
// the coarse-grid correction. q approximates 1/t on
// [lambdaMin, lambdaMax], so the weighted corrections damp the whole
// spectrum of the preconditioned coarse operator instead of the smooth
// end alone.
//
// The construction is the classical shifted-Chebyshev three-term
// recurrence on the reciprocal interval: q_0 is the midpoint rule, q_1
// the linear best fit, and each further degree mixes the two previous
// polynomials with weights derived from the interval's condition number.
func amliCoefficients(lambdaMax, lambdaMin float64, degree int) []float64 {
	mu0, mu1 := 1/lambdaMax, 1/lambdaMin

	s := math.Sqrt(mu0) + math.Sqrt(mu1)
	c := s * s
	a := 4 * mu0 * mu1 / c

	kappa := lambdaMax / lambdaMin
	delta := (math.Sqrt(kappa) - 1) / (math.Sqrt(kappa) + 1)
	b := delta * delta

	// q_0 and q_1 seed the recurrence.
	qkm1 := []float64{0.5 * (mu0 + mu1)}
	if degree == 0 {
		return qkm1
	}
	qk := []float64{0.5 * c, -mu0 * mu1}

	for k := 2; k <= degree; k++ {
		q := make([]float64, k+1)
		q[0] = a - b*qkm1[0] + (1+b)*qk[0]
		for i := 1; i < k-1; i++ {
			q[i] = -b*qkm1[i] + (1+b)*qk[i] - a*qk[i-1]
		}
		q[k-1] = (1+b)*qk[k-1] - a*qk[k-2]
		q[k] = -a * qk[k-1]
		qkm1, qk = qk, q
	}

	return qk
}
