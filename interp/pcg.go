package interp

import (
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// pcgDiag runs Jacobi-preconditioned conjugate gradients on t·x = b until
// the relative residual drops under tol or maxIter iterations pass. x is
// both the initial guess and the result; the return value is the number
// of iterations taken. The auxiliary energy system is well conditioned,
// so a loose solve is all the caller needs.
func pcgDiag(t *sparse.CSR, b, x []float64, tol float64, maxIter int, pol parallel.Policy) int {
	n := t.Rows
	inv := make([]float64, n)
	for i, d := range t.Diag() {
		if d != 0 {
			inv[i] = 1 / d
		} else {
			inv[i] = 1
		}
	}

	r := make([]float64, n)
	_ = t.Residual(pol, b, x, r)
	z := make([]float64, n)
	for i := range z {
		z[i] = inv[i] * r[i]
	}
	p := append([]float64(nil), z...)
	ap := make([]float64, n)

	rz := floats.Dot(r, z)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		bnorm = 1
	}

	for it := 0; it < maxIter; it++ {
		if floats.Norm(r, 2) <= tol*bnorm {
			return it
		}
		_ = t.MulVec(pol, p, ap)
		pap := floats.Dot(p, ap)
		if pap == 0 {
			return it
		}
		alpha := rz / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		for i := range z {
			z[i] = inv[i] * r[i]
		}
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}

	return maxIter
}
