package smoother

import "github.com/katalvlaran/amg/sparse"

// SOR is Gauss–Seidel with an over-relaxation weight. Omega must lie in
// (0, 2); Omega = 1 reproduces GaussSeidel exactly.
type SOR struct {
	Omega float64
}

// NewSOR returns an SOR smoother with the given weight. The weight is
// validated on the first Smooth call.
func NewSOR(omega float64) SOR { return SOR{Omega: omega} }

// Smooth runs sweeps weighted passes over all rows in the given
// direction.
func (s SOR) Smooth(a *sparse.CSR, b, x []float64, sweeps int, dir Direction) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if err := checkOmega(s.Omega); err != nil {
		return err
	}

	return relaxSweeps(a, b, x, sweeps, dir, nil, s.Omega)
}

func (s SOR) smoothOrder(a *sparse.CSR, b, x []float64, sweeps int, dir Direction, order []int) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if err := checkOmega(s.Omega); err != nil {
		return err
	}
	if err := checkOrder(order, a.Rows); err != nil {
		return err
	}

	return relaxSweeps(a, b, x, sweeps, dir, order, s.Omega)
}
