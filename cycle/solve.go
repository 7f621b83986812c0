package cycle

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/amg/hierarchy"
)

// Driver defaults.
const (
	// DefaultTol is the relative-residual tolerance of Solve.
	DefaultTol = 1e-6

	// DefaultMaxIter caps the cycle count of Solve.
	DefaultMaxIter = 100
)

// Solve iterates cycles until ‖b − A·x‖₂ drops below tol·‖b‖₂, improving
// x in place from its current value. Non-positive tol or maxIter fall
// back to the package defaults. It returns the cycles run and the final
// relative residual; hitting the iteration cap is reported through those
// values, not as an error.
func Solve(h *hierarchy.Hierarchy, b, x []float64, tol float64, maxIter int) (int, float64, error) {
	if h == nil || len(h.Levels) == 0 {
		return 0, 0, ErrNilHierarchy
	}
	fine := h.Finest()
	n := fine.A.Rows
	if len(b) != n || len(x) != n {
		return 0, 0, fmt.Errorf("%w: finest level holds %d rows", ErrVectorLength, n)
	}
	if tol <= 0 {
		tol = DefaultTol
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	// The finest work vector doubles as the residual buffer between
	// cycles; Apply rewrites it anyway.
	r := fine.Work[:n]
	normb := floats.Norm(b, 2)
	if normb == 0 {
		normb = 1
	}

	if err := fine.A.Residual(h.Pol, b, x, r); err != nil {
		return 0, 0, err
	}
	relres := floats.Norm(r, 2) / normb
	if relres < tol {
		return 0, relres, nil
	}

	for it := 1; it <= maxIter; it++ {
		if err := Apply(h, b, x); err != nil {
			return it - 1, relres, err
		}
		if err := fine.A.Residual(h.Pol, b, x, r); err != nil {
			return it, relres, err
		}
		relres = floats.Norm(r, 2) / normb
		if relres < tol {
			return it, relres, nil
		}
	}

	return maxIter, relres, nil
}
