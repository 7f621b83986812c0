package coarse

import (
	"errors"

	"github.com/katalvlaran/amg/sparse"
)

// Defaults of the iterative fallback solver.
const (
	// DefaultTol is the relative residual target of CG.
	DefaultTol = 1e-8

	// DefaultMaxIter bounds the CG iteration count.
	DefaultMaxIter = 500
)

// Safety-net controls of the CG loop: restart budgets, the stagnation
// ratio relative to the tolerance, and the smallest magnitude treated as
// nonzero.
const (
	maxStag    = 20
	maxRestart = 20
	stagRatio  = 1e-4
	smallReal  = 1e-20
)

// Solver factorizes the coarsest operator once and solves against it
// repeatedly.
type Solver interface {
	Factorize(a *sparse.CSR) error
	Solve(b, x []float64) error
}

// Sentinel errors of the coarsest-level solvers.
var (
	// ErrNilMatrix reports a nil or empty operator.
	ErrNilMatrix = errors.New("coarse: nil matrix")

	// ErrNotSquare reports a rectangular operator.
	ErrNotSquare = errors.New("coarse: matrix is not square")

	// ErrNotFactored reports a Solve before a successful Factorize.
	ErrNotFactored = errors.New("coarse: solver not factorized")

	// ErrVectorLength reports a vector whose length does not match the
	// factorized operator.
	ErrVectorLength = errors.New("coarse: vector length mismatch")

	// ErrSingular reports an exactly singular coarse operator.
	ErrSingular = errors.New("coarse: singular coarse operator")
)
