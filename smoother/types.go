package smoother

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/amg/sparse"
)

// Direction selects the traversal order of one relaxation sweep.
type Direction int

const (
	// Forward visits rows in ascending order.
	Forward Direction = iota

	// Backward visits rows in descending order.
	Backward
)

// Defaults applied by the constructors.
const (
	// DefaultJacobiWeight damps Jacobi updates enough to smooth the
	// oscillatory error modes of diffusion stencils.
	DefaultJacobiWeight = 2.0 / 3.0

	// DefaultSchwarzDepth is the breadth-first radius used to grow a
	// Schwarz block when none is configured.
	DefaultSchwarzDepth = 2

	// DefaultSchwarzBlock caps the size of one Schwarz block when none
	// is configured.
	DefaultSchwarzBlock = 200
)

// Smoother applies a fixed number of relaxation sweeps to A·x = b,
// mutating x in place. Non-positive sweep counts leave x untouched.
type Smoother interface {
	Smooth(a *sparse.CSR, b, x []float64, sweeps int, dir Direction) error
}

// Sentinel errors of the relaxation methods.
var (
	// ErrNilMatrix reports a nil operator.
	ErrNilMatrix = errors.New("smoother: nil matrix")

	// ErrNotSquare reports a rectangular operator.
	ErrNotSquare = errors.New("smoother: matrix is not square")

	// ErrVectorLength reports a vector whose length does not match the
	// matrix order.
	ErrVectorLength = errors.New("smoother: vector length mismatch")

	// ErrBadOmega reports a relaxation weight outside (0, 2).
	ErrBadOmega = errors.New("smoother: relaxation weight outside (0, 2)")

	// ErrZeroDiagonal reports a zero diagonal entry in a row the sweep
	// must divide by.
	ErrZeroDiagonal = errors.New("smoother: zero diagonal entry")

	// ErrZeroPivot reports a zero pivot met during the incomplete
	// factorization. The caller may fall back to a plain smoother.
	ErrZeroPivot = errors.New("smoother: zero pivot in incomplete factorization")

	// ErrSingularBlock reports a Schwarz block whose dense factorization
	// cannot be solved.
	ErrSingularBlock = errors.New("smoother: singular Schwarz block")

	// ErrSetupMismatch reports a matrix whose order differs from the one
	// the smoother was set up with.
	ErrSetupMismatch = errors.New("smoother: matrix does not match setup")

	// ErrBadOrder reports a sweep order referencing rows outside the
	// matrix.
	ErrBadOrder = errors.New("smoother: sweep order out of range")
)

// checkSystem validates the operator and vector shapes shared by every
// smoother.
func checkSystem(a *sparse.CSR, b, x []float64) error {
	switch {
	case a == nil:
		return ErrNilMatrix
	case a.Rows != a.Cols:
		return fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows, a.Cols)
	case len(b) != a.Rows:
		return fmt.Errorf("%w: len(b)=%d, want %d", ErrVectorLength, len(b), a.Rows)
	case len(x) != a.Rows:
		return fmt.Errorf("%w: len(x)=%d, want %d", ErrVectorLength, len(x), a.Rows)
	}

	return nil
}

// checkOmega validates a relaxation weight.
func checkOmega(omega float64) error {
	if omega <= 0 || omega >= 2 {
		return fmt.Errorf("%w: %g", ErrBadOmega, omega)
	}

	return nil
}

// checkOrder validates a sweep order against the matrix order n.
func checkOrder(order []int, n int) error {
	for _, i := range order {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: row %d outside [0, %d)", ErrBadOrder, i, n)
		}
	}

	return nil
}

// growWork returns buf resized to n, reallocating only on growth.
func growWork(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}

	return buf[:n]
}
