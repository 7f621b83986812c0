package interp

import "errors"

// DefaultTruncation is the default interpolation truncation fraction:
// entries smaller than this share of the row's signed extreme are dropped.
const DefaultTruncation = 0.2

// Sentinel errors of the interpolation schemes.
var (
	// ErrNilMatrix reports a nil operator.
	ErrNilMatrix = errors.New("interp: nil matrix")

	// ErrNilGraph reports a missing strength graph.
	ErrNilGraph = errors.New("interp: nil strength graph")

	// ErrOrderMismatch reports operands of different orders.
	ErrOrderMismatch = errors.New("interp: order mismatch")

	// ErrBadSplitting reports a splitting whose labels do not cover the grid.
	ErrBadSplitting = errors.New("interp: splitting does not match matrix")

	// ErrNoCoarse reports a splitting without coarse points.
	ErrNoCoarse = errors.New("interp: splitting has no coarse points")

	// ErrBadTruncation reports a truncation fraction outside [0, 1).
	ErrBadTruncation = errors.New("interp: truncation fraction outside [0, 1)")

	// ErrZeroDiagonal reports a zero pivot where a row is scaled by its
	// diagonal entry.
	ErrZeroDiagonal = errors.New("interp: zero diagonal entry")

	// ErrSingularBlock reports a singular local block in the energy
	// minimization solve. The whole setup cannot proceed past it.
	ErrSingularBlock = errors.New("interp: singular local block")
)

// NewDirect returns a Direct scheme with the standard truncation.
func NewDirect() Direct {
	return Direct{Truncation: DefaultTruncation}
}

// NewStandard returns a Standard scheme with the standard truncation.
func NewStandard() Standard {
	return Standard{Truncation: DefaultTruncation}
}

// NewEnergyMin returns an EnergyMin scheme with the stock inner-solve
// controls.
func NewEnergyMin() EnergyMin {
	return EnergyMin{Tol: 1e-3, MaxIter: 100}
}
