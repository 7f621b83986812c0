package hierarchy

import (
	"errors"

	"github.com/katalvlaran/amg/aggregate"
	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/coarse"
	"github.com/katalvlaran/amg/interp"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/smoother"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Tunable defaults of Build.
const (
	// DefaultMaxLevels caps the hierarchy depth.
	DefaultMaxLevels = 20

	// DefaultMinCoarseSize stops coarsening once a level operator has
	// this many rows or fewer.
	DefaultMinCoarseSize = 500

	// DefaultSweeps is the number of smoothing sweeps on each side of
	// the coarse-grid correction.
	DefaultSweeps = 1

	// DefaultAMLIDegree is the degree of the Chebyshev polynomial that
	// weights AMLI coarse-grid corrections.
	DefaultAMLIDegree = 2
)

// Sentinel errors of hierarchy construction.
var (
	// ErrNilMatrix reports a nil or empty finest operator.
	ErrNilMatrix = errors.New("hierarchy: nil matrix")

	// ErrNotSquare reports a rectangular finest operator.
	ErrNotSquare = errors.New("hierarchy: matrix is not square")

	// ErrBadOption reports an invalid Build configuration. The wrapped
	// message names the offending option.
	ErrBadOption = errors.New("hierarchy: bad option")
)

// CycleKind selects the recursion shape one cycle follows.
type CycleKind int

const (
	// VCycle visits every coarse level once per cycle.
	VCycle CycleKind = iota

	// WCycle recurses twice below every level.
	WCycle

	// AMLICycle weights the coarse-grid correction with Chebyshev
	// polynomial coefficients of the configured degree.
	AMLICycle
)

// String returns a short lower-case name for logs.
func (k CycleKind) String() string {
	switch k {
	case VCycle:
		return "v"
	case WCycle:
		return "w"
	case AMLICycle:
		return "amli"
	default:
		return "unknown"
	}
}

// SmoothOrder selects the vertex order relaxation sweeps visit.
type SmoothOrder int

const (
	// OrderNatural sweeps rows in index order.
	OrderNatural SmoothOrder = iota

	// OrderCF sweeps Coarse rows before Fine rows on the forward leg
	// and reverses the whole order on the backward leg. Levels without
	// a splitting fall back to natural order.
	OrderCF
)

// Coarsener selects the coarse space of one level.
type Coarsener interface {
	// Coarsen labels the vertices of a. The strength graph is nil when
	// NeedsStrength reports false.
	Coarsen(a *sparse.CSR, g *strength.Graph, pol parallel.Policy) (cfsplit.Splitting, error)

	// NeedsStrength reports whether Coarsen consumes a strength graph.
	NeedsStrength() bool
}

// Interpolator assembles the prolongation for one splitting.
type Interpolator interface {
	Interpolate(a *sparse.CSR, g *strength.Graph, sp cfsplit.Splitting, pol parallel.Policy) (*sparse.CSR, error)

	// RoutesThroughFine reports whether the scheme reaches across
	// Fine-Fine couplings. Schemes that stop at distance one need the
	// repaired splitting property; schemes that route through Fine
	// intermediaries do not.
	RoutesThroughFine() bool
}

// The stock strategies satisfy the two interfaces.
var (
	_ Coarsener = cfsplit.Classical{}
	_ Coarsener = cfsplit.Aggressive{}
	_ Coarsener = aggregate.Pairwise{}
	_ Coarsener = aggregate.VMB{}

	_ Interpolator = interp.Direct{}
	_ Interpolator = interp.Standard{}
	_ Interpolator = interp.EnergyMin{}
	_ Interpolator = aggregate.Tentative{}
)

// Level is one rung of the hierarchy. Transfer operators live on the fine
// side: P brings corrections up from the next coarser level and R takes
// residuals down to it, so the coarsest level carries neither.
type Level struct {
	// A is the level operator, stored with the diagonal entry first in
	// every row.
	A *sparse.CSR

	// P is the prolongation from the next coarser level, sized
	// rows(A) by rows of the coarser operator. Nil on the coarsest
	// level.
	P *sparse.CSR

	// R is the restriction to the next coarser level, the transpose of
	// P. Nil on the coarsest level.
	R *sparse.CSR

	// Labels is the splitting that produced P, kept for ordered
	// smoothing. Nil on the coarsest level.
	Labels []cfsplit.Label

	// CycleType is how many times one cycle recurses below this level.
	// Zero on the coarsest level.
	CycleType int

	// Smoother relaxes this level. Nil on the coarsest level, which is
	// solved directly.
	Smoother smoother.Smoother

	// B and X hold the level right-hand side and iterate between cycle
	// visits. Nil on the finest level, which works on caller vectors.
	B, X []float64

	// Work is level scratch. Work[:n] holds residuals; on coarse levels
	// AMLI cycling keeps the restricted right-hand side in Work[n:2n].
	Work []float64
}

// Hierarchy is the immutable product of Build. Levels[0] is the finest.
type Hierarchy struct {
	// Levels, finest first. Always at least one.
	Levels []Level

	// Kind is the recursion shape cycles follow.
	Kind CycleKind

	// Sweeps is the number of smoothing sweeps on each side of the
	// coarse-grid correction.
	Sweeps int

	// AMLICoef holds the degree+1 Chebyshev coefficients computed at
	// setup. Nil unless Kind is AMLICycle.
	AMLICoef []float64

	// CoarseScaling enables the energy-minimizing step length on the
	// prolongated correction.
	CoarseScaling bool

	// CoarseSolver is factorized on the coarsest operator.
	CoarseSolver coarse.Solver

	// Pol bounds the parallelism of the level operations during cycles.
	Pol parallel.Policy
}

// Finest returns the first level.
func (h *Hierarchy) Finest() *Level { return &h.Levels[0] }

// Coarsest returns the last level.
func (h *Hierarchy) Coarsest() *Level { return &h.Levels[len(h.Levels)-1] }

// NumLevels returns the level count.
func (h *Hierarchy) NumLevels() int { return len(h.Levels) }

// OperatorComplexity is the stored-entry count summed over all level
// operators, relative to the finest. Values near one mean nearly free
// coarse levels; classical coarsening typically lands between 1.2 and 2.5.
func (h *Hierarchy) OperatorComplexity() float64 {
	if len(h.Levels) == 0 {
		return 0
	}
	total := 0
	for i := range h.Levels {
		total += h.Levels[i].A.NNZ()
	}

	return float64(total) / float64(h.Levels[0].A.NNZ())
}

// GridComplexity is the unknown count summed over all levels, relative to
// the finest.
func (h *Hierarchy) GridComplexity() float64 {
	if len(h.Levels) == 0 {
		return 0
	}
	total := 0
	for i := range h.Levels {
		total += h.Levels[i].A.Rows
	}

	return float64(total) / float64(h.Levels[0].A.Rows)
}
