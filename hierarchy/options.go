package hierarchy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/coarse"
	"github.com/katalvlaran/amg/interp"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/smoother"
	"github.com/katalvlaran/amg/strength"
)

// Options configures Build.
//
// Coarsener/Interpolator/Smoother/CoarseSolver pick the strategy objects;
// the remaining fields tune the setup loop. Strength applies to every
// level that needs a strength graph. NearKernel seeds the tentative
// prolongation and is averaged aggregate-wise onto each coarser level.
type Options struct {
	Coarsener    Coarsener         // coarse-space selection per level
	Interpolator Interpolator      // prolongation assembly per level
	Smoother     smoother.Smoother // relaxation attached to every level
	CoarseSolver coarse.Solver     // direct solver for the coarsest operator

	MaxLevels     int              // depth cap, at least 1
	MinCoarseSize int              // stop once a level has this many rows
	Strength      strength.Options // strong-coupling classification
	NearKernel    []float64        // near-kernel vector on the finest level

	Kind          CycleKind   // recursion shape of one cycle
	AMLIDegree    int         // Chebyshev degree for AMLICycle
	Sweeps        int         // smoothing sweeps per correction side
	Order         SmoothOrder // vertex order of relaxation sweeps
	CoarseScaling bool        // energy-minimizing correction step length

	ILULevels        int // levels smoothed by incomplete factorization
	SchwarzLevels    int // levels smoothed by overlapping block solves
	AggressiveLevels int // levels allowed to coarsen aggressively

	Log *zap.Logger     // setup diagnostics, Nop by default
	Pol parallel.Policy // parallelism bound for setup and cycling
}

// Option mutates the Build configuration.
type Option func(*Options)

// DefaultOptions returns the classical configuration: strength-based
// splitting, direct interpolation, one Gauss-Seidel sweep per side in
// Coarse-first order, V cycles and a dense coarsest solve.
func DefaultOptions() Options {
	return Options{
		Coarsener:        cfsplit.Classical{},
		Interpolator:     interp.NewDirect(),
		Smoother:         smoother.NewGaussSeidel(),
		CoarseSolver:     coarse.NewDense(),
		MaxLevels:        DefaultMaxLevels,
		MinCoarseSize:    DefaultMinCoarseSize,
		Strength:         strength.DefaultOptions(),
		Kind:             VCycle,
		AMLIDegree:       DefaultAMLIDegree,
		Sweeps:           DefaultSweeps,
		Order:            OrderCF,
		AggressiveLevels: 1,
		Log:              zap.NewNop(),
		Pol:              parallel.Default(),
	}
}

// WithCoarsener selects the coarse-space strategy. Classical repair is
// derived from the interpolator, so a Classical value's SkipRepair field
// is ignored.
func WithCoarsener(c Coarsener) Option {
	return func(o *Options) { o.Coarsener = c }
}

// WithInterpolator selects the prolongation scheme. Levels coarsened
// aggressively upgrade a distance-one scheme to standard interpolation on
// their own.
func WithInterpolator(ip Interpolator) Option {
	return func(o *Options) { o.Interpolator = ip }
}

// WithSmoother selects the relaxation attached to every level outside the
// ILU and Schwarz ranges.
func WithSmoother(s smoother.Smoother) Option {
	return func(o *Options) { o.Smoother = s }
}

// WithCoarseSolver replaces the coarsest-level solver. A solver whose
// factorization reports a singular operator is swapped for a safeguarded
// conjugate-gradient fallback with a warning.
func WithCoarseSolver(s coarse.Solver) Option {
	return func(o *Options) { o.CoarseSolver = s }
}

// WithMaxLevels caps the hierarchy depth, the finest level included.
func WithMaxLevels(n int) Option {
	return func(o *Options) { o.MaxLevels = n }
}

// WithMinCoarseSize stops coarsening once a level operator has n rows or
// fewer. Hard floors of 50 rows for splitting and 20 for aggregation
// apply underneath.
func WithMinCoarseSize(n int) Option {
	return func(o *Options) { o.MinCoarseSize = n }
}

// WithStrength replaces the strong-coupling classification parameters.
func WithStrength(so strength.Options) Option {
	return func(o *Options) { o.Strength = so }
}

// WithNearKernel seeds the tentative prolongation with a near-kernel
// vector of the finest operator, one value per row. Nil means the
// constant vector.
func WithNearKernel(v []float64) Option {
	return func(o *Options) { o.NearKernel = v }
}

// WithCycle selects the recursion shape cycles follow.
func WithCycle(k CycleKind) Option {
	return func(o *Options) { o.Kind = k }
}

// WithAMLIDegree sets the Chebyshev polynomial degree of AMLICycle
// corrections. Degree zero reduces to a scaled V cycle.
func WithAMLIDegree(d int) Option {
	return func(o *Options) { o.AMLIDegree = d }
}

// WithSweeps sets the number of smoothing sweeps on each side of the
// coarse-grid correction.
func WithSweeps(n int) Option {
	return func(o *Options) { o.Sweeps = n }
}

// WithSmoothOrder selects the vertex order of relaxation sweeps.
func WithSmoothOrder(ord SmoothOrder) Option {
	return func(o *Options) { o.Order = ord }
}

// WithCoarseScaling scales the prolongated correction by the energy
// minimizer <e,r>/<Ae,e>, capped at one.
func WithCoarseScaling() Option {
	return func(o *Options) { o.CoarseScaling = true }
}

// WithILULevels smooths the first n levels with an incomplete
// factorization instead of the configured smoother. A level whose
// factorization hits a zero pivot falls back with a warning, as do all
// levels below it.
func WithILULevels(n int) Option {
	return func(o *Options) { o.ILULevels = n }
}

// WithSchwarzLevels smooths the first n levels with overlapping block
// solves instead of the configured smoother. ILU takes precedence where
// both ranges cover a level.
func WithSchwarzLevels(n int) Option {
	return func(o *Options) { o.SchwarzLevels = n }
}

// WithAggressiveLevels allows aggressive coarsening on the first n
// levels. Beyond them an Aggressive coarsener degrades to classical
// splitting. The value is forced to at least 1 when the configured
// coarsener is Aggressive.
func WithAggressiveLevels(n int) Option {
	return func(o *Options) { o.AggressiveLevels = n }
}

// WithLogger routes setup diagnostics to log. Nil restores the silent
// default.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) { o.Log = log }
}

// WithPolicy bounds the parallelism of setup and of every cycle run on
// the finished hierarchy.
func WithPolicy(pol parallel.Policy) Option {
	return func(o *Options) { o.Pol = pol }
}

// validate rejects configurations Build cannot honor. n is the finest
// operator size.
func (o *Options) validate(n int) error {
	switch {
	case o.Coarsener == nil:
		return fmt.Errorf("%w: nil coarsener", ErrBadOption)
	case o.Interpolator == nil:
		return fmt.Errorf("%w: nil interpolator", ErrBadOption)
	case o.Smoother == nil:
		return fmt.Errorf("%w: nil smoother", ErrBadOption)
	case o.CoarseSolver == nil:
		return fmt.Errorf("%w: nil coarse solver", ErrBadOption)
	case o.MaxLevels < 1:
		return fmt.Errorf("%w: MaxLevels %d, need at least 1", ErrBadOption, o.MaxLevels)
	case o.MinCoarseSize < 1:
		return fmt.Errorf("%w: MinCoarseSize %d, need at least 1", ErrBadOption, o.MinCoarseSize)
	case o.Strength.Threshold <= 0 || o.Strength.Threshold >= 1:
		return fmt.Errorf("%w: strength threshold %g outside (0, 1)", ErrBadOption, o.Strength.Threshold)
	case o.NearKernel != nil && len(o.NearKernel) != n:
		return fmt.Errorf("%w: near-kernel length %d for %d rows", ErrBadOption, len(o.NearKernel), n)
	case o.Kind != VCycle && o.Kind != WCycle && o.Kind != AMLICycle:
		return fmt.Errorf("%w: unknown cycle kind %d", ErrBadOption, o.Kind)
	case o.Kind == AMLICycle && o.AMLIDegree < 0:
		return fmt.Errorf("%w: AMLI degree %d, need at least 0", ErrBadOption, o.AMLIDegree)
	case o.Sweeps < 1:
		return fmt.Errorf("%w: Sweeps %d, need at least 1", ErrBadOption, o.Sweeps)
	case o.Order != OrderNatural && o.Order != OrderCF:
		return fmt.Errorf("%w: unknown smooth order %d", ErrBadOption, o.Order)
	case o.ILULevels < 0:
		return fmt.Errorf("%w: ILULevels %d, need at least 0", ErrBadOption, o.ILULevels)
	case o.SchwarzLevels < 0:
		return fmt.Errorf("%w: SchwarzLevels %d, need at least 0", ErrBadOption, o.SchwarzLevels)
	case o.AggressiveLevels < 0:
		return fmt.Errorf("%w: AggressiveLevels %d, need at least 0", ErrBadOption, o.AggressiveLevels)
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}

	return nil
}
