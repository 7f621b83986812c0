// Package aggregate groups vertices into disjoint aggregates, the
// unsmoothed-aggregation alternative to Coarse/Fine splitting. Each
// aggregate becomes one coarse degree of freedom; the tentative
// prolongation injects a near-kernel vector (by default the constant one)
// into each aggregate's column.
//
// Two strategies are provided. Pairwise greedily matches each vertex with
// its strongest coupled free neighbor and repeats the matching on the
// quotient operator for a configurable number of passes. VMB grows
// aggregates from whole strongly-coupled neighborhoods in three sweeps.
// Both consider a coupling strong when
//
//	a_ij <= -StrongCoupled · √(a_ii · a_jj).
//
// Aggregate numbering follows the ascending order of each aggregate's
// lowest-numbered member, and that member carries the Coarse label in the
// returned splitting, so Splitting.CoarseIndex agrees with the aggregate
// ids everywhere.
package aggregate

import "errors"

// Tunable defaults, shared with the hierarchy configuration.
const (
	// DefaultStrongCoupled is the default aggregation coupling threshold.
	DefaultStrongCoupled = 0.08

	// DefaultMaxSize caps how many vertices one VMB aggregate may absorb.
	DefaultMaxSize = 20

	// DefaultPasses is the default number of pairwise matching rounds.
	DefaultPasses = 2

	// DefaultQualityBound is the default bound on accepted pair quality.
	DefaultQualityBound = 10.0
)

// Sentinel errors of the aggregation strategies.
var (
	// ErrNilMatrix reports a nil operator.
	ErrNilMatrix = errors.New("aggregate: nil matrix")

	// ErrNotSquare reports a rectangular operator.
	ErrNotSquare = errors.New("aggregate: matrix is not square")

	// ErrBadPasses reports a pairwise pass count below one.
	ErrBadPasses = errors.New("aggregate: pass count must be at least 1")

	// ErrBadCoupling reports a non-positive coupling threshold.
	ErrBadCoupling = errors.New("aggregate: coupling threshold must be positive")

	// ErrBadQuality reports a non-positive pair quality bound.
	ErrBadQuality = errors.New("aggregate: quality bound must be positive")

	// ErrBadMaxSize reports an aggregate size cap below two.
	ErrBadMaxSize = errors.New("aggregate: max aggregate size must be at least 2")

	// ErrNoAggregates reports a splitting that carries no aggregate map.
	ErrNoAggregates = errors.New("aggregate: splitting has no aggregates")

	// ErrBadAggregate reports an aggregate id outside the coarse space.
	ErrBadAggregate = errors.New("aggregate: aggregate id out of range")

	// ErrKernelLength reports a near-kernel vector of the wrong length.
	ErrKernelLength = errors.New("aggregate: near-kernel length mismatch")
)

// NewPairwise returns a Pairwise strategy with the standard parameters.
func NewPairwise() Pairwise {
	return Pairwise{
		Passes:        DefaultPasses,
		StrongCoupled: DefaultStrongCoupled,
		QualityBound:  DefaultQualityBound,
	}
}

// NewVMB returns a VMB strategy with the standard parameters.
func NewVMB() VMB {
	return VMB{
		StrongCoupled: DefaultStrongCoupled,
		MaxSize:       DefaultMaxSize,
	}
}
