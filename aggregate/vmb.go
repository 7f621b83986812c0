package aggregate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// VMB grows aggregates from whole strongly-coupled neighborhoods, the
// Vaněk–Mandel–Brezina scheme. Three sweeps in ascending vertex order:
//
//  1. every vertex whose strong neighborhood is entirely free seeds an
//     aggregate from itself plus that neighborhood;
//  2. leftover vertices attach to the strongest adjacent aggregate from
//     sweep one that still has room;
//  3. whatever remains seeds new aggregates from its free neighbors.
//
// MaxSize caps the member count of every aggregate.
type VMB struct {
	StrongCoupled float64
	MaxSize       int
}

// NeedsStrength reports that Coarsen works from operator values directly.
func (VMB) NeedsStrength() bool { return false }

// Coarsen runs the three sweeps and returns the splitting with the
// aggregate map filled. The strength graph argument is unused.
func (v VMB) Coarsen(a *sparse.CSR, _ *strength.Graph, pol parallel.Policy) (cfsplit.Splitting, error) {
	switch {
	case a == nil:
		return cfsplit.Splitting{}, ErrNilMatrix
	case a.Rows != a.Cols:
		return cfsplit.Splitting{}, fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows, a.Cols)
	case v.StrongCoupled <= 0:
		return cfsplit.Splitting{}, ErrBadCoupling
	case v.MaxSize < 2:
		return cfsplit.Splitting{}, fmt.Errorf("%w: got %d", ErrBadMaxSize, v.MaxSize)
	}

	n := a.Rows
	nbr := coupledNeighbors(a, v.StrongCoupled, pol)

	aggr := make([]int, n)
	for i := range aggr {
		aggr[i] = -1
	}
	var size []int

	// Sweep 1: seed from untouched neighborhoods.
	for i := 0; i < n; i++ {
		if aggr[i] >= 0 {
			continue
		}
		free := true
		for _, j := range nbr.Row(i) {
			if aggr[j] >= 0 {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		id := len(size)
		aggr[i] = id
		members := 1
		for _, j := range nbr.Row(i) {
			if members >= v.MaxSize {
				break
			}
			aggr[j] = id
			members++
		}
		size = append(size, members)
	}

	// Sweep 2: attach leftovers to the strongest adjacent seed aggregate.
	// Decisions read the sweep-one snapshot so attachments cannot chain
	// through each other.
	seeded := make([]int, n)
	copy(seeded, aggr)
	diag := a.Diag()
	for i := 0; i < n; i++ {
		if aggr[i] >= 0 {
			continue
		}
		cols, vals := a.Row(i)
		best, bestVal := -1, 0.0
		for k, j := range cols {
			if j == i || seeded[j] < 0 || size[seeded[j]] >= v.MaxSize {
				continue
			}
			if !coupled(vals[k], diag[i], diag[j], v.StrongCoupled) {
				continue
			}
			if vals[k] < bestVal {
				best, bestVal = seeded[j], vals[k]
			}
		}
		if best >= 0 {
			aggr[i] = best
			size[best]++
		}
	}

	// Sweep 3: seed the stragglers from whatever free neighbors remain.
	for i := 0; i < n; i++ {
		if aggr[i] >= 0 {
			continue
		}
		id := len(size)
		aggr[i] = id
		members := 1
		for _, j := range nbr.Row(i) {
			if members >= v.MaxSize {
				break
			}
			if aggr[j] >= 0 {
				continue
			}
			aggr[j] = id
			members++
		}
		size = append(size, members)
	}

	sp := normalize(aggr)
	if sp.NumCoarse == 0 {
		return sp, ErrNoAggregates
	}

	return sp, nil
}

// coupled applies the sign-aware aggregation strength test.
func coupled(v, di, dj, sc float64) bool {
	if di <= 0 || dj <= 0 {
		return false
	}

	return v <= -sc*math.Sqrt(di*dj)
}

// coupledNeighbors extracts the strongly-coupled adjacency (diagonal
// excluded) as a pattern, using the usual two-pass fill under the policy.
func coupledNeighbors(a *sparse.CSR, sc float64, pol parallel.Policy) *sparse.Pattern {
	n := a.Rows
	diag := a.Diag()

	rowPtr := make([]int, n+1)
	parallel.For(pol, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			cols, vals := a.Row(i)
			cnt := 0
			for k, j := range cols {
				if j != i && coupled(vals[k], diag[i], diag[j], sc) {
					cnt++
				}
			}
			rowPtr[i+1] = cnt
		}
	})
	for i := 0; i < n; i++ {
		rowPtr[i+1] += rowPtr[i]
	}

	colInd := make([]int, rowPtr[n])
	parallel.For(pol, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			cols, vals := a.Row(i)
			k := rowPtr[i]
			for m, j := range cols {
				if j != i && coupled(vals[m], diag[i], diag[j], sc) {
					colInd[k] = j
					k++
				}
			}
		}
	})

	return &sparse.Pattern{Rows: n, Cols: n, RowPtr: rowPtr, ColInd: colInd}
}
