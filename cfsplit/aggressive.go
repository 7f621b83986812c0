package cfsplit

import (
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Aggressive coarsens twice: a Classical pass selects temporary Coarse
// vertices, a second greedy pass runs on the graph connecting those
// vertices across up to two strong hops, and only its winners survive.
//
// Path selects how two Coarse vertices count as coupled:
//
//	Path == 1: a direct strong edge, or at least one strongly coupled
//	           Fine intermediary.
//	Path == 2: a direct strong edge, or at least two independent Fine
//	           intermediaries.
//
// Path 1 eliminates more vertices. The resulting splitting needs an
// interpolation scheme that reaches across two hops; the hierarchy pairs
// Aggressive with the standard scheme.
type Aggressive struct {
	Path int
}

// NeedsStrength reports that Coarsen requires a strength graph.
func (Aggressive) NeedsStrength() bool { return true }

// Coarsen runs the two-round selection and the distance-two repair.
// An empty strength graph or an empty final coarse set returns
// ErrNoProgress.
func (ag Aggressive) Coarsen(a *sparse.CSR, g *strength.Graph, pol parallel.Policy) (Splitting, error) {
	if ag.Path != 1 && ag.Path != 2 {
		return Splitting{}, ErrBadPath
	}

	// Round one: temporary coarse set. The repair pass is pointless here
	// because round two reshuffles the labels anyway.
	sp, err := Classical{SkipRepair: true}.Coarsen(a, g, pol)
	if err != nil {
		return sp, err
	}

	// Index the temporary Coarse vertices in ascending order; the second
	// round works in this compact coarse space.
	cpIndex := make([]int, 0, sp.NumCoarse)
	cpRindex := make([]int, len(sp.Labels))
	for i, l := range sp.Labels {
		if l == Coarse {
			cpRindex[i] = len(cpIndex)
			cpIndex = append(cpIndex, i)
		} else {
			cpRindex[i] = -1
		}
	}

	sh := buildCoarseGraph(g.S, sp.Labels, cpIndex, cpRindex, ag.Path)
	keep := secondRound(sh)

	// Demote everything the second round eliminated.
	numCoarse := 0
	for ci, i := range cpIndex {
		if keep[ci] {
			numCoarse++
		} else {
			sp.Labels[i] = Fine
		}
	}
	sp.NumCoarse = numCoarse

	promoteStranded(g.S, sp.Labels, &sp.NumCoarse)

	if sp.NumCoarse == 0 {
		return sp, ErrNoProgress
	}

	return sp, nil
}

// buildCoarseGraph assembles Sh, the strong coupling graph between the
// temporary Coarse vertices. Edges follow ascending source order; the
// stamp array deduplicates targets per source row in O(1).
func buildCoarseGraph(s *sparse.Pattern, labels []Label, cpIndex, cpRindex []int, path int) *sparse.Pattern {
	numC := len(cpIndex)
	stamp := make([]int, numC)

	rowPtr := make([]int, numC+1)
	for ci := 0; ci < numC; ci++ {
		count := 0
		visitCoarseRow(s, labels, cpRindex, cpIndex[ci], ci, stamp, path, func(int) {
			count++
		})
		rowPtr[ci+1] = rowPtr[ci] + count
	}

	// The fill pass reuses the stamps, so wipe the first pass's marks.
	clear(stamp)

	colInd := make([]int, rowPtr[numC])
	for ci := 0; ci < numC; ci++ {
		k := rowPtr[ci]
		visitCoarseRow(s, labels, cpRindex, cpIndex[ci], ci, stamp, path, func(cj int) {
			colInd[k] = cj
			k++
		})
	}

	return &sparse.Pattern{Rows: numC, Cols: numC, RowPtr: rowPtr, ColInd: colInd}
}

// visitCoarseRow emits each coarse vertex coupled to source ci exactly
// once. Direct Coarse neighbors always count; couplings through Fine
// intermediaries need one sighting on path 1 and two on path 2. Stamps
// encode per-source state: +mark emitted, -mark seen once.
func visitCoarseRow(s *sparse.Pattern, labels []Label, cpRindex []int, i, ci int, stamp []int, path int, emit func(cj int)) {
	mark := ci + 1
	for _, j := range s.Row(i) {
		switch {
		case labels[j] == Coarse && j != i:
			cj := cpRindex[j]
			if stamp[cj] != mark {
				stamp[cj] = mark
				emit(cj)
			}
		case labels[j] == Fine:
			for _, k := range s.Row(j) {
				if labels[k] != Coarse || k == i {
					continue
				}
				ck := cpRindex[k]
				switch {
				case stamp[ck] == mark:
					// already emitted
				case path == 1 || stamp[ck] == -mark:
					stamp[ck] = mark
					emit(ck)
				default:
					stamp[ck] = -mark
				}
			}
		}
	}
}

// secondRound replays the greedy max-measure selection on Sh and reports
// which coarse vertices survive.
func secondRound(sh *sparse.Pattern) []bool {
	numC := sh.Rows
	sht := sh.Transpose()

	lambda := make([]int, numC)
	for ci := 0; ci < numC; ci++ {
		lambda[ci] = len(sht.Row(ci))
	}

	const (
		stateTemp int8 = iota
		stateKeep
		stateGone
	)
	state := make([]int8, numC)
	q := newBucketQueue(numC)

	// Seed in ascending order, mirroring the first round: vertices with no
	// influence in Sh are eliminated outright and reward their neighbors.
	for ci := 0; ci < numC; ci++ {
		if lambda[ci] > 0 {
			q.insert(ci, lambda[ci])
			continue
		}
		state[ci] = stateGone
		for _, cj := range sh.Row(ci) {
			if state[cj] != stateTemp {
				continue
			}
			if q.contains(cj) {
				q.remove(cj)
				lambda[cj]++
				q.insert(cj, lambda[cj])
			} else {
				lambda[cj]++
			}
		}
	}

	bump := func(cj int) {
		for _, ck := range sh.Row(cj) {
			if state[ck] != stateTemp {
				continue
			}
			q.remove(ck)
			lambda[ck]++
			q.insert(ck, lambda[ck])
		}
	}

	for {
		ci, ok := q.extractMax()
		if !ok {
			break
		}
		state[ci] = stateKeep

		for _, cj := range sht.Row(ci) {
			if state[cj] != stateTemp {
				continue
			}
			state[cj] = stateGone
			q.remove(cj)
			bump(cj)
		}
		for _, cj := range sh.Row(ci) {
			if state[cj] != stateTemp {
				continue
			}
			q.remove(cj)
			lambda[cj]--
			if lambda[cj] > 0 {
				q.insert(cj, lambda[cj])
				continue
			}
			state[cj] = stateGone
			bump(cj)
		}
	}

	keep := make([]bool, numC)
	for ci, st := range state {
		keep[ci] = st == stateKeep
	}

	return keep
}

// promoteStranded walks vertices in ascending order and promotes every
// Fine vertex with no Coarse vertex within two strong hops. Standard
// interpolation needs at least one reachable Coarse point per row; after
// two elimination rounds some Fine vertices end up beyond that horizon.
// Promotions take effect immediately and can satisfy later vertices.
func promoteStranded(s *sparse.Pattern, labels []Label, numCoarse *int) {
	for i := range labels {
		if labels[i] != Fine {
			continue
		}
		if coarseWithinTwo(s, labels, i) {
			continue
		}
		labels[i] = Coarse
		*numCoarse++
	}
}

func coarseWithinTwo(s *sparse.Pattern, labels []Label, i int) bool {
	for _, k := range s.Row(i) {
		switch labels[k] {
		case Coarse:
			return true
		case Fine:
			for _, m := range s.Row(k) {
				if labels[m] == Coarse {
					return true
				}
			}
		}
	}

	return false
}
