package cfsplit

import (
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Classical is the Ruge–Stüben splitter. The zero value is ready to use.
//
// SkipRepair disables the common-coarse-neighbor repair pass. Interpolation
// schemes that route through Fine–Fine couplings (the standard scheme) do
// not need the repaired property and set it to keep the coarse space small.
type Classical struct {
	SkipRepair bool
}

// NeedsStrength reports that Coarsen requires a strength graph.
func (Classical) NeedsStrength() bool { return true }

// Coarsen labels every vertex Coarse, Fine or Isolated and returns the
// splitting. The strength graph must have been built from a; an empty graph
// or a run that selects no Coarse vertex returns ErrNoProgress together
// with the labels produced so far.
func (c Classical) Coarsen(a *sparse.CSR, g *strength.Graph, pol parallel.Policy) (Splitting, error) {
	switch {
	case a == nil:
		return Splitting{}, ErrNilMatrix
	case g == nil:
		return Splitting{}, ErrNilGraph
	case g.Order() != a.Rows:
		return Splitting{}, ErrOrderMismatch
	}
	if g.EdgeCount() == 0 {
		return Splitting{}, ErrNoProgress
	}

	r := newSplitRunner(a, g, pol)
	r.seed()
	r.greedy()
	if !c.SkipRepair {
		r.repair()
	}

	sp := Splitting{Labels: r.labels, NumCoarse: r.numCoarse}
	if sp.NumCoarse == 0 {
		return sp, ErrNoProgress
	}

	return sp, nil
}

// splitRunner carries the state of one splitting pass.
type splitRunner struct {
	a      *sparse.CSR
	s      *sparse.Pattern // strong dependencies, row i = vertices i depends on
	st     *sparse.Pattern // strong influences, row i = vertices depending on i
	labels []Label
	lambda []int
	q      *bucketQueue

	numCoarse int
}

func newSplitRunner(a *sparse.CSR, g *strength.Graph, pol parallel.Policy) *splitRunner {
	n := g.Order()
	r := &splitRunner{
		a:      a,
		s:      g.S,
		st:     g.S.Transpose(),
		labels: make([]Label, n),
		lambda: make([]int, n),
		q:      newBucketQueue(n),
	}

	// lambda is the influence count, the in-degree of the strength graph.
	// Vertices whose operator row holds at most one entry are Isolated and
	// stay out of the queue for good.
	parallel.For(pol, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if a.RowNNZ(i) <= 1 {
				r.labels[i] = Isolated
				continue
			}
			r.lambda[i] = len(r.st.Row(i))
		}
	})

	return r
}

// seed enqueues every undecided vertex, in ascending index order so that
// equal measures resolve to the lowest index. Vertices with no influence
// at all become Fine immediately; each of their strong dependencies gains
// a unit of measure, because interpolating the new Fine vertex makes its
// dependencies more valuable as Coarse candidates.
func (r *splitRunner) seed() {
	for i := 0; i < len(r.labels); i++ {
		if r.labels[i] == Isolated {
			continue
		}
		if r.lambda[i] > 0 {
			r.q.insert(i, r.lambda[i])
			continue
		}
		r.labels[i] = Fine
		for _, j := range r.s.Row(i) {
			if r.labels[j] != Undecided {
				continue
			}
			// Later vertices pick the bump up when their own turn comes.
			if r.q.contains(j) {
				r.q.remove(j)
				r.lambda[j]++
				r.q.insert(j, r.lambda[j])
			} else {
				r.lambda[j]++
			}
		}
	}
}

// greedy runs the max-measure selection until no undecided vertex remains.
func (r *splitRunner) greedy() {
	for {
		v, ok := r.q.extractMax()
		if !ok {
			break
		}

		// 1) The most-influential vertex joins the coarse space.
		r.labels[v] = Coarse
		r.numCoarse++

		// 2) Everything that strongly depends on v can now interpolate
		//    from it and becomes Fine; their remaining dependencies grow
		//    in measure.
		for _, j := range r.st.Row(v) {
			if r.labels[j] != Undecided {
				continue
			}
			r.labels[j] = Fine
			r.q.remove(j)
			r.bumpDependencies(j)
		}

		// 3) Vertices v depends on lose a unit of measure. Whoever drops
		//    to zero has no influence left to offer and becomes Fine.
		for _, j := range r.s.Row(v) {
			if r.labels[j] != Undecided {
				continue
			}
			r.q.remove(j)
			r.lambda[j]--
			if r.lambda[j] > 0 {
				r.q.insert(j, r.lambda[j])
				continue
			}
			r.labels[j] = Fine
			r.bumpDependencies(j)
		}
	}
}

// bumpDependencies rewards the undecided strong dependencies of a vertex
// that just became Fine. Re-insertion moves them to the tail of the next
// bucket, preserving first-in-first-out age order per measure.
func (r *splitRunner) bumpDependencies(j int) {
	for _, k := range r.s.Row(j) {
		if r.labels[k] != Undecided {
			continue
		}
		r.q.remove(k)
		r.lambda[k]++
		r.q.insert(k, r.lambda[k])
	}
}

// repair enforces the classical two-distance property: every strong
// Fine–Fine pair must share a strong Coarse neighbor, so that direct-style
// interpolation never meets an unreachable coupling. Vertices are visited
// in ascending order. The first violation at vertex i promotes the
// offending neighbor tentatively; a second violation during the re-check
// promotes i itself and reverts the tentative promotion.
func (r *splitRunner) repair() {
	n := len(r.labels)
	stamp := make([]int, n)
	for i := range stamp {
		stamp[i] = -1
	}

	for i := 0; i < n; i++ {
		if r.labels[i] != Fine {
			continue
		}
		tentative := -1
		for {
			j := r.firstViolation(i, stamp)
			if j < 0 {
				break
			}
			if tentative < 0 {
				tentative = j
				r.labels[j] = Coarse
				r.numCoarse++
				continue // re-check i against the enlarged coarse set
			}
			r.labels[i] = Coarse
			r.numCoarse++
			r.labels[tentative] = Fine
			r.numCoarse--
			break
		}
	}
}

// firstViolation stamps the strong Coarse neighbors of i and returns the
// first strong Fine neighbor sharing none of them, or -1.
func (r *splitRunner) firstViolation(i int, stamp []int) int {
	row := r.s.Row(i)
	for _, j := range row {
		if r.labels[j] == Coarse {
			stamp[j] = i
		}
	}
	for _, j := range row {
		if r.labels[j] != Fine {
			continue
		}
		common := false
		for _, k := range r.s.Row(j) {
			if stamp[k] == i {
				common = true
				break
			}
		}
		if !common {
			return j
		}
	}

	return -1
}
