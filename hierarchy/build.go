package hierarchy

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/amg/aggregate"
	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/coarse"
	"github.com/katalvlaran/amg/galerkin"
	"github.com/katalvlaran/amg/interp"
	"github.com/katalvlaran/amg/smoother"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Guards on the coarse-space size of one round, shared by every strategy.
const (
	// minCoarseSplit is the hard floor on splitting-based coarse spaces.
	minCoarseSplit = 50

	// minCoarseAgg is the hard floor on aggregation-based coarse spaces,
	// which shrink levels much faster.
	minCoarseAgg = 20

	// maxCoarseRatio rejects an aggregation round that shrinks the level
	// by more than this factor.
	maxCoarseRatio = 20.0

	// slowCoarseRatio marks an aggregation round that keeps more than
	// this share of the vertices; the pair quality bound doubles so the
	// next round admits weaker pairs.
	slowCoarseRatio = 0.9

	// slowSplitFactor marks an aggressive round whose coarse space times
	// this factor still exceeds the level size; coarsening degrades to
	// classical splitting from the next level on.
	slowSplitFactor = 1.5
)

// Build assembles the level stack for the operator a. The input is
// cloned, never mutated. Configuration errors are fatal and wrapped in
// ErrBadOption; a level that cannot be coarsened any further just ends
// the stack early, so the returned hierarchy always has at least one
// level and a factorized coarsest solver.
func Build(a *sparse.CSR, opts ...Option) (*Hierarchy, error) {
	switch {
	case a == nil || a.Rows == 0:
		return nil, ErrNilMatrix
	case a.Rows != a.Cols:
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows, a.Cols)
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(a.Rows); err != nil {
		return nil, err
	}

	b := &builder{o: o, log: o.Log, kernel: o.NearKernel}
	if err := b.run(a); err != nil {
		return nil, err
	}

	return b.finish()
}

// builder carries the mutable coarsening state across levels.
type builder struct {
	o      Options
	log    *zap.Logger
	levels []Level

	// kernel is the near-kernel vector restricted to the current level.
	kernel []float64

	// coarsener is the live strategy; the adaptation rules may retune or
	// replace it between levels.
	coarsener Coarsener

	// aggUntil is the first level that may no longer coarsen aggressively.
	aggUntil int
}

// run grows the level stack until a guard stops it.
func (b *builder) run(a *sparse.CSR) error {
	cur := a.Clone()
	if err := cur.DiagFirst(); err != nil {
		return err
	}

	b.coarsener = b.o.Coarsener
	b.aggUntil = b.o.AggressiveLevels
	if _, ok := b.coarsener.(cfsplit.Aggressive); ok && b.aggUntil < 1 {
		b.aggUntil = 1
	}

	b.levels = append(b.levels, Level{A: cur})
	floor := b.floor()
	for lvl := 0; cur.Rows > floor && lvl < b.o.MaxLevels-1; lvl++ {
		ac, ok := b.coarsenLevel(lvl, cur)
		if !ok {
			break
		}
		b.levels = append(b.levels, Level{A: ac})
		cur = ac
		b.log.Debug("level coarsened",
			zap.Int("level", lvl+1),
			zap.Int("rows", ac.Rows),
			zap.Int("nnz", ac.NNZ()))
	}

	return nil
}

// floor is the row count at which coarsening stops.
func (b *builder) floor() int {
	hard := minCoarseSplit
	if !b.o.Coarsener.NeedsStrength() {
		hard = minCoarseAgg
	}
	if b.o.MinCoarseSize > hard {
		return b.o.MinCoarseSize
	}

	return hard
}

// coarsenLevel runs one strength/select/interpolate/Galerkin round for
// level lvl, attaching the transfer operators on success. A false flag
// stops the build without error; the level then stays the coarsest.
func (b *builder) coarsenLevel(lvl int, cur *sparse.CSR) (*sparse.CSR, bool) {
	c := b.levelCoarsener(lvl)

	// 1) Strength of connection, skipped when nothing consumes it.
	var g *strength.Graph
	if b.needsGraph(c) {
		var err error
		if g, err = strength.Build(cur, b.o.Strength, b.o.Pol); err != nil {
			b.log.Warn("coarsening stopped at strength graph",
				zap.Int("level", lvl), zap.Error(err))
			return nil, false
		}
	}

	// 2) Coarse-space selection, with the coupling threshold retuned
	//    from the observed rate.
	sp, err := c.Coarsen(cur, g, b.o.Pol)
	if err != nil {
		b.log.Warn("coarsening stopped at coarse-space selection",
			zap.Int("level", lvl), zap.Error(err))
		return nil, false
	}
	b.adaptCoupling(sp, cur.Rows)

	// 3) Size guards, then policy adaptation for the following levels.
	if !b.acceptable(lvl, sp, cur.Rows) {
		return nil, false
	}
	b.adaptPolicy(c, sp, cur.Rows)

	// 4) Prolongation.
	p, err := b.levelInterpolator(c).Interpolate(cur, g, sp, b.o.Pol)
	if err != nil {
		b.log.Warn("coarsening stopped at interpolation",
			zap.Int("level", lvl), zap.Error(err))
		return nil, false
	}

	// 5) Restriction and Galerkin product.
	r, ac, err := galerkin.AssembleTranspose(cur, p)
	if err != nil {
		b.log.Warn("coarsening stopped at galerkin product",
			zap.Int("level", lvl), zap.Error(err))
		return nil, false
	}
	if err = ac.DiagFirst(); err != nil {
		b.log.Warn("coarsening stopped at coarse operator",
			zap.Int("level", lvl), zap.Error(err))
		return nil, false
	}

	lv := &b.levels[lvl]
	lv.P, lv.R, lv.Labels = p, r, sp.Labels
	b.kernel = restrictKernel(b.kernel, sp)

	return ac, true
}

// levelCoarsener resolves the strategy for one level. Classical repair
// follows the interpolator, and aggressive coarsening applies only below
// the configured level count.
func (b *builder) levelCoarsener(lvl int) Coarsener {
	switch c := b.coarsener.(type) {
	case cfsplit.Aggressive:
		if lvl >= b.aggUntil {
			return cfsplit.Classical{SkipRepair: b.o.Interpolator.RoutesThroughFine()}
		}

		return c
	case cfsplit.Classical:
		c.SkipRepair = b.o.Interpolator.RoutesThroughFine()

		return c
	default:
		return c
	}
}

// levelInterpolator resolves the scheme for one level. An aggressive
// splitting leaves Fine vertices with no Coarse neighbor in reach of a
// distance-one scheme, so those levels upgrade to standard interpolation.
// Tentative prolongation picks up the near-kernel values of the level.
func (b *builder) levelInterpolator(c Coarsener) Interpolator {
	if _, aggressive := c.(cfsplit.Aggressive); aggressive && !b.o.Interpolator.RoutesThroughFine() {
		return interp.NewStandard()
	}
	if tp, ok := b.o.Interpolator.(aggregate.Tentative); ok {
		tp.NearKernel = b.kernel

		return tp
	}

	return b.o.Interpolator
}

// needsGraph reports whether this round must classify strong couplings.
// Tentative prolongation is the one scheme that never reads the graph.
func (b *builder) needsGraph(c Coarsener) bool {
	if c.NeedsStrength() {
		return true
	}
	_, tentative := b.o.Interpolator.(aggregate.Tentative)

	return !tentative
}

// acceptable applies the hard guards on one round's coarse-space size.
func (b *builder) acceptable(lvl int, sp cfsplit.Splitting, rows int) bool {
	if sp.Aggregate == nil {
		if sp.NumCoarse <= minCoarseSplit {
			b.log.Info("coarse space small enough, stopping",
				zap.Int("level", lvl), zap.Int("coarse", sp.NumCoarse))
			return false
		}

		return true
	}
	if sp.NumCoarse < minCoarseAgg {
		b.log.Info("coarse space small enough, stopping",
			zap.Int("level", lvl), zap.Int("coarse", sp.NumCoarse))
		return false
	}
	if float64(rows) > maxCoarseRatio*float64(sp.NumCoarse) {
		b.log.Warn("aggregation too aggressive, discarding level",
			zap.Int("level", lvl),
			zap.Int("rows", rows),
			zap.Int("coarse", sp.NumCoarse))
		return false
	}

	return true
}

// adaptCoupling retunes the aggregation coupling threshold toward a
// shrink rate of about four vertices per aggregate.
func (b *builder) adaptCoupling(sp cfsplit.Splitting, rows int) {
	v, ok := b.coarsener.(aggregate.VMB)
	if !ok {
		return
	}
	prev := v.StrongCoupled
	switch {
	case 4*sp.NumCoarse > rows:
		v.StrongCoupled /= 2
	case 1.25*float64(sp.NumCoarse) < float64(rows):
		v.StrongCoupled *= 2
	}
	if v.StrongCoupled != prev {
		b.log.Debug("aggregation coupling retuned",
			zap.Float64("from", prev), zap.Float64("to", v.StrongCoupled))
	}
	b.coarsener = v
}

// adaptPolicy updates the coarsening strategy for the levels after an
// accepted round.
func (b *builder) adaptPolicy(c Coarsener, sp cfsplit.Splitting, rows int) {
	switch cc := b.coarsener.(type) {
	case cfsplit.Aggressive:
		_, used := c.(cfsplit.Aggressive)
		if used && slowSplitFactor*float64(sp.NumCoarse) > float64(rows) {
			b.log.Info("aggressive coarsening slow, switching to classical",
				zap.Int("coarse", sp.NumCoarse), zap.Int("rows", rows))
			b.coarsener = cfsplit.Classical{}
		}
	case aggregate.Pairwise:
		if float64(sp.NumCoarse) > slowCoarseRatio*float64(rows) {
			cc.QualityBound *= 2
			b.coarsener = cc
			b.log.Debug("pair quality bound doubled",
				zap.Float64("bound", cc.QualityBound))
		}
	}
}

// restrictKernel carries the near-kernel vector one level down: the mean
// over each aggregate, or injection at Coarse vertices for splittings.
func restrictKernel(kernel []float64, sp cfsplit.Splitting) []float64 {
	if kernel == nil {
		return nil
	}
	out := make([]float64, sp.NumCoarse)
	if sp.Aggregate != nil {
		count := make([]int, sp.NumCoarse)
		for i, ag := range sp.Aggregate {
			if ag >= 0 {
				out[ag] += kernel[i]
				count[ag]++
			}
		}
		for j := range out {
			if count[j] > 0 {
				out[j] /= float64(count[j])
			}
		}

		return out
	}
	next := 0
	for i, l := range sp.Labels {
		if l == cfsplit.Coarse {
			out[next] = kernel[i]
			next++
		}
	}

	return out
}

// finish turns the level stack into a ready Hierarchy: recursion counts,
// per-level vectors and smoothers, and the factorized coarsest solver.
func (b *builder) finish() (*Hierarchy, error) {
	h := &Hierarchy{
		Levels:        b.levels,
		Kind:          b.o.Kind,
		Sweeps:        b.o.Sweeps,
		CoarseScaling: b.o.CoarseScaling,
		CoarseSolver:  b.o.CoarseSolver,
		Pol:           b.o.Pol,
	}
	if b.o.Kind == AMLICycle {
		h.AMLICoef = amliCoefficients(amliLambdaMax, amliLambdaMin, b.o.AMLIDegree)
	}

	b.assignCycleTypes(h.Levels)
	allocate(h.Levels)
	b.attachSmoothers(h.Levels)
	if err := b.factorizeCoarsest(h); err != nil {
		return nil, err
	}

	b.log.Info("hierarchy ready",
		zap.Int("levels", h.NumLevels()),
		zap.Stringer("cycle", h.Kind),
		zap.Int("finest_rows", h.Finest().A.Rows),
		zap.Int("coarsest_rows", h.Coarsest().A.Rows),
		zap.Float64("operator_complexity", h.OperatorComplexity()),
		zap.Float64("grid_complexity", h.GridComplexity()))

	return h, nil
}

// assignCycleTypes sets the per-level recursion counts. Aggregation
// hierarchies grade the counts by level, whatever the configured kind, so
// the fast-shrinking coarse levels absorb extra visits while the total
// work stays bounded.
func (b *builder) assignCycleTypes(levels []Level) {
	ct := 1
	if b.o.Kind == WCycle {
		ct = 2
	}
	for l := range levels {
		levels[l].CycleType = ct
	}
	levels[len(levels)-1].CycleType = 0

	if !b.o.Coarsener.NeedsStrength() {
		gradeCycleTypes(levels)
	}
}

// gradeCycleTypes implements the variable cycle of aggregation
// hierarchies. A middle level earns a second visit while the accumulated
// visit count times its relative operator weight stays under a geometric
// budget; the caps keep every count in {1, 2}.
func gradeCycleTypes(levels []Level) {
	const (
		cplxmax = 3.0
		xsi     = 0.6
	)
	eta := xsi / ((1 - xsi) * (cplxmax - 1))

	last := len(levels) - 1
	levels[0].CycleType = 1
	levels[last].CycleType = 0

	icum := 1
	nnz0 := float64(levels[0].A.NNZ())
	for l := 1; l < last; l++ {
		frac := float64(levels[l].A.NNZ()) / nnz0
		ct := int(math.Pow(xsi, float64(l)) / (eta * frac * float64(icum)))
		if ct < 1 {
			ct = 1
		} else if ct > 2 {
			ct = 2
		}
		levels[l].CycleType = ct
		icum *= ct
	}
}

// allocate gives every level its cycle-time vectors. The finest level
// works on caller vectors and only needs residual scratch.
func allocate(levels []Level) {
	for l := range levels {
		m := levels[l].A.Rows
		if l == 0 {
			levels[l].Work = make([]float64, m)
			continue
		}
		levels[l].B = make([]float64, m)
		levels[l].X = make([]float64, m)
		levels[l].Work = make([]float64, 2*m)
	}
}

// attachSmoothers gives every level but the coarsest its relaxation.
// Incomplete factorizations and Schwarz setups are per level; a setup
// failure logs a warning and falls back to the configured smoother from
// that level down.
func (b *builder) attachSmoothers(levels []Level) {
	iluUntil, swzUntil := b.o.ILULevels, b.o.SchwarzLevels
	for l := 0; l < len(levels)-1; l++ {
		lv := &levels[l]
		if l < iluUntil {
			f, err := smoother.SetupILU(lv.A)
			if err == nil {
				lv.Smoother = f
				continue
			}
			b.log.Warn("incomplete factorization failed, falling back",
				zap.Int("level", l), zap.Error(err))
			iluUntil = l
		}
		if l < swzUntil {
			s, err := smoother.SetupSchwarz(lv.A, 0, 0)
			if err == nil {
				lv.Smoother = s
				continue
			}
			b.log.Warn("schwarz setup failed, falling back",
				zap.Int("level", l), zap.Error(err))
			swzUntil = l
		}
		lv.Smoother = b.orderedSmoother(lv.Labels)
	}
}

// orderedSmoother wraps the configured smoother in the Coarse-first
// visiting order when one is requested and the level has a splitting.
func (b *builder) orderedSmoother(labels []cfsplit.Label) smoother.Smoother {
	if b.o.Order == OrderCF && labels != nil {
		return smoother.Ordered(b.o.Smoother, smoother.CoarseFirst(labels))
	}

	return b.o.Smoother
}

// factorizeCoarsest prepares the terminal solver. A singular coarsest
// operator, common with pure-Neumann problems and tentative
// prolongations, downgrades to the safeguarded conjugate-gradient solver.
func (b *builder) factorizeCoarsest(h *Hierarchy) error {
	ca := h.Coarsest().A
	err := h.CoarseSolver.Factorize(ca)
	if err == nil {
		return nil
	}
	if !errors.Is(err, coarse.ErrSingular) {
		return err
	}

	b.log.Warn("coarsest operator singular, using conjugate-gradient fallback",
		zap.Int("rows", ca.Rows), zap.Error(err))
	cg := coarse.NewCG()
	cg.Pol = b.o.Pol
	if err = cg.Factorize(ca); err != nil {
		return err
	}
	h.CoarseSolver = cg

	return nil
}
