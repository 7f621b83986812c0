package cycle

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/amg/hierarchy"
	"github.com/katalvlaran/amg/smoother"
)

// Sentinel errors of the cycle engine.
var (
	// ErrNilHierarchy reports a nil or empty hierarchy.
	ErrNilHierarchy = errors.New("cycle: nil hierarchy")

	// ErrBadLevel reports a root level outside the stack.
	ErrBadLevel = errors.New("cycle: level out of range")

	// ErrVectorLength reports b or x not matching the root level size.
	ErrVectorLength = errors.New("cycle: vector length mismatch")
)

// Apply runs one cycle on the finest level: x is improved in place
// toward the solution of A·x = b. The hierarchy is read-only; calling
// Apply repeatedly with the same inputs yields identical results.
func Apply(h *hierarchy.Hierarchy, b, x []float64) error {
	return ApplyAt(h, 0, b, x)
}

// ApplyAt runs one cycle rooted at the given level, using b and x as
// that level's right-hand side and iterate. Vectors of the levels below
// the root come from the hierarchy's own storage.
func ApplyAt(h *hierarchy.Hierarchy, level int, b, x []float64) error {
	switch {
	case h == nil || len(h.Levels) == 0:
		return ErrNilHierarchy
	case level < 0 || level >= len(h.Levels):
		return fmt.Errorf("%w: %d of %d levels", ErrBadLevel, level, len(h.Levels))
	case len(b) != h.Levels[level].A.Rows || len(x) != h.Levels[level].A.Rows:
		return fmt.Errorf("%w: level %d holds %d rows", ErrVectorLength, level, h.Levels[level].A.Rows)
	}

	if h.Kind == hierarchy.AMLICycle && len(h.AMLICoef) > 0 {
		return amli(h, level, b, x)
	}

	return vcycle(h, level, b, x)
}

// vcycle is the visit-counted recursion behind V and W cycles. The
// coarse iterate is zeroed once, so later visits of a level refine the
// correction instead of restarting it.
func vcycle(h *hierarchy.Hierarchy, level int, b, x []float64) error {
	lv := &h.Levels[level]
	if level == len(h.Levels)-1 {
		return h.CoarseSolver.Solve(b, x)
	}
	nxt := &h.Levels[level+1]
	r := lv.Work[:lv.A.Rows]

	// 1) Presmoothing.
	if err := lv.Smoother.Smooth(lv.A, b, x, h.Sweeps, smoother.Forward); err != nil {
		return err
	}

	// 2) Restrict the residual onto the coarse right-hand side.
	if err := lv.A.Residual(h.Pol, b, x, r); err != nil {
		return err
	}
	if err := lv.R.MulVec(h.Pol, r, nxt.B); err != nil {
		return err
	}

	// 3) Coarse-grid correction, revisited CycleType times.
	clear(nxt.X)
	for i := 0; i < lv.CycleType; i++ {
		if err := vcycle(h, level+1, nxt.B, nxt.X); err != nil {
			return err
		}
	}

	// 4) Prolongate the correction.
	if err := lv.P.MulVecAdd(h.Pol, 1, nxt.X, x); err != nil {
		return err
	}

	// 5) Postsmoothing.
	return lv.Smoother.Smooth(lv.A, b, x, h.Sweeps, smoother.Backward)
}

// amli is the polynomial recursion: instead of repeating the coarse
// visit a fixed number of times, each round re-solves with a blend of
// the current defect and the original coarse right-hand side, and the
// Chebyshev coefficients computed at setup weight the final correction.
func amli(h *hierarchy.Hierarchy, level int, b, x []float64) error {
	lv := &h.Levels[level]
	if level == len(h.Levels)-1 {
		return h.CoarseSolver.Solve(b, x)
	}
	nxt := &h.Levels[level+1]
	m1 := nxt.A.Rows
	r := lv.Work[:lv.A.Rows]
	r1 := nxt.Work[m1 : 2*m1]
	coef := h.AMLICoef
	degree := len(coef) - 1

	// 1) Presmoothing.
	if err := lv.Smoother.Smooth(lv.A, b, x, h.Sweeps, smoother.Forward); err != nil {
		return err
	}

	// 2) Restrict the residual and keep a copy of the coarse right-hand
	//    side for the polynomial blending.
	if err := lv.A.Residual(h.Pol, b, x, r); err != nil {
		return err
	}
	if err := lv.R.MulVec(h.Pol, r, nxt.B); err != nil {
		return err
	}
	copy(r1, nxt.B)

	// 3) Horner evaluation of the correction polynomial: degree rounds
	//    of solve-and-blend, then one final solve scaled by the leading
	//    coefficient.
	for i := 1; i <= degree; i++ {
		clear(nxt.X)
		if err := amli(h, level+1, nxt.B, nxt.X); err != nil {
			return err
		}
		if err := nxt.A.MulVec(h.Pol, nxt.X, nxt.B); err != nil {
			return err
		}
		floats.AddScaled(nxt.B, coef[degree-i]/coef[degree], r1)
	}
	clear(nxt.X)
	if err := amli(h, level+1, nxt.B, nxt.X); err != nil {
		return err
	}
	floats.Scale(coef[degree], nxt.X)

	// 4) Optional energy-minimizing step length, capped at one.
	alpha := 1.0
	if h.CoarseScaling {
		if err := nxt.A.MulVec(h.Pol, nxt.X, nxt.B); err != nil {
			return err
		}
		if den := floats.Dot(nxt.B, nxt.X); den > 0 {
			alpha = floats.Dot(nxt.X, r1) / den
			if alpha > 1 {
				alpha = 1
			}
		}
	}

	// 5) Prolongate the correction and postsmooth.
	if err := lv.P.MulVecAdd(h.Pol, alpha, nxt.X, x); err != nil {
		return err
	}

	return lv.Smoother.Smooth(lv.A, b, x, h.Sweeps, smoother.Backward)
}
