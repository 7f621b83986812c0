package smoother

import (
	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/sparse"
)

// orderable is implemented by smoothers whose sweeps can follow an
// explicit row list.
type orderable interface {
	smoothOrder(a *sparse.CSR, b, x []float64, sweeps int, dir Direction, order []int) error
}

// Ordered restricts s to the listed rows, visited in list order and in
// reverse for Backward sweeps. Rows outside the list keep their values,
// which is what coarse-first sweeps and label-restricted compatible
// relaxation rely on. Smoothers without row-ordered sweeps (ILU,
// Schwarz) run unchanged, as does any smoother wrapped with an empty
// list.
func Ordered(s Smoother, order []int) Smoother {
	return orderedSmoother{inner: s, order: order}
}

type orderedSmoother struct {
	inner Smoother
	order []int
}

func (o orderedSmoother) Smooth(a *sparse.CSR, b, x []float64, sweeps int, dir Direction) error {
	if inner, ok := o.inner.(orderable); ok && len(o.order) > 0 {
		return inner.smoothOrder(a, b, x, sweeps, dir, o.order)
	}

	return o.inner.Smooth(a, b, x, sweeps, dir)
}

// CoarseFirst returns the sweep order that visits Coarse rows before the
// rest, each group ascending. Relaxing the surviving rows first sharpens
// the values interpolation will draw from.
func CoarseFirst(labels []cfsplit.Label) []int {
	return splitOrder(labels, cfsplit.Coarse)
}

// FineFirst mirrors CoarseFirst with the Fine rows leading.
func FineFirst(labels []cfsplit.Label) []int {
	return splitOrder(labels, cfsplit.Fine)
}

// RestrictTo returns the rows whose label matches which, ascending.
// Feeding it to Ordered yields label-restricted sweeps that hold the
// complementary set fixed, the compatible-relaxation smoother.
func RestrictTo(labels []cfsplit.Label, which cfsplit.Label) []int {
	order := make([]int, 0, len(labels))
	for i, l := range labels {
		if l == which {
			order = append(order, i)
		}
	}

	return order
}

// splitOrder lists rows labeled first ahead of the rest, both ascending.
func splitOrder(labels []cfsplit.Label, first cfsplit.Label) []int {
	order := make([]int, 0, len(labels))
	for i, l := range labels {
		if l == first {
			order = append(order, i)
		}
	}
	for i, l := range labels {
		if l != first {
			order = append(order, i)
		}
	}

	return order
}
