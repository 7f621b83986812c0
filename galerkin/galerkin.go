// Package galerkin forms the coarse-level operator R·A·P. With R chosen
// as the transpose of P the product keeps symmetry and definiteness of
// the fine operator, which is what lets the same smoother run on every
// level of a hierarchy.
package galerkin

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/amg/sparse"
)

// Sentinel errors of the coarse-operator assembly.
var (
	// ErrNilOperand reports a missing factor.
	ErrNilOperand = errors.New("galerkin: nil operand")

	// ErrShapeChain reports factors whose inner dimensions do not chain.
	ErrShapeChain = errors.New("galerkin: operand shapes do not chain")
)

// Assemble multiplies R·A·P into the coarse operator. The result has
// sorted rows with explicit entries only, ready for diagonal reordering
// by the caller.
//
// Complexity: two sparse products, O(flops of R·A + flops of (RA)·P).
func Assemble(r, a, p *sparse.CSR) (*sparse.CSR, error) {
	if r == nil || a == nil || p == nil {
		return nil, ErrNilOperand
	}
	if r.Cols != a.Rows || a.Cols != p.Rows {
		return nil, fmt.Errorf("%w: (%dx%d)·(%dx%d)·(%dx%d)",
			ErrShapeChain, r.Rows, r.Cols, a.Rows, a.Cols, p.Rows, p.Cols)
	}

	ra, err := r.Mul(a)
	if err != nil {
		return nil, fmt.Errorf("galerkin: R·A: %w", err)
	}
	ac, err := ra.Mul(p)
	if err != nil {
		return nil, fmt.Errorf("galerkin: (R·A)·P: %w", err)
	}

	return ac, nil
}

// AssembleTranspose builds the restriction as the transpose of P and
// returns it together with the coarse operator PᵗAP. For symmetric A the
// result is symmetric up to floating-point roundoff.
func AssembleTranspose(a, p *sparse.CSR) (*sparse.CSR, *sparse.CSR, error) {
	if a == nil || p == nil {
		return nil, nil, ErrNilOperand
	}

	r := p.Transpose()
	ac, err := Assemble(r, a, p)
	if err != nil {
		return nil, nil, err
	}

	return r, ac, nil
}
