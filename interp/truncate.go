package interp

import (
	"fmt"

	"github.com/katalvlaran/amg/sparse"
)

// Truncate returns a copy of p with every entry dropped whose magnitude
// falls below frac times the row's extreme of the same sign. Survivors are
// rescaled so each row's negative and positive sums are unchanged, which
// keeps constant vectors interpolating to constants. Exact zeros are
// always dropped.
func Truncate(p *sparse.CSR, frac float64) (*sparse.CSR, error) {
	if p == nil {
		return nil, ErrNilMatrix
	}
	if frac < 0 || frac >= 1 {
		return nil, fmt.Errorf("%w: got %g", ErrBadTruncation, frac)
	}

	n := p.Rows
	rowPtr := make([]int, n+1)
	for i := 0; i < n; i++ {
		mMin, pMax := rowExtremes(p, i)
		_, vals := p.Row(i)
		kept := 0
		for _, v := range vals {
			if keepEntry(v, mMin, pMax, frac) {
				kept++
			}
		}
		rowPtr[i+1] = rowPtr[i] + kept
	}

	colInd := make([]int, rowPtr[n])
	val := make([]float64, rowPtr[n])
	for i := 0; i < n; i++ {
		mMin, pMax := rowExtremes(p, i)
		cols, vals := p.Row(i)

		var mSum, pSum, mKept, pKept float64
		w := rowPtr[i]
		for k, v := range vals {
			if v < 0 {
				mSum += v
			} else {
				pSum += v
			}
			if keepEntry(v, mMin, pMax, frac) {
				colInd[w] = cols[k]
				val[w] = v
				if v < 0 {
					mKept += v
				} else {
					pKept += v
				}
				w++
			}
		}

		mScale, pScale := 1.0, 1.0
		if mKept != 0 {
			mScale = mSum / mKept
		}
		if pKept != 0 {
			pScale = pSum / pKept
		}
		for s := rowPtr[i]; s < w; s++ {
			if val[s] < 0 {
				val[s] *= mScale
			} else {
				val[s] *= pScale
			}
		}
	}

	return &sparse.CSR{Rows: p.Rows, Cols: p.Cols, RowPtr: rowPtr, ColInd: colInd, Val: val}, nil
}

// keepEntry applies the signed truncation test.
func keepEntry(v, mMin, pMax, frac float64) bool {
	switch {
	case v < 0:
		return v <= mMin*frac
	case v > 0:
		return v >= pMax*frac
	default:
		return false
	}
}

// rowExtremes returns the most negative and most positive entry of row i,
// zero when the sign is absent.
func rowExtremes(p *sparse.CSR, i int) (mMin, pMax float64) {
	_, vals := p.Row(i)
	for _, v := range vals {
		if v < mMin {
			mMin = v
		}
		if v > pMax {
			pMax = v
		}
	}

	return mMin, pMax
}
