package cycle_test

import (
	"testing"

	"github.com/katalvlaran/amg/cycle"
	"github.com/katalvlaran/amg/hierarchy"
)

func benchHierarchy(b *testing.B, opts ...hierarchy.Option) (*hierarchy.Hierarchy, []float64, []float64) {
	b.Helper()
	const n = 1 << 12
	a := lap1D(b, n)
	opts = append([]hierarchy.Option{hierarchy.WithMinCoarseSize(64)}, opts...)
	h, err := hierarchy.Build(a, opts...)
	if err != nil {
		b.Fatal(err)
	}

	return h, mixedRHS(n), make([]float64, n)
}

func BenchmarkApply_VCycle(b *testing.B) {
	h, rhs, x := benchHierarchy(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cycle.Apply(h, rhs, x); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApply_WCycle(b *testing.B) {
	h, rhs, x := benchHierarchy(b, hierarchy.WithCycle(hierarchy.WCycle))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cycle.Apply(h, rhs, x); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApply_AMLI(b *testing.B) {
	h, rhs, x := benchHierarchy(b, hierarchy.WithCycle(hierarchy.AMLICycle))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cycle.Apply(h, rhs, x); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolve(b *testing.B) {
	h, rhs, x := benchHierarchy(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		clear(x)
		if _, _, err := cycle.Solve(h, rhs, x, 1e-8, 50); err != nil {
			b.Fatal(err)
		}
	}
}
