package hierarchy_test

import (
	"testing"

	"github.com/katalvlaran/amg/aggregate"
	"github.com/katalvlaran/amg/hierarchy"
)

var benchSink *hierarchy.Hierarchy

func BenchmarkBuild_Classical(b *testing.B) {
	a := lap1D(b, 1<<12)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := hierarchy.Build(a, hierarchy.WithMinCoarseSize(64))
		if err != nil {
			b.Fatal(err)
		}
		benchSink = h
	}
}

func BenchmarkBuild_Aggregation(b *testing.B) {
	a := lap1D(b, 1<<12)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := hierarchy.Build(a,
			hierarchy.WithMinCoarseSize(64),
			hierarchy.WithCoarsener(aggregate.NewVMB()),
			hierarchy.WithInterpolator(aggregate.Tentative{}),
		)
		if err != nil {
			b.Fatal(err)
		}
		benchSink = h
	}
}
