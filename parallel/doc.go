// Package parallel provides the execution policy used by every data-parallel
// loop in the module.
//
// All hot loops in hierarchy construction and cycling are fork-join sweeps
// over independent rows, vertices or aggregates: each iteration reads its
// neighbors' data and writes only its own output, so no locking is needed
// inside a region. Whether a given sweep actually forks is a runtime
// decision taken per call from an explicit Policy value — never from
// process-wide state or build tags.
//
// # Model
//
//   - For(p, n, body) splits [0,n) into at most p.Workers contiguous chunks
//     and runs body(lo, hi) on each; it returns only after every chunk has
//     finished (implicit barrier).
//   - Below p.Threshold iterations the fork is skipped entirely and body
//     runs once on the calling goroutine, avoiding dispatch overhead on
//     small levels.
//   - There is no cancellation and no timeout: regions run to completion.
//     Reductions over per-chunk partials belong after the join, in the
//     caller.
//
// # API
//
//	pol := parallel.Default()         // GOMAXPROCS workers
//	parallel.For(pol, n, func(lo, hi int) {
//	    for i := lo; i < hi; i++ { out[i] = f(i) }
//	})
//
// The zero Policy is valid and means strictly sequential execution, as does
// Serial().
package parallel
