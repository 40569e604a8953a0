// Package bisection locates a root of a single-variable function inside a
// bracketing interval by repeatedly halving it.
//
// The package defines:
//
//   - [Func]: a function of one real variable that may fail
//   - [Iteration] and [Trace]: the convergence history of one run
//   - [Solver]: runs the bracket-halving loop
//   - [TraceConsumer]: sink for finished traces (exporters, plots)
//
// # Example
//
//	f := expr.MustCompile("x**3 - x - 2")
//	res, err := bisection.Solve(f, 1, 2, 0.01)
//	// res.Root ≈ 1.52, res.Trace[0] == {A: 1, B: 2, C: 1.5, FC: -0.125}
//
// # Thread Safety
//
// A Solver holds no per-run state; concurrent Run calls are safe as long
// as the supplied Func is.
package bisection
