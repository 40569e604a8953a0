package bisection

import (
	"context"
	"fmt"
	"math"
)

// maxTraceHint caps the preallocated trace; a float64 bracket cannot be
// halved more than about 1100 times.
const maxTraceHint = 1100

// Observer is notified after each recorded iteration.
type Observer interface {
	OnIteration(i int, it Iteration)
}

type Solver struct {
	observers []Observer
}

func New() *Solver {
	return &Solver{observers: make([]Observer, 0)}
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Solve runs a Solver without observers or cancellation.
func Solve(f Func, a, b, tol float64) (*Result, error) {
	return New().Run(context.Background(), f, a, b, tol)
}

// Run halves [a, b] until its half-width is at most tol or f(c) == 0.
//
// The endpoints may be given in either order. f(a) is evaluated once and
// carried forward as the left endpoint moves, so each iteration costs one
// evaluation of f. On any error no trace is returned.
func (s *Solver) Run(ctx context.Context, f Func, a, b, tol float64) (*Result, error) {
	if err := validate(a, b, tol); err != nil {
		return nil, err
	}
	if a > b {
		a, b = b, a
	}

	fa, err := f.Eval(a)
	if err != nil {
		return nil, &EvalError{Iteration: -1, X: a, Wrapped: err}
	}
	fb, err := f.Eval(b)
	if err != nil {
		return nil, &EvalError{Iteration: -1, X: b, Wrapped: err}
	}
	evals := 2

	if !oppositeSigns(fa, fb) {
		return nil, &BracketError{A: a, B: b, FA: fa, FB: fb}
	}

	trace := make(Trace, 0, traceHint(a, b, tol))
	c := (a + b) / 2
	exact := false

	for i := 0; (b-a)/2 > tol; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c = (a + b) / 2
		// Midpoint collapsed onto an endpoint: no representable
		// bracket is narrower than this one.
		if c <= a || c >= b {
			break
		}

		fc, err := f.Eval(c)
		evals++
		if err != nil {
			return nil, &EvalError{Iteration: i, X: c, Wrapped: err}
		}

		it := Iteration{A: a, B: b, C: c, FC: fc}
		trace = append(trace, it)
		for _, o := range s.observers {
			o.OnIteration(i, it)
		}

		if fc == 0 {
			exact = true
			break
		}
		if oppositeSigns(fa, fc) {
			b = c
		} else {
			a, fa = c, fc
		}
	}

	return &Result{Trace: trace, Root: c, Evaluations: evals, Exact: exact}, nil
}

func validate(a, b, tol float64) error {
	if !(tol > 0) || math.IsInf(tol, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidTolerance, tol)
	}
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return fmt.Errorf("%w, got [%g, %g]", ErrInvalidInterval, a, b)
	}
	return nil
}

// oppositeSigns is false for zero and NaN operands. Unlike p*q < 0 it
// cannot underflow to -0.
func oppositeSigns(p, q float64) bool {
	return (p < 0 && q > 0) || (p > 0 && q < 0)
}

func traceHint(a, b, tol float64) int {
	n := math.Ceil(math.Log2((b - a) / tol))
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	if n > maxTraceHint {
		return maxTraceHint
	}
	return int(n)
}
