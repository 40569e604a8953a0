package bisection

import "math"

// DefaultTolerance is the bracket half-width at which the loop stops.
const DefaultTolerance = 0.01

type Func interface {
	Eval(x float64) (float64, error)
}

// FuncOf adapts a plain closure to Func.
type FuncOf func(x float64) (float64, error)

func (f FuncOf) Eval(x float64) (float64, error) { return f(x) }

// Infallible adapts a function that cannot fail.
func Infallible(fn func(float64) float64) Func {
	return FuncOf(func(x float64) (float64, error) { return fn(x), nil })
}

// Iteration records the bracket entering one iteration, its midpoint and
// the function value there.
type Iteration struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
	FC float64 `json:"fc"`
}

// HalfWidth is (B - A) / 2.
func (it Iteration) HalfWidth() float64 { return (it.B - it.A) / 2 }

// Trace is the ordered convergence history of one run.
type Trace []Iteration

func (t Trace) Len() int { return len(t) }

func (t Trace) Last() (Iteration, bool) {
	if len(t) == 0 {
		return Iteration{}, false
	}
	return t[len(t)-1], true
}

// Midpoints returns the sequence of c values.
func (t Trace) Midpoints() []float64 {
	cs := make([]float64, len(t))
	for i, it := range t {
		cs[i] = it.C
	}
	return cs
}

// Residuals returns |f(c)| per iteration.
func (t Trace) Residuals() []float64 {
	rs := make([]float64, len(t))
	for i, it := range t {
		rs[i] = math.Abs(it.FC)
	}
	return rs
}

type Result struct {
	Trace Trace
	Root  float64
	// Evaluations counts calls to f, including both endpoints.
	Evaluations int
	// Exact is set when f(Root) == 0 ended the loop.
	Exact bool
}

// TraceConsumer receives a finished trace.
type TraceConsumer interface {
	Consume(t Trace) error
}
