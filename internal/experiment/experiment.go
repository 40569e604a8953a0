package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/equation"
	"github.com/san-kum/bisect/internal/expr"
)

// Outcome is a solved problem with everything downstream consumers need.
type Outcome struct {
	Problem
	Normalized string
	Function   *expr.Function
	Result     *bisection.Result
}

type Experiment struct {
	logger    *slog.Logger
	observers []bisection.Observer
}

func New(logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{logger: logger}
}

// AddObserver attaches o to every solver this experiment creates. Observers
// must be safe for concurrent use when RunBatch is used.
func (e *Experiment) AddObserver(o bisection.Observer) {
	e.observers = append(e.observers, o)
}

// Compile normalizes an equation and compiles it into an evaluable
// function. It returns the normalized text as well.
func (e *Experiment) Compile(eq string) (string, *expr.Function, error) {
	normalized := equation.Normalize(eq)
	e.logger.Debug("normalized equation", "input", eq, "normalized", normalized)

	fn, err := expr.Compile(normalized)
	if err != nil {
		return normalized, nil, fmt.Errorf("compile %q: %w", eq, err)
	}
	e.logger.Debug("compiled equation", "tree", fn.String())
	return normalized, fn, nil
}

func (e *Experiment) Run(ctx context.Context, p Problem) (*Outcome, error) {
	normalized, fn, err := e.Compile(p.Equation)
	if err != nil {
		return nil, err
	}

	solver := bisection.New()
	solver.AddObserver(&logObserver{logger: e.logger.With("problem", p.Name)})
	for _, o := range e.observers {
		solver.AddObserver(o)
	}

	res, err := solver.Run(ctx, fn, p.A, p.B, p.Tolerance)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("solved",
		"problem", p.Name,
		"root", res.Root,
		"iterations", len(res.Trace),
		"evaluations", res.Evaluations,
		"exact", res.Exact)

	return &Outcome{Problem: p, Normalized: normalized, Function: fn, Result: res}, nil
}

type logObserver struct {
	logger *slog.Logger
}

func (o *logObserver) OnIteration(i int, it bisection.Iteration) {
	o.logger.Debug("iteration", "i", i+1, "a", it.A, "b", it.B, "c", it.C, "fc", it.FC)
}

// Restore rebuilds an outcome from a previously stored result without
// solving again.
func (e *Experiment) Restore(p Problem, res *bisection.Result) (*Outcome, error) {
	normalized, fn, err := e.Compile(p.Equation)
	if err != nil {
		return nil, err
	}
	return &Outcome{Problem: p, Normalized: normalized, Function: fn, Result: res}, nil
}
