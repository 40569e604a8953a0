package experiment

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs a problem with its outcome or error.
type BatchResult struct {
	Problem Problem
	Outcome *Outcome
	Err     error
}

// RunBatch solves problems concurrently with at most workers solvers in
// flight. Results are in input order. A failing problem does not stop the
// others; only cancellation of ctx is returned as an error.
func (e *Experiment) RunBatch(ctx context.Context, problems []Problem, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]BatchResult, len(problems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range problems {
		i, p := i, p
		g.Go(func() error {
			out, err := e.Run(gctx, p)
			results[i] = BatchResult{Problem: p, Outcome: out, Err: err}
			if err != nil {
				e.logger.Debug("problem failed", "problem", p.Name, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// RunBatch runs problems with an experiment that logs to slog.Default.
func RunBatch(ctx context.Context, problems []Problem, workers int) ([]BatchResult, error) {
	return New(slog.Default()).RunBatch(ctx, problems, workers)
}
