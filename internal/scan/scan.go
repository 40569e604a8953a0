// Package scan locates every sign change of a function on a grid and
// bisects each one, for intervals that hold more than one root.
package scan

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/plot"
)

// Bracket is a grid cell whose endpoint values have opposite signs.
type Bracket struct {
	A, B float64
}

type Root struct {
	X float64
	// Result is nil when a grid point hit the root exactly.
	Result *bisection.Result
}

// Brackets walks adjacent sample pairs. Samples where f is exactly zero are
// returned as zeros instead of brackets; NaN samples break any bracket
// they touch.
func Brackets(points []plot.Point) ([]Bracket, []float64) {
	var brackets []Bracket
	var zeros []float64
	for i, p := range points {
		if p.Y == 0 {
			zeros = append(zeros, p.X)
			continue
		}
		if i == 0 {
			continue
		}
		q := points[i-1]
		if (q.Y < 0 && p.Y > 0) || (q.Y > 0 && p.Y < 0) {
			brackets = append(brackets, Bracket{A: q.X, B: p.X})
		}
	}
	return brackets, zeros
}

type Grid struct {
	Samples int
	solver  *bisection.Solver
}

func NewGrid(samples int) *Grid {
	return &Grid{Samples: samples, solver: bisection.New()}
}

// AddObserver is forwarded to the solver used for every bracket.
func (g *Grid) AddObserver(o bisection.Observer) { g.solver.AddObserver(o) }

// Roots samples f on [a, b], then bisects every bracket to tol. Roots are
// returned in ascending order.
func (g *Grid) Roots(ctx context.Context, f bisection.Func, a, b, tol float64) ([]Root, error) {
	if a > b {
		a, b = b, a
	}
	points, err := plot.Sample(f, a, b, g.Samples)
	if err != nil {
		return nil, err
	}

	brackets, zeros := Brackets(points)
	roots := make([]Root, 0, len(brackets)+len(zeros))
	for _, x := range zeros {
		roots = append(roots, Root{X: x})
	}
	for _, br := range brackets {
		res, err := g.solver.Run(ctx, f, br.A, br.B, tol)
		if err != nil {
			return nil, fmt.Errorf("scan [%g, %g]: %w", br.A, br.B, err)
		}
		roots = append(roots, Root{X: res.Root, Result: res})
	}

	sort.Slice(roots, func(i, j int) bool { return roots[i].X < roots[j].X })
	return roots, nil
}
