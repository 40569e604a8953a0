// Package plot samples a function across an interval and renders the
// curve for the terminal or as SVG.
package plot

import (
	"errors"
	"fmt"

	"github.com/san-kum/bisect/internal/bisection"
)

// DefaultSamples is 1000 steps with both endpoints included.
const DefaultSamples = 1001

var ErrTooFewSamples = errors.New("plot: need at least two samples")

type Point struct {
	X, Y float64
}

// Sample evaluates f at n evenly spaced points a + i*(b-a)/(n-1),
// i = 0..n-1. The first evaluation error aborts sampling.
func Sample(f bisection.Func, a, b float64, n int) ([]Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewSamples, n)
	}

	points := make([]Point, n)
	steps := float64(n - 1)
	for i := 0; i < n; i++ {
		x := a + float64(i)*(b-a)/steps
		y, err := f.Eval(x)
		if err != nil {
			return nil, fmt.Errorf("plot: sampling x=%g: %w", x, err)
		}
		points[i] = Point{X: x, Y: y}
	}
	return points, nil
}

// Ys returns the y values in sample order.
func Ys(points []Point) []float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	return ys
}

func bounds(points []Point) (minX, maxX, minY, maxY float64) {
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return
}
