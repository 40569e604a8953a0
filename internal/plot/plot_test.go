package plot

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/expr"
)

func TestSampleContract(t *testing.T) {
	f := bisection.Infallible(func(x float64) float64 { return x * x })

	points, err := Sample(f, 1, 2, DefaultSamples)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	if len(points) != 1001 {
		t.Fatalf("expected 1001 samples, got %d", len(points))
	}
	if points[0].X != 1 || points[len(points)-1].X != 2 {
		t.Errorf("endpoints not inclusive: first %v, last %v", points[0].X, points[len(points)-1].X)
	}
	if math.Abs(points[500].X-1.5) > 1e-12 {
		t.Errorf("expected midpoint sample 1.5, got %v", points[500].X)
	}
	for i := 1; i < len(points); i++ {
		if points[i].X <= points[i-1].X {
			t.Fatalf("samples not increasing at %d", i)
		}
	}
	if points[500].Y != points[500].X*points[500].X {
		t.Errorf("y not f(x) at sample 500")
	}
}

func TestSampleErrors(t *testing.T) {
	f := expr.MustCompile("math.sqrt(x)")

	if _, err := Sample(f, -1, 1, DefaultSamples); !errors.Is(err, expr.ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}

	if _, err := Sample(f, 0, 1, 1); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected too few samples error, got %v", err)
	}
}

func TestASCII(t *testing.T) {
	f := expr.MustCompile("x**3 - x - 2")
	points, err := Sample(f, 1, 2, DefaultSamples)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	out := ASCII(points, ASCIIOptions{Width: 60, Height: 10, Caption: "f(x)"})
	if out == "" {
		t.Fatal("expected non-empty plot")
	}
	if !strings.Contains(out, "f(x)") {
		t.Error("caption missing")
	}
	if ASCII(nil, DefaultASCIIOptions()) != "" {
		t.Error("expected empty plot for no points")
	}
}

func TestConvergence(t *testing.T) {
	out := Convergence([]float64{1.5, 1.25, 1.375, 1.4375}, ASCIIOptions{})
	if !strings.Contains(out, "midpoint") {
		t.Error("default caption missing")
	}
	if Convergence(nil, ASCIIOptions{}) != "" {
		t.Error("expected empty plot for no midpoints")
	}
}

func TestSVG(t *testing.T) {
	f := expr.MustCompile("x**2 - 2")
	points, err := Sample(f, 0, 2, 101)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	opts := DefaultSVGOptions()
	opts.Root = math.Sqrt2
	doc := SVG(points, opts)

	if !strings.HasPrefix(doc, "<?xml") || !strings.HasSuffix(doc, "</svg>") {
		t.Error("malformed svg document")
	}
	if !strings.Contains(doc, "<circle") {
		t.Error("root marker missing")
	}
	if !strings.Contains(doc, "stroke-dasharray") {
		t.Error("zero axis missing")
	}

	opts.Root = math.NaN()
	if strings.Contains(SVG(points, opts), "<circle") {
		t.Error("unexpected root marker")
	}

	if SVG(points[:1], opts) != "" {
		t.Error("expected empty svg for a single point")
	}
}

func TestWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.svg")
	points := []Point{{0, -1}, {1, 1}}

	if err := WriteSVG(path, points, DefaultSVGOptions()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("plot.svg not created")
	}
}
