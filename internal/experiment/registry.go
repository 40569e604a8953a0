package experiment

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/export"
	"github.com/san-kum/bisect/internal/plot"
)

// BaseName prefixes every file the registry writes.
const BaseName = "bisection_results"

// WriterFactory builds the consumer that writes o into dir.
type WriterFactory func(r *Registry, dir string, o *Outcome) bisection.TraceConsumer

// Registry maps output format names to trace consumers.
type Registry struct {
	writers map[string]WriterFactory

	Samples int
	SVG     plot.SVGOptions
}

func NewRegistry() *Registry {
	r := &Registry{
		writers: make(map[string]WriterFactory),
		Samples: plot.DefaultSamples,
		SVG:     plot.DefaultSVGOptions(),
	}

	r.writers["csv"] = func(_ *Registry, dir string, _ *Outcome) bisection.TraceConsumer {
		return &export.CSVFile{Path: filepath.Join(dir, BaseName+".csv")}
	}
	r.writers["pdf"] = func(_ *Registry, dir string, o *Outcome) bisection.TraceConsumer {
		return &export.PDF{
			Path: filepath.Join(dir, BaseName+".pdf"),
			Header: []string{
				fmt.Sprintf("f(x) = %s", o.Equation),
				fmt.Sprintf("Interval [%g, %g], tolerance %g", o.A, o.B, o.Tolerance),
				fmt.Sprintf("Root ~ %.5f", o.Result.Root),
			},
		}
	}
	r.writers["json"] = func(_ *Registry, dir string, o *Outcome) bisection.TraceConsumer {
		return &export.JSONFile{Path: filepath.Join(dir, BaseName+".json"), Summary: o.Summary()}
	}
	r.writers["svg"] = func(r *Registry, dir string, o *Outcome) bisection.TraceConsumer {
		opts := r.SVG
		opts.Root = o.Result.Root
		return &svgWriter{
			path:    filepath.Join(dir, "function_plot.svg"),
			outcome: o,
			samples: r.Samples,
			opts:    opts,
		}
	}

	return r
}

// Register adds or replaces a format.
func (r *Registry) Register(name string, fn WriterFactory) {
	r.writers[name] = fn
}

func (r *Registry) Get(name string, dir string, o *Outcome) (bisection.TraceConsumer, error) {
	fn, ok := r.writers[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return fn(r, dir, o), nil
}

func (r *Registry) ListFormats() []string {
	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteAll hands the outcome's trace to every named format. Formats are
// written in the given order and the first failure stops the rest.
func (r *Registry) WriteAll(dir string, o *Outcome, formats []string) error {
	for _, name := range formats {
		c, err := r.Get(name, dir, o)
		if err != nil {
			return err
		}
		if err := c.Consume(o.Result.Trace); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Summary describes the outcome for the JSON exporter.
func (o *Outcome) Summary() export.Summary {
	return export.Summary{
		Equation:   o.Equation,
		Normalized: o.Normalized,
		A:          o.A,
		B:          o.B,
		Tolerance:  o.Tolerance,
		Root:       o.Result.Root,
	}
}

// svgWriter ignores the trace itself and plots the function over the
// problem's interval with the root marked.
type svgWriter struct {
	path    string
	outcome *Outcome
	samples int
	opts    plot.SVGOptions
}

func (w *svgWriter) Consume(bisection.Trace) error {
	points, err := plot.Sample(w.outcome.Function, w.outcome.A, w.outcome.B, w.samples)
	if err != nil {
		return err
	}
	return plot.WriteSVG(w.path, points, w.opts)
}
