package plot

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

type ASCIIOptions struct {
	Width   int
	Height  int
	Caption string
}

func DefaultASCIIOptions() ASCIIOptions {
	return ASCIIOptions{Width: 80, Height: 15}
}

// ASCII renders the sampled curve with asciigraph. The x range is
// appended to the caption since asciigraph only labels the y axis.
func ASCII(points []Point, opts ASCIIOptions) string {
	if len(points) == 0 {
		return ""
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultASCIIOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}

	minX, maxX, _, _ := bounds(points)
	caption := fmt.Sprintf("x in [%.4g, %.4g]", minX, maxX)
	if opts.Caption != "" {
		caption = opts.Caption + ", " + caption
	}

	return asciigraph.Plot(Ys(points),
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}

// Convergence plots the midpoint sequence of a run.
func Convergence(midpoints []float64, opts ASCIIOptions) string {
	if len(midpoints) == 0 {
		return ""
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultASCIIOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	caption := opts.Caption
	if caption == "" {
		caption = "midpoint c per iteration"
	}
	return asciigraph.Plot(midpoints,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}
