package plot

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// SVGOptions controls the rendered image. Root is drawn as a marker on the
// x axis when it is not NaN.
type SVGOptions struct {
	Width       int
	Height      int
	StrokeColor string
	Root        float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 750, Height: 300, StrokeColor: "#00ccff", Root: math.NaN()}
}

// SVG draws the sampled curve, a dashed y=0 line and the root marker.
func SVG(points []Point, opts SVGOptions) string {
	if len(points) < 2 {
		return ""
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultSVGOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.StrokeColor == "" {
		opts.StrokeColor = DefaultSVGOptions().StrokeColor
	}

	minX, maxX, minY, maxY := bounds(points)
	if minY > 0 {
		minY = 0
	}
	if maxY < 0 {
		maxY = 0
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	w, h := float64(opts.Width), float64(opts.Height)
	px := func(x float64) float64 { return (x - minX) / rangeX * w }
	py := func(y float64) float64 { return h - (y-minY)/rangeY*h }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#666666" stroke-dasharray="4 4"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height,
		py(0), opts.Width, py(0),
		opts.StrokeColor))

	for i, p := range points {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(p.X), py(p.Y)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(p.X), py(p.Y)))
		}
	}
	sb.WriteString(`"/>
`)

	if !math.IsNaN(opts.Root) && opts.Root >= minX && opts.Root <= maxX {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="#ff00ff"/>
`, px(opts.Root), py(0)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(path string, points []Point, opts SVGOptions) error {
	doc := SVG(points, opts)
	if doc == "" {
		return fmt.Errorf("plot: not enough points to draw %s", path)
	}
	return os.WriteFile(path, []byte(doc), 0644)
}
