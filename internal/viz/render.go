package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/experiment"
	"github.com/san-kum/bisect/internal/plot"
)

// TraceHeaders are the column titles of the trace table.
var TraceHeaders = []string{"iter", "a", "b", "c", "f(c)"}

// TraceRows formats a trace with five decimals per value.
func TraceRows(t bisection.Trace) [][]string {
	rows := make([][]string, len(t))
	for i, it := range t {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.5f", it.A),
			fmt.Sprintf("%.5f", it.B),
			fmt.Sprintf("%.5f", it.C),
			fmt.Sprintf("%.5f", it.FC),
		}
	}
	return rows
}

// TraceTable renders the trace as a bordered table. When maxRows is
// positive only the last maxRows iterations are shown.
func (s Styles) TraceTable(t bisection.Trace, maxRows int) string {
	rows := TraceRows(t)
	skipped := 0
	if maxRows > 0 && len(rows) > maxRows {
		skipped = len(rows) - maxRows
		rows = rows[skipped:]
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.Theme.Border)).
		Headers(TraceHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell.Align(lipgloss.Right)
		})

	out := tbl.Render()
	if skipped > 0 {
		out = s.Muted.Render(fmt.Sprintf("... %d earlier iterations", skipped)) + "\n" + out
	}
	return out
}

// ResultOptions controls RenderResult.
type ResultOptions struct {
	MaxRows int
	// Points, when set, are plotted below the table.
	Points []plot.Point
	Plot   plot.ASCIIOptions
}

// RenderResult prints the problem, the root and the trace table, followed
// by the function plot when points are given.
func (s Styles) RenderResult(o *experiment.Outcome, opts ResultOptions) string {
	var sb strings.Builder

	sb.WriteString(GradientText("Bisection Method Solver", s.Theme.Primary, s.Theme.Accent))
	sb.WriteString("\n\n")

	field := func(label, value string) {
		sb.WriteString(s.Label.Render(fmt.Sprintf("%-12s", label)))
		sb.WriteString(s.Value.Render(value))
		sb.WriteString("\n")
	}
	field("f(x)", o.Equation)
	field("normalized", o.Normalized)
	field("interval", fmt.Sprintf("[%g, %g]", o.A, o.B))
	field("tolerance", fmt.Sprintf("%g", o.Tolerance))
	sb.WriteString("\n")

	root := fmt.Sprintf("Root ≈ %.5f", o.Result.Root)
	if o.Result.Exact {
		root += " (exact)"
	}
	sb.WriteString(s.Success.Render(root))
	sb.WriteString(s.Muted.Render(fmt.Sprintf("  %d iterations, %d evaluations",
		len(o.Result.Trace), o.Result.Evaluations)))
	sb.WriteString("\n\n")

	if len(o.Result.Trace) > 0 {
		sb.WriteString(s.TraceTable(o.Result.Trace, opts.MaxRows))
		sb.WriteString("\n")
		sb.WriteString(s.Label.Render("|f(c)| "))
		sb.WriteString(s.Value.Render(Sparkline(o.Result.Trace.Residuals(), 40)))
		sb.WriteString("\n")
	}

	if len(opts.Points) > 0 {
		sb.WriteString("\n")
		sb.WriteString(plot.ASCII(opts.Points, opts.Plot))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderError formats err as a single line.
func (s Styles) RenderError(err error) string {
	return s.Error.Render("Error: ") + err.Error()
}
