package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/san-kum/bisect/internal/bisection"
)

const DefaultPDFTitle = "Bisection Method Results"

// PDF renders the trace as a one-line-per-iteration report. Lines in
// Header are printed between the title and the iterations.
type PDF struct {
	W      io.Writer
	Path   string
	Title  string
	Header []string
}

func (p *PDF) Consume(t bisection.Trace) error {
	doc := p.build(t)
	if p.W != nil {
		return doc.Output(p.W)
	}
	if p.Path == "" {
		return fmt.Errorf("export: pdf needs a writer or a path")
	}
	return doc.OutputFileAndClose(p.Path)
}

func (p *PDF) build(t bisection.Trace) *fpdf.Fpdf {
	title := p.Title
	if title == "" {
		title = DefaultPDFTitle
	}

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)

	line := func(s string) {
		doc.CellFormat(0, 10, tr(s), "", 1, "", false, 0, "")
	}

	line(title)
	for _, h := range p.Header {
		line(h)
	}
	line("")

	for i, it := range t {
		line(IterationLine(i+1, it))
	}
	return doc
}

// IterationLine formats one iteration the way the report prints it.
func IterationLine(n int, it bisection.Iteration) string {
	return fmt.Sprintf("Iter %d: a=%.5f, b=%.5f, c=%.5f, f(c)=%.5f", n, it.A, it.B, it.C, it.FC)
}
