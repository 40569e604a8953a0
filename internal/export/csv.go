// Package export writes bisection traces to tabular and document formats.
// Every exporter implements bisection.TraceConsumer.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/bisect/internal/bisection"
)

// Header is the column layout of a CSV trace.
var Header = []string{"a", "b", "c", "f(c)"}

type CSV struct {
	W io.Writer
}

func (c *CSV) Consume(t bisection.Trace) error {
	return WriteCSV(c.W, t)
}

// CSVFile writes the trace to path, replacing any existing file.
type CSVFile struct {
	Path string
}

func (c *CSVFile) Consume(t bisection.Trace) error {
	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes one row per iteration using the shortest decimal form
// that reads back to the same float64.
func WriteCSV(w io.Writer, t bisection.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, it := range t {
		row := []string{
			formatFloat(it.A),
			formatFloat(it.B),
			formatFloat(it.C),
			formatFloat(it.FC),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a trace written by WriteCSV.
func ReadCSV(r io.Reader) (bisection.Trace, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("export: missing csv header")
	}

	trace := make(bisection.Trace, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [4]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("export: row %d column %s: %w", i+1, Header[j], err)
			}
			vals[j] = v
		}
		trace = append(trace, bisection.Iteration{A: vals[0], B: vals[1], C: vals[2], FC: vals[3]})
	}
	return trace, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
