package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bisect/internal/bisection"
)

// Summary describes the problem a trace belongs to.
type Summary struct {
	Equation   string  `json:"equation"`
	Normalized string  `json:"normalized"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	Tolerance  float64 `json:"tolerance"`
	Root       float64 `json:"root"`
}

type Document struct {
	Summary
	Iterations int             `json:"iterations"`
	Trace      bisection.Trace `json:"trace"`
}

type JSON struct {
	W       io.Writer
	Summary Summary
}

func (j *JSON) Consume(t bisection.Trace) error {
	return WriteJSON(j.W, j.Summary, t)
}

type JSONFile struct {
	Path    string
	Summary Summary
}

func (j *JSONFile) Consume(t bisection.Trace) error {
	f, err := os.Create(j.Path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, j.Summary, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteJSON(w io.Writer, s Summary, t bisection.Trace) error {
	if t == nil {
		t = bisection.Trace{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Summary: s, Iterations: len(t), Trace: t})
}
