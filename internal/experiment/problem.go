package experiment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/bisect/internal/config"
)

var ErrInputFormat = errors.New("experiment: invalid input")

// InputError reports a field that could not be converted to a number.
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("experiment: %s: cannot parse %q as a number", e.Field, e.Value)
}

func (e *InputError) Unwrap() error { return ErrInputFormat }

// Problem is one root-finding request: an equation in user syntax and a
// bracket with its tolerance.
type Problem struct {
	Name      string
	Equation  string
	A         float64
	B         float64
	Tolerance float64
}

func FromConfig(p config.Problem) Problem {
	return Problem{Name: p.Name, Equation: p.Equation, A: p.A, B: p.B, Tolerance: p.Tolerance}
}

// ParseProblem converts raw text fields. Surrounding whitespace is ignored.
func ParseProblem(equation, a, b, tol string) (Problem, error) {
	p := Problem{Equation: strings.TrimSpace(equation)}
	if p.Equation == "" {
		return Problem{}, &InputError{Field: "equation", Value: equation, Err: errors.New("empty")}
	}

	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"a", a, &p.A},
		{"b", b, &p.B},
		{"tolerance", tol, &p.Tolerance},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil {
			return Problem{}, &InputError{Field: f.name, Value: f.raw, Err: err}
		}
		*f.dst = v
	}
	return p, nil
}
