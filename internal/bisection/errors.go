package bisection

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRootBracketed indicates f(a) and f(b) do not have strictly opposite signs.
	ErrNoRootBracketed = errors.New("bisection: interval does not bracket a root")

	// ErrInvalidTolerance indicates a tolerance that is not a positive finite number.
	ErrInvalidTolerance = errors.New("bisection: tolerance must be positive and finite")

	// ErrInvalidInterval indicates a non-finite interval endpoint.
	ErrInvalidInterval = errors.New("bisection: interval endpoints must be finite")
)

// BracketError wraps ErrNoRootBracketed with the endpoint values.
type BracketError struct {
	A, B   float64
	FA, FB float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("%v: f(%g) = %g, f(%g) = %g", ErrNoRootBracketed, e.A, e.FA, e.B, e.FB)
}

func (e *BracketError) Unwrap() error { return ErrNoRootBracketed }

// EvalError wraps a failure of f at a required point.
type EvalError struct {
	Iteration int
	X         float64
	Wrapped   error
}

func (e *EvalError) Error() string {
	if e.Iteration < 0 {
		return fmt.Sprintf("bisection: evaluating endpoint x=%g: %v", e.X, e.Wrapped)
	}
	return fmt.Sprintf("bisection: iteration %d, evaluating x=%g: %v", e.Iteration, e.X, e.Wrapped)
}

func (e *EvalError) Unwrap() error { return e.Wrapped }
