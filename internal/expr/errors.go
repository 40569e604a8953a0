package expr

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrSyntax indicates the input is not a valid arithmetic expression.
	ErrSyntax = errors.New("expr: invalid expression")

	// ErrSandbox indicates the input references a name or construct outside the whitelist.
	ErrSandbox = errors.New("expr: name or construct not allowed")

	// ErrDomain indicates a math operation is undefined for its argument.
	ErrDomain = errors.New("expr: math domain error")
)

type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr: syntax error at position %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// SandboxError is also a syntax-class error: errors.Is matches both
// ErrSandbox and ErrSyntax.
type SandboxError struct {
	Pos  int
	Name string
}

func (e *SandboxError) Error() string {
	return fmt.Sprintf("expr: %q is not allowed (position %d)", e.Name, e.Pos)
}

func (e *SandboxError) Is(target error) bool {
	return target == ErrSandbox || target == ErrSyntax
}

// DomainError reports an operation that has no real result. X is the
// value of the variable when evaluation failed.
type DomainError struct {
	Op     string
	Arg    float64
	X      float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("expr: math domain error at x=%s: %s", formatFloat(e.X), e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
