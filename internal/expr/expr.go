// Package expr compiles single-variable arithmetic expressions into
// evaluable functions.
//
// The accepted language is deliberately small: numbers, the variable x,
// the operators + - * / ** and parentheses, and the whitelisted functions
// sin, cos, tan, exp, log and sqrt (bare or qualified as math.sin, ...)
// plus the constants math.pi and math.e. Anything else is rejected at
// compile time, so untrusted input can never reach names outside the
// whitelist.
//
// # Example
//
//	f, err := expr.Compile("x**3 - x - 2")
//	if err != nil {
//		return err
//	}
//	y, err := f.Eval(1.5) // -0.125
//
// # Thread Safety
//
// A compiled [Function] is immutable and may be evaluated concurrently.
package expr

// Function is a compiled expression in the variable x.
type Function struct {
	src  string
	root node
}

// Compile parses src once. Errors match ErrSyntax or ErrSandbox.
func Compile(src string) (*Function, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Function{src: src, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Function {
	f, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return f
}

// Eval evaluates the expression at x. Undefined operations return a
// *DomainError.
func (f *Function) Eval(x float64) (float64, error) {
	return f.root.eval(x)
}

// Source returns the text the function was compiled from.
func (f *Function) Source() string { return f.src }

// String returns the fully parenthesized parse tree.
func (f *Function) String() string { return f.root.String() }
