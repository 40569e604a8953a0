package expr

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEval(t *testing.T) {
	tests := []struct {
		name string
		src  string
		x    float64
		want float64
	}{
		{"cubic", "x**3 - x - 2", 1.5, -0.125},
		{"quadratic", "x**2 - 2", 2, 2},
		{"precedence", "1 + 2*3", 0, 7},
		{"parentheses", "(1 + 2)*3", 0, 9},
		{"right assoc power", "2**3**2", 0, 512},
		{"negative exponent", "2**-1", 0, 0.5},
		{"unary binds looser than power", "-x**2", 3, -9},
		{"unary plus", "+x", 4, 4},
		{"double negation", "--x", 4, 4},
		{"division", "x / 4", 2, 0.5},
		{"scientific", "1e2 + x", 1, 101},
		{"leading dot", ".5 * x", 4, 2},
		{"qualified sin", "math.sin(x)", math.Pi / 2, 1},
		{"bare cos", "cos(x)", 0, 1},
		{"tan", "tan(x)", 0, 0},
		{"exp", "exp(x)", 0, 1},
		{"log", "log(x)", math.E, 1},
		{"sqrt", "math.sqrt(x)", 16, 4},
		{"nested sqrt", "math.sqrt(1 + math.sqrt(x))", 9, 2},
		{"constants", "math.pi - math.e", 0, math.Pi - math.E},
		{"negative base integer power", "x**3", -2, -8},
		{"whitespace", " x\t*\n2 ", 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.src)
			require.NoError(t, err)

			got, err := f.Eval(tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1+2*3", "(1 + (2 * 3))"},
		{"1-2-3", "((1 - 2) - 3)"},
		{"8/4/2", "((8 / 4) / 2)"},
		{"-x**2", "(-(x ** 2))"},
		{"2**3**2", "(2 ** (3 ** 2))"},
		{"sin(x)", "math.sin(x)"},
		{"math.log(x + 1)", "math.log((x + 1))"},
		{"math.pi * x", "(math.pi * x)"},
	}

	for _, tt := range tests {
		f, err := Compile(tt.src)
		require.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, f.String(), tt.src)
		assert.Equal(t, tt.src, f.Source())
	}
}

func TestCompileSyntaxErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"(",
		"x +",
		"(x",
		"x)",
		"(x))",
		"2x",
		"x^2",
		"x = 1",
		"x; x",
		"sin(x, 1)",
		"sin",
		"sin()",
		"1e",
		"1..2",
		"x ** ",
		"* x",
		"[x]",
		"'x'",
		"√(x)",
	}

	for _, src := range inputs {
		_, err := Compile(src)
		require.Error(t, err, "input %q", src)
		assert.ErrorIs(t, err, ErrSyntax, "input %q", src)
		assert.NotErrorIs(t, err, ErrDomain, "input %q", src)
	}
}

func TestCompileSandbox(t *testing.T) {
	inputs := []string{
		"y",
		"pi",
		"import",
		"__import__(x)",
		"open(x)",
		"sine(x)",
		"x.real",
		"(x).imag",
		"math",
		"math.system(x)",
		"math.__dict__",
		"math.pi.real",
		"os.path",
		"eval(x)",
		"x + lambda",
	}

	for _, src := range inputs {
		_, err := Compile(src)
		require.Error(t, err, "input %q", src)
		assert.ErrorIs(t, err, ErrSandbox, "input %q", src)
		assert.ErrorIs(t, err, ErrSyntax, "input %q", src)

		var sbErr *SandboxError
		assert.True(t, errors.As(err, &sbErr), "input %q", src)
	}
}

func TestCompileDepthLimit(t *testing.T) {
	src := strings.Repeat("(", maxDepth+10) + "x" + strings.Repeat(")", maxDepth+10)
	_, err := Compile(src)
	assert.ErrorIs(t, err, ErrSyntax)

	ok := strings.Repeat("(", 50) + "x" + strings.Repeat(")", 50)
	_, err = Compile(ok)
	assert.NoError(t, err)
}

func TestEvalDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		x    float64
		op   string
	}{
		{"sqrt negative", "math.sqrt(x)", -1, "sqrt"},
		{"log zero", "math.log(x)", 0, "log"},
		{"log negative", "log(x)", -2, "log"},
		{"division by zero", "1 / x", 0, "/"},
		{"zero to negative power", "x ** -1", 0, "**"},
		{"fractional power of negative", "x ** (1/3)", -8, "**"},
		{"exp overflow", "exp(x)", 1000, "exp"},
		{"power overflow", "x ** 400", 10, "**"},
		{"sin of inf", "sin(x)", math.Inf(1), "sin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.src)
			require.NoError(t, err)

			_, err = f.Eval(tt.x)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDomain)

			var dErr *DomainError
			require.True(t, errors.As(err, &dErr))
			assert.Equal(t, tt.op, dErr.Op)
			assert.Equal(t, tt.x, dErr.X)
			assert.Contains(t, err.Error(), "math domain error")
		})
	}
}

func TestDomainErrorOnlyAtBadPoints(t *testing.T) {
	f := MustCompile("math.sqrt(x)")

	_, err := f.Eval(-1)
	assert.ErrorIs(t, err, ErrDomain)

	v, err := f.Eval(4)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestConcurrentEval(t *testing.T) {
	f := MustCompile("math.sin(x) * x**2 - math.exp(-x)")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				x := float64(seed) + float64(j)/1000
				got, err := f.Eval(x)
				if err != nil {
					t.Errorf("eval(%v): %v", x, err)
					return
				}
				want := math.Sin(x)*x*x - math.Exp(-x)
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("eval(%v) = %v, want %v", x, got, want)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"cos", "exp", "log", "sin", "sqrt", "tan"}, Builtins())
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("x +") })
}
