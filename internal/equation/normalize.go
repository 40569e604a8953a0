// Package equation rewrites user-facing equation notation into the
// canonical form accepted by the expr package.
package equation

import (
	"regexp"
	"strings"
)

// Namespace prefixes every whitelisted function call in normalized output.
const Namespace = "math."

// Functions is the fixed set of names rewritten into namespaced calls.
var Functions = []string{"sin", "cos", "tan", "exp", "log", "sqrt"}

var (
	bareFunc     = regexp.MustCompile(`\b(` + strings.Join(Functions, "|") + `)\b`)
	radicalParen = regexp.MustCompile(`√\s*\(`)
	radicalAtom  = regexp.MustCompile(`√\s*([0-9]+\.?[0-9]*(?:[eE][-+]?[0-9]+)?|\.[0-9]+(?:[eE][-+]?[0-9]+)?|[A-Za-z_][A-Za-z0-9_]*)`)
)

// Normalize converts an equation such as "x^3 - √(x) + sin(x)" into
// "x**3 - math.sqrt(x) + math.sin(x)".
//
// Only function names are rewritten, parentheses are left in place, so
// nested calls like "sqrt(1 + sqrt(x))" survive intact. Names that already
// carry the namespace are not prefixed again, which makes Normalize
// idempotent. Malformed input is returned rewritten but otherwise
// untouched; the evaluator reports the error.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "^", "**")
	s = radicalParen.ReplaceAllString(s, "sqrt(")
	s = radicalAtom.ReplaceAllString(s, "sqrt(${1})")
	return qualify(s)
}

func qualify(s string) string {
	matches := bareFunc.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(matches)*len(Namespace))

	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		b.WriteString(s[last:start])
		if !strings.HasSuffix(s[:start], Namespace) {
			b.WriteString(Namespace)
		}
		b.WriteString(s[start:end])
		last = end
	}
	b.WriteString(s[last:])

	return b.String()
}
