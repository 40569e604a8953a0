package expr

import (
	"fmt"
	"math"
	"sort"
)

// Namespace is the only qualifier accepted in front of a builtin name.
const Namespace = "math"

type builtin struct {
	name  string
	apply func(v float64) (float64, string)
}

var builtins = map[string]*builtin{
	"sin":  {name: "sin", apply: trig(math.Sin, "sin")},
	"cos":  {name: "cos", apply: trig(math.Cos, "cos")},
	"tan":  {name: "tan", apply: trig(math.Tan, "tan")},
	"exp":  {name: "exp", apply: expFn},
	"log":  {name: "log", apply: logFn},
	"sqrt": {name: "sqrt", apply: sqrtFn},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Builtins returns the whitelisted function names in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func trig(fn func(float64) float64, name string) func(float64) (float64, string) {
	return func(v float64) (float64, string) {
		if math.IsInf(v, 0) {
			return math.NaN(), fmt.Sprintf("%s of infinite argument", name)
		}
		return fn(v), ""
	}
}

func expFn(v float64) (float64, string) {
	r := math.Exp(v)
	if math.IsInf(r, 1) && !math.IsInf(v, 1) {
		return r, fmt.Sprintf("exp(%s) overflows", formatFloat(v))
	}
	return r, ""
}

func logFn(v float64) (float64, string) {
	if v <= 0 {
		return math.NaN(), fmt.Sprintf("log of non-positive number %s", formatFloat(v))
	}
	return math.Log(v), ""
}

func sqrtFn(v float64) (float64, string) {
	if v < 0 {
		return math.NaN(), fmt.Sprintf("sqrt of negative number %s", formatFloat(v))
	}
	return math.Sqrt(v), ""
}

func pow(base, exp float64) (float64, string) {
	switch {
	case base == 0 && exp < 0:
		return math.NaN(), fmt.Sprintf("0 raised to negative power %s", formatFloat(exp))
	case base < 0 && !math.IsInf(exp, 0) && exp != math.Trunc(exp):
		return math.NaN(), fmt.Sprintf("negative number %s raised to fractional power %s",
			formatFloat(base), formatFloat(exp))
	}
	r := math.Pow(base, exp)
	if math.IsInf(r, 0) && !math.IsInf(base, 0) && !math.IsInf(exp, 0) {
		return r, fmt.Sprintf("%s ** %s overflows", formatFloat(base), formatFloat(exp))
	}
	return r, ""
}
