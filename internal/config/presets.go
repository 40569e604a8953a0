package config

import "sort"

var Presets = map[string]Problem{
	"cubic":   {Name: "cubic", Equation: "x^3 - x - 2", A: 1, B: 2, Tolerance: 0.01},
	"sqrt2":   {Name: "sqrt2", Equation: "x^2 - 2", A: 0, B: 2, Tolerance: 0.0001},
	"pi":      {Name: "pi", Equation: "sin(x)", A: 3, B: 4, Tolerance: 0.01},
	"dottie":  {Name: "dottie", Equation: "cos(x) - x", A: 0, B: 1, Tolerance: 1e-6},
	"ln3":     {Name: "ln3", Equation: "exp(x) - 3", A: 0, B: 2, Tolerance: 1e-6},
	"euler":   {Name: "euler", Equation: "log(x) - 1", A: 1, B: 4, Tolerance: 1e-6},
	"golden":  {Name: "golden", Equation: "x^2 - x - 1", A: 1, B: 2, Tolerance: 1e-6},
	"cbrt2":   {Name: "cbrt2", Equation: "x^3 - 2", A: 1, B: 2, Tolerance: 1e-6},
	"radical": {Name: "radical", Equation: "√(x) - 1.5", A: 0, B: 4, Tolerance: 1e-4},
	"no-root": {Name: "no-root", Equation: "x^2 + 1", A: -1, B: 1, Tolerance: 0.01},
}

// GetPreset returns a config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Equation = p.Equation
	cfg.A = p.A
	cfg.B = p.B
	cfg.Tolerance = p.Tolerance
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetProblems returns every preset in name order.
func PresetProblems() []Problem {
	names := ListPresets()
	problems := make([]Problem, len(names))
	for i, name := range names {
		problems[i] = Presets[name]
	}
	return problems
}
