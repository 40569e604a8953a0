package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEquation  = "x^3 - x - 2"
	DefaultA         = 1.0
	DefaultB         = 2.0
	DefaultTolerance = 0.01
	DefaultSamples   = 1001
	DefaultOutputDir = "results"
	DefaultWorkers   = 4
	DefaultTheme     = "cyberpunk"
)

type Config struct {
	Equation  string     `yaml:"equation" validate:"required"`
	A         float64    `yaml:"a" validate:"nefield=B"`
	B         float64    `yaml:"b"`
	Tolerance float64    `yaml:"tolerance" validate:"gt=0"`
	Samples   int        `yaml:"samples" validate:"min=2"`
	OutputDir string     `yaml:"output_dir"`
	Formats   []string   `yaml:"formats" validate:"dive,oneof=csv pdf json svg"`
	Theme     string     `yaml:"theme"`
	Plot      PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	Width     int `yaml:"width" validate:"gt=0"`
	Height    int `yaml:"height" validate:"gt=0"`
	SVGWidth  int `yaml:"svg_width" validate:"gt=0"`
	SVGHeight int `yaml:"svg_height" validate:"gt=0"`
}

// Problem is one entry of a batch file.
type Problem struct {
	Name      string  `yaml:"name"`
	Equation  string  `yaml:"equation" validate:"required"`
	A         float64 `yaml:"a" validate:"nefield=B"`
	B         float64 `yaml:"b"`
	Tolerance float64 `yaml:"tolerance" validate:"gt=0"`
}

type Batch struct {
	Workers  int       `yaml:"workers" validate:"min=1"`
	Problems []Problem `yaml:"problems" validate:"required,min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func DefaultConfig() *Config {
	return &Config{
		Equation:  DefaultEquation,
		A:         DefaultA,
		B:         DefaultB,
		Tolerance: DefaultTolerance,
		Samples:   DefaultSamples,
		OutputDir: DefaultOutputDir,
		Formats:   []string{"csv", "pdf"},
		Theme:     DefaultTheme,
		Plot: PlotConfig{
			Width:     80,
			Height:    15,
			SVGWidth:  750,
			SVGHeight: 300,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Problem returns the problem the config describes.
func (c *Config) Problem() Problem {
	return Problem{Name: "config", Equation: c.Equation, A: c.A, B: c.B, Tolerance: c.Tolerance}
}

// LoadBatch reads a list of problems. Problems without a tolerance get
// DefaultTolerance.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	batch := &Batch{Workers: DefaultWorkers}
	if err := yaml.Unmarshal(data, batch); err != nil {
		return nil, err
	}
	for i := range batch.Problems {
		if batch.Problems[i].Tolerance == 0 {
			batch.Problems[i].Tolerance = DefaultTolerance
		}
		if batch.Problems[i].Name == "" {
			batch.Problems[i].Name = fmt.Sprintf("problem-%d", i+1)
		}
	}
	if err := validate.Struct(batch); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return batch, nil
}
