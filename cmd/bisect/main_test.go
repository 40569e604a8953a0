package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/bisect/internal/experiment"
)

func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	aFlag, bFlag, tolFlag, configFile, preset = "", "", "", "", ""
	cmd := &cobra.Command{Use: "test"}
	problemFlags(cmd)
	cmd.Flags().IntVar(&samples, "samples", 1001, "")
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newTestCmd(t)
	cfg, p, err := resolveConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Equation != "x^3 - x - 2" || p.A != 1 || p.B != 2 || p.Tolerance != 0.01 {
		t.Errorf("unexpected problem %+v", p)
	}
	if cfg.Samples != 1001 {
		t.Errorf("unexpected samples %d", cfg.Samples)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "equation: \"cos(x) - x\"\na: 0\nb: 1\ntolerance: 0.001\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd(t)
	if err := cmd.ParseFlags([]string{"--preset", "sqrt2", "--config", path, "--b", "0.9", "--samples", "11"}); err != nil {
		t.Fatal(err)
	}

	cfg, p, err := resolveConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Equation != "cos(x) - x" {
		t.Errorf("config file should override preset, got %q", p.Equation)
	}
	if p.B != 0.9 || cfg.B != 0.9 {
		t.Errorf("flag should override config, got %v", p.B)
	}
	if p.Tolerance != 0.001 {
		t.Errorf("unexpected tolerance %v", p.Tolerance)
	}
	if cfg.Samples != 11 {
		t.Errorf("unexpected samples %d", cfg.Samples)
	}

	_, p, err = resolveConfig(cmd, []string{"x^2 - 0.5"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Equation != "x^2 - 0.5" {
		t.Errorf("argument should override equation, got %q", p.Equation)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	cmd := newTestCmd(t)
	if err := cmd.ParseFlags([]string{"--a", "abc"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := resolveConfig(cmd, nil); !errors.Is(err, experiment.ErrInputFormat) {
		t.Errorf("expected input format error, got %v", err)
	}

	cmd = newTestCmd(t)
	preset = "missing"
	if _, _, err := resolveConfig(cmd, nil); err == nil {
		t.Error("expected unknown preset error")
	}

	cmd = newTestCmd(t)
	if err := cmd.ParseFlags([]string{"--tol", "0"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := resolveConfig(cmd, nil); err == nil {
		t.Error("expected validation error for zero tolerance")
	}
}

func TestExportName(t *testing.T) {
	if exportName("svg") != "function_plot.svg" {
		t.Error("unexpected svg name")
	}
	if exportName("csv") != experiment.BaseName+".csv" {
		t.Error("unexpected csv name")
	}
}
