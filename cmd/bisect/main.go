package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/config"
	"github.com/san-kum/bisect/internal/equation"
	"github.com/san-kum/bisect/internal/experiment"
	"github.com/san-kum/bisect/internal/plot"
	"github.com/san-kum/bisect/internal/scan"
	"github.com/san-kum/bisect/internal/storage"
	"github.com/san-kum/bisect/internal/viz"
)

var (
	dataDir string
	verbose bool
	// Problem flags are strings so they go through the same parsing as
	// the interactive form.
	aFlag      string
	bFlag      string
	tolFlag    string
	configFile string
	preset     string
	outDir     string
	formats    []string
	samples    int
	workers    int
	theme      string
	maxRows    int
	svgPath    string
	noPlot     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bisect",
		Short:         "bisection method root finder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bisect", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	solveCmd := &cobra.Command{
		Use:   "solve [equation]",
		Short: "find a root and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	problemFlags(solveCmd)
	solveCmd.Flags().StringVar(&outDir, "out", "", "directory for exported files (default from config)")
	solveCmd.Flags().StringSliceVar(&formats, "format", nil, "export formats: csv,pdf,json,svg")
	solveCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "plot samples")
	solveCmd.Flags().IntVar(&maxRows, "rows", 0, "show only the last n iterations")
	solveCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the terminal plot")
	solveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "solve every problem in a yaml file concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent solvers")

	plotCmd := &cobra.Command{
		Use:   "plot [equation]",
		Short: "plot a function over [a, b]",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	problemFlags(plotCmd)
	plotCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the curve to this svg file")

	scanCmd := &cobra.Command{
		Use:   "scan [equation]",
		Short: "find every root in [a, b] by bisecting each sign change",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	problemFlags(scanCmd)
	scanCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "grid points")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&maxRows, "rows", 0, "show only the last n iterations")
	showCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outDir, "out", "", "output directory (default: the run directory)")
	exportCmd.Flags().StringSliceVar(&formats, "format", []string{"csv", "pdf", "json", "svg"}, "export formats")
	exportCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "plot samples for svg")

	removeCmd := &cobra.Command{
		Use:   "rm [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEQUATION\tA\tB\tTOL")
			for _, p := range config.PresetProblems() {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\n", p.Name, p.Equation, p.A, p.B, p.Tolerance)
			}
			return w.Flush()
		},
	}

	normalizeCmd := &cobra.Command{
		Use:   "normalize [equation]",
		Short: "show the normalized and parsed form of an equation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, fn, err := experiment.New(slog.Default()).Compile(args[0])
			fmt.Printf("normalized: %s\n", normalized)
			if err != nil {
				return err
			}
			fmt.Printf("parsed:     %s\n", fn)
			return nil
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive solver",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	problemFlags(tuiCmd)
	tuiCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	rootCmd.AddCommand(solveCmd, batchCmd, plotCmd, scanCmd, listCmd, showCmd, exportCmd,
		removeCmd, presetsCmd, normalizeCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func problemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&aFlag, "a", "", "interval start")
	cmd.Flags().StringVar(&bFlag, "b", "", "interval end")
	cmd.Flags().StringVar(&tolFlag, "tol", "", "tolerance")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in problem")
}

func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, experiment.Problem, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, experiment.Problem{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, experiment.Problem{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	eq := cfg.Equation
	if len(args) > 0 {
		eq = args[0]
	}
	a, b, tol := formatFloat(cfg.A), formatFloat(cfg.B), formatFloat(cfg.Tolerance)
	if cmd.Flags().Changed("a") {
		a = aFlag
	}
	if cmd.Flags().Changed("b") {
		b = bFlag
	}
	if cmd.Flags().Changed("tol") {
		tol = tolFlag
	}

	p, err := experiment.ParseProblem(eq, a, b, tol)
	if err != nil {
		return nil, experiment.Problem{}, err
	}
	p.Name = preset
	if p.Name == "" {
		p.Name = "cli"
	}
	cfg.Equation, cfg.A, cfg.B, cfg.Tolerance = p.Equation, p.A, p.B, p.Tolerance

	if f := cmd.Flags().Lookup("samples"); f != nil && f.Changed {
		cfg.Samples = samples
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		cfg.Formats = formats
	}
	if f := cmd.Flags().Lookup("out"); f != nil && f.Changed {
		cfg.OutputDir = outDir
	}
	if f := cmd.Flags().Lookup("theme"); f != nil && f.Changed {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, experiment.Problem{}, err
	}
	return cfg, p, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, p, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(slog.Default())
	out, err := exp.Run(cmd.Context(), p)
	if err != nil {
		return err
	}

	points, err := plot.Sample(out.Function, p.A, p.B, cfg.Samples)
	if err != nil {
		return err
	}

	runID, err := saveOutcome(storage.New(dataDir), out)
	if err != nil {
		return err
	}

	written, err := writeExports(cfg, out)
	if err != nil {
		return err
	}

	opts := viz.ResultOptions{
		MaxRows: maxRows,
		Plot:    plot.ASCIIOptions{Width: cfg.Plot.Width, Height: cfg.Plot.Height, Caption: "f(x)"},
	}
	if !noPlot {
		opts.Points = points
	}
	fmt.Print(viz.NewStyles(viz.GetTheme(cfg.Theme)).RenderResult(out, opts))
	fmt.Printf("\nrun id: %s\n", runID)
	if written != "" {
		fmt.Printf("results saved in %s\n", written)
	}
	return nil
}

func saveOutcome(st *storage.Store, out *experiment.Outcome) (string, error) {
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.RunMetadata{
		Equation:   out.Equation,
		Normalized: out.Normalized,
		A:          out.A,
		B:          out.B,
		Tolerance:  out.Tolerance,
	}, out.Result)
}

// writeExports writes cfg.Formats into cfg.OutputDir and returns the
// directory, or "" when no formats are configured.
func writeExports(cfg *config.Config, out *experiment.Outcome) (string, error) {
	if len(cfg.Formats) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", err
	}

	registry := experiment.NewRegistry()
	registry.Samples = cfg.Samples
	registry.SVG.Width, registry.SVG.Height = cfg.Plot.SVGWidth, cfg.Plot.SVGHeight
	if err := registry.WriteAll(cfg.OutputDir, out, cfg.Formats); err != nil {
		return "", err
	}
	return cfg.OutputDir, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	var problems []experiment.Problem
	n := workers

	if len(args) == 0 {
		for _, p := range config.PresetProblems() {
			problems = append(problems, experiment.FromConfig(p))
		}
	} else {
		batch, err := config.LoadBatch(args[0])
		if err != nil {
			return fmt.Errorf("failed to load batch: %w", err)
		}
		for _, p := range batch.Problems {
			problems = append(problems, experiment.FromConfig(p))
		}
		if !cmd.Flags().Changed("workers") {
			n = batch.Workers
		}
	}

	results, err := experiment.New(slog.Default()).RunBatch(cmd.Context(), problems, n)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEQUATION\tROOT\tITER\tRUN")
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t%s\t-\t-\t%v\n", r.Problem.Name, r.Problem.Equation, r.Err)
			continue
		}
		runID, err := saveOutcome(st, r.Outcome)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.5f\t%d\t%s\n",
			r.Problem.Name,
			r.Problem.Equation,
			r.Outcome.Result.Root,
			len(r.Outcome.Result.Trace),
			runID,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d solved, %d failed\n", len(results)-failed, failed)
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, p, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	_, fn, err := experiment.New(slog.Default()).Compile(p.Equation)
	if err != nil {
		return err
	}
	points, err := plot.Sample(fn, p.A, p.B, cfg.Samples)
	if err != nil {
		return err
	}

	fmt.Println(plot.ASCII(points, plot.ASCIIOptions{
		Width:   cfg.Plot.Width,
		Height:  cfg.Plot.Height,
		Caption: "f(x) = " + equation.Normalize(p.Equation),
	}))

	if svgPath != "" {
		opts := plot.DefaultSVGOptions()
		opts.Width, opts.Height = cfg.Plot.SVGWidth, cfg.Plot.SVGHeight
		if err := plot.WriteSVG(svgPath, points, opts); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, p, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	_, fn, err := experiment.New(slog.Default()).Compile(p.Equation)
	if err != nil {
		return err
	}
	roots, err := scan.NewGrid(cfg.Samples).Roots(cmd.Context(), fn, p.A, p.B, p.Tolerance)
	if err != nil {
		return err
	}

	if len(roots) == 0 {
		fmt.Printf("no sign change found in [%g, %g]\n", p.A, p.B)
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tROOT\tITER")
	for i, r := range roots {
		iters := "exact"
		if r.Result != nil {
			iters = strconv.Itoa(len(r.Result.Trace))
		}
		fmt.Fprintf(w, "%d\t%.5f\t%s\n", i+1, r.X, iters)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEQUATION\tINTERVAL\tTOL\tROOT\tITER\tTIME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t[%g, %g]\t%g\t%.5f\t%d\t%s\n",
			run.ID,
			run.Equation,
			run.A, run.B,
			run.Tolerance,
			run.Root,
			run.Iterations,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

// loadOutcome rebuilds a stored run without solving it again.
func loadOutcome(st *storage.Store, runID string) (*experiment.Outcome, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, err
	}

	res := &bisection.Result{Trace: trace, Root: meta.Root, Exact: meta.Exact}
	p := experiment.Problem{
		Name:      meta.ID,
		Equation:  meta.Equation,
		A:         meta.A,
		B:         meta.B,
		Tolerance: meta.Tolerance,
	}
	return experiment.New(slog.Default()).Restore(p, res)
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	out, err := loadOutcome(st, args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("time: %s\n\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Print(viz.NewStyles(viz.GetTheme(theme)).RenderResult(out, viz.ResultOptions{MaxRows: maxRows}))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	out, err := loadOutcome(st, args[0])
	if err != nil {
		return err
	}

	dir := outDir
	if dir == "" {
		dir = st.Dir(args[0])
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	registry.Samples = samples
	if err := registry.WriteAll(dir, out, formats); err != nil {
		return err
	}

	for _, f := range formats {
		fmt.Printf("exported %s to %s\n", f, filepath.Join(dir, exportName(f)))
	}
	return nil
}

func exportName(format string) string {
	if format == "svg" {
		return "function_plot.svg"
	}
	return experiment.BaseName + "." + format
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("interactive mode needs a terminal, use 'bisect solve' instead")
	}

	cfg, _, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	// Keep debug output from tearing the alt screen.
	if !verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	st := storage.New(dataDir)
	return viz.RunForm(viz.FormOptions{
		Config:     cfg,
		Experiment: experiment.New(slog.Default()),
		OnSolve: func(out *experiment.Outcome) (string, error) {
			runID, err := saveOutcome(st, out)
			if err != nil {
				return "", err
			}
			dir, err := writeExports(cfg, out)
			if err != nil {
				return "", err
			}
			if dir == "" {
				return "run " + runID, nil
			}
			return fmt.Sprintf("run %s, results saved in %s", runID, dir), nil
		},
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
