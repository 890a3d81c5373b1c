package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/orbitarena/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	gravity     float64
	dt          float64
	radius      float64
	numBodies   int
	duration    float64
	seed        int64
	random      bool
	sampleEvery int
	validate    bool
	noTrail     bool

	withAudio bool
	pick      bool
	themeName string
	shotDir   string

	bodyID  int
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitarena",
		Short:         "gravitating bodies in a bounded circular arena",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitarena", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 60, "duration in simulation seconds")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 5, "store a snapshot every n ticks")
	runCmd.Flags().BoolVar(&validate, "validate", false, "stop on invalid state or escaped body")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().BoolVar(&withAudio, "audio", true, "sonify events")
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset from a menu")
	liveCmd.Flags().StringVar(&themeName, "theme", "night", fmt.Sprintf("color theme %v", viz.ThemeNames()))
	liveCmd.Flags().StringVar(&shotDir, "shots", ".", "directory for SVG screenshots")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot radial distance and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-body states as long-format CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital spectrum and phase portrait of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyID, "body", 1, "body id")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with default values",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput",
		Args:  cobra.NoArgs,
		RunE:  benchmark,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&duration, "time", 20, "duration of each run")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2 or name=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")
	_ = sweepCmd.MarkFlagRequired("param")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run randomized layouts across consecutive seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().Float64Var(&duration, "time", 20, "duration of each run")
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = all cores)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's paths as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, analyzeCmd,
		presetsCmd, initCmd, benchCmd, scenarioCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gravity, "g", 0, "gravitational constant")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().Float64Var(&radius, "radius", 0, "arena radius")
	cmd.Flags().IntVar(&numBodies, "bodies", 0, "number of bodies")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&random, "random", false, "start from a randomized layout")
	cmd.Flags().BoolVar(&noTrail, "no-trail", false, "disable trails")
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
