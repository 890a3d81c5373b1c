package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/orbitarena/internal/audio"
	"github.com/san-kum/orbitarena/internal/config"
	"github.com/san-kum/orbitarena/internal/metrics"
	"github.com/san-kum/orbitarena/internal/sim"
	"github.com/san-kum/orbitarena/internal/storage"
	"github.com/san-kum/orbitarena/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig layers preset, config file and explicit flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	name := "custom"
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		if err := config.LoadOnto(configFile, cfg); err != nil {
			return nil, "", err
		}
		slog.Debug("loaded config file", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("g") {
		cfg.Physics.G = gravity
	}
	if flags.Changed("dt") {
		cfg.Physics.Dt = dt
	}
	if flags.Changed("radius") {
		cfg.Arena.Radius = radius
	}
	if flags.Changed("bodies") {
		cfg.Arena.Bodies = numBodies
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("random") && random {
		cfg.Arena.Start = "random"
	}
	if flags.Changed("no-trail") && noTrail {
		cfg.Trail.Enabled = false
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Lookup("sample") != nil && flags.Changed("sample") {
		cfg.Run.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctrl, err := cfg.NewController()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner := sim.New(ctrl)
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}
	runner.AddObserver(sim.ObserverFunc(func(f sim.Frame) {
		if f.Step%1000 == 0 {
			slog.Debug("progress", "step", f.Step, "time", f.Time, "events", len(f.Events))
		}
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation (%d bodies, %.0fs)...\n", name, cfg.Arena.Bodies, cfg.Run.Duration)
	start := time.Now()

	result, err := runner.Run(ctx, cfg.RunConfig(validate))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, e := range result.Errors {
		slog.Warn("run stopped early", "err", e)
	}

	runID, err := st.Save(storage.RunMetadata{
		Preset:         name,
		Seed:           cfg.Run.Seed,
		G:              cfg.Physics.G,
		Dt:             cfg.Physics.Dt,
		BoundaryRadius: cfg.Arena.Radius,
		Duration:       cfg.Run.Duration,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("events: %d\n", len(result.Events))
	fmt.Printf("energy drift: %.6f\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}

	if len(result.Errors) > 0 {
		return result.Errors[0]
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if pick && preset == "" {
		items := make([]viz.PickerItem, 0, len(config.Presets))
		for _, name := range config.ListPresets() {
			items = append(items, viz.PickerItem{Name: name, Desc: config.PresetInfo[name]})
		}
		chosen, err := viz.Pick(items)
		if err != nil {
			return err
		}
		preset = chosen
	}

	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctrl, err := cfg.NewController()
	if err != nil {
		return err
	}

	var player viz.EventPlayer
	if withAudio {
		p := audio.NewPlayer()
		if err := p.Init(); err != nil {
			slog.Warn("audio unavailable, continuing without sound", "err", err)
		} else {
			defer p.Close()
			player = p
		}
	}

	return viz.Run(ctrl, name, player, viz.Options{Theme: themeName, ScreenshotDir: shotDir})
}

func benchmark(cmd *cobra.Command, args []string) error {
	counts := []int{2, 3, 5, 8, 16}
	dts := []float64{0.01, 0.02}
	const benchDuration = 20.0

	fmt.Println("benchmarking tick throughput")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tDT\tSTEPS\tEVENTS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		for _, step := range dts {
			cfg := config.DefaultConfig()
			cfg.Arena.Bodies = n
			cfg.Arena.Start = "random"
			cfg.Physics.Dt = step
			cfg.Run.Duration = benchDuration
			cfg.Run.Seed = 42

			ctrl, err := cfg.NewController()
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := sim.New(ctrl).Run(context.Background(), sim.RunConfig{Duration: benchDuration, SampleEvery: 1 << 30})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%.4f\t%d\t%d\t%v\t%.0f\n",
				n, step, result.StepsTaken, len(result.Events), elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
