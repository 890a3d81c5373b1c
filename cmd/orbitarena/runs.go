package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitarena/internal/analysis"
	"github.com/san-kum/orbitarena/internal/config"
	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const maxPlots = 6

var errNoData = errors.New("no data")

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tG\tBODIES\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4f\t%.1f\t%d\t%.4f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.G,
			run.Bodies,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(snaps) < 2 {
		return fmt.Errorf("%s: %w", runID, errNoData)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(snaps))

	for i, b := range snaps[0].Bodies {
		if i == maxPlots {
			break
		}
		series, err := analysis.RadialSeries(snaps, b.ID)
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d distance from center", b.ID)),
		))
		fmt.Println()
	}

	energy := make([]float64, len(snaps))
	for i, snap := range snaps {
		energy[i] = physics.TotalEnergy(snap.Bodies, meta.G)
	}
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		if err := st.ExportJSONFile(outFile, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], outFile)
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	snaps, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("%s: %w", runID, errNoData)
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"step", "time", "body", "x", "y", "vx", "vy", "mass", "radius", "speed"}); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, snap := range snaps {
		for _, b := range snap.Bodies {
			row := []string{
				strconv.Itoa(snap.Step), f(snap.Time), strconv.Itoa(int(b.ID)),
				f(b.Pos.X()), f(b.Pos.Y()), f(b.Vel.X()), f(b.Vel.Y()),
				f(b.Mass), f(b.Radius), f(b.Speed()),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(snaps) < analysis.MinSeriesLength {
		return fmt.Errorf("%s: %w", runID, analysis.ErrShortSeries)
	}

	id := physics.ID(bodyID)
	series, err := analysis.RadialSeries(snaps, id)
	if err != nil {
		return err
	}
	ps, err := analysis.Spectrum(series)
	if err != nil {
		return err
	}

	fmt.Printf("orbital spectrum: %s body %d\n\n", meta.ID, id)
	plotData := ps[1:max(2, len(ps)/4)]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("radial distance spectrum"),
	))
	fmt.Println()

	sampleDt := snaps[1].Time - snaps[0].Time
	period, ok, err := analysis.DominantPeriod(series, sampleDt)
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("dominant period: %.3f s\n", period)
		fmt.Printf("dominant frequency: %.4f hz\n", 1/period)
	} else {
		fmt.Println("no dominant frequency (flat series)")
	}

	portrait, err := analysis.NewPortrait(snaps, id)
	if err != nil {
		return err
	}
	fmt.Println("\nradial phase portrait (r vs dr/dt):")
	fmt.Print(portrait.ASCII(70, 20))

	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRESET\tDESCRIPTION")
		for _, name := range config.ListPresets() {
			fmt.Fprintf(w, "%s\t%s\n", name, config.PresetInfo[name])
		}
		return w.Flush()
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
