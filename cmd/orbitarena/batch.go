package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/orbitarena/internal/automation"
	"github.com/san-kum/orbitarena/internal/config"
	"github.com/san-kum/orbitarena/internal/export"
	"github.com/san-kum/orbitarena/internal/metrics"
	"github.com/san-kum/orbitarena/internal/optim"
	"github.com/san-kum/orbitarena/internal/sim"
	"github.com/san-kum/orbitarena/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sweepParams []string
	metricName  string
	maximize    bool
	numRuns     int
	workers     int
	svgSize     int
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	outcomes, err := automation.Run(ctx, sc, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTEPS\tEVENTS\tDRIFT\tRUN ID")
	for _, o := range outcomes {
		id := o.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.6f\t%s\n", o.Step, o.Result.StepsTaken, len(o.Result.Events), o.Result.EnergyDrift, id)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// parseSweepParam reads "name=v1,v2,..." or "name=lo:hi:n".
func parseSweepParam(s string) (string, []float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" || raw == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2 or name=lo:hi:n", s)
	}

	if parts := strings.Split(raw, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 2 {
			return "", nil, fmt.Errorf("bad range in --param %q", s)
		}
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		return name, vals, nil
	}

	var vals []float64
	for _, f := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in --param %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, vals, err := parseSweepParam(p)
		if err != nil {
			return err
		}
		if err := config.DefaultConfig().SetParam(name, 0); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	search := optim.NewGridSearch(names, ranges)
	if maximize {
		search.Maximize()
	}

	build := func(params map[string]float64) (*sim.Simulator, error) {
		cfg := *base
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		ctrl, err := cfg.NewController()
		if err != nil {
			return nil, err
		}
		s := sim.New(ctrl)
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		return s, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %d points, metric %s\n\n", search.Size(), metricName)
	best, trials, err := search.Search(ctx, build, base.RunConfig(false), metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, t := range trials {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, strconv.FormatFloat(t.Params[n], 'g', 6, 64))
		}
		if t.Err != nil {
			slog.Debug("sweep point failed", "params", t.Params, "err", t.Err)
			row = append(row, "error")
		} else {
			row = append(row, fmt.Sprintf("%.6f", t.Value))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best.Params))
	for k := range best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Print("\nbest:")
	for _, k := range keys {
		fmt.Printf(" %s=%g", k, best.Params[k])
	}
	fmt.Printf(" -> %s %.6f\n", metricName, best.Value)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	base, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("random") {
		base.Arena.Start = "random"
	}

	ens := sim.NewEnsemble(func(seed int64) (*sim.Simulator, error) {
		cfg := *base
		cfg.Run.Seed = seed
		ctrl, err := cfg.NewController()
		if err != nil {
			return nil, err
		}
		s := sim.New(ctrl)
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		return s, nil
	}, numRuns, base.Run.Seed)
	ens.SetWorkers(workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("ensemble %s: %d runs from seed %d\n\n", name, numRuns, base.Run.Seed)
	results, err := ens.Run(ctx, base.RunConfig(false))
	if err != nil {
		return err
	}

	cols := []string{"boundary_events", "close_approach_events", "peak_impact", "min_separation", "energy_drift"}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(cols, "\t")))
	sums := make([]float64, len(cols))
	for i, r := range results {
		row := []string{strconv.FormatInt(base.Run.Seed+int64(i), 10)}
		for j, c := range cols {
			v := r.Metrics[c]
			sums[j] += v
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	mean := []string{"mean"}
	for _, s := range sums {
		mean = append(mean, fmt.Sprintf("%.4f", s/math.Max(1, float64(len(results)))))
	}
	fmt.Fprintln(w, strings.Join(mean, "\t"))
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
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

	if outFile == "" {
		return export.WriteRunSVG(os.Stdout, snaps, meta.BoundaryRadius, svgSize)
	}
	if err := export.WriteRunSVGFile(outFile, snaps, meta.BoundaryRadius, svgSize); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, outFile)
	return nil
}
