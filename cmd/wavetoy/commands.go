package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/san-kum/wavetoy/internal/analysis"
	"github.com/san-kum/wavetoy/internal/config"
	"github.com/san-kum/wavetoy/internal/dynamo"
	"github.com/san-kum/wavetoy/internal/experiment"
	"github.com/san-kum/wavetoy/internal/report"
	"github.com/san-kum/wavetoy/internal/storage"
	"github.com/san-kum/wavetoy/internal/viz"
)

// resolveConfig starts from the preset or config file, falling back to
// defaults, and applies explicitly set flags on top.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	if changed("points") {
		cfg.Points = points
	}
	if changed("courant") {
		cfg.Courant = courant
	}
	if changed("integrator") {
		cfg.Integrator = integrator
	}
	if changed("profile") {
		cfg.Profile = profile
	}
	if changed("iters") {
		cfg.Iterations = iterations
	}
	if changed("t0") {
		cfg.T0 = t0
	}
	if changed("every") {
		cfg.OutputEvery = outputEvery
	}
	if noStore {
		cfg.Store = false
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	exp.WithLogger(logger)

	observers := []dynamo.Observer{report.NewLog(logger)}
	if printFields {
		observers = append(observers, report.NewConsole(os.Stdout))
	}

	var rec *storage.Recorder
	if cfg.Store {
		st := storage.New(dataDir)
		rec, err = st.Create(storage.RunMetadata{
			Points:     cfg.Points,
			Courant:    cfg.Courant,
			Dt:         cfg.Dt(),
			Iterations: cfg.Steps(),
			T0:         cfg.T0,
			Integrator: cfg.Integrator,
			Profile:    cfg.Profile,
		})
		if err != nil {
			return err
		}
		atexit.Register(func() { _ = rec.Close(nil) })
		observers = append(observers, rec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, runErr := exp.Run(ctx, observers...)

	if rec != nil {
		var final *dynamo.Result
		if runErr == nil {
			final = result
		}
		if err := rec.Close(final); err != nil {
			logger.Error("failed to close recorder", zap.String("run", rec.ID()), zap.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}

	w := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', 0)
	if rec != nil {
		fmt.Fprintf(w, "run\t%s\n", rec.ID())
	}
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	fmt.Fprintf(w, "time\t%.6f\n", result.Final.Time)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, result.Metrics[name])
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
	fmt.Fprintln(w, "ID\tTIME\tPOINTS\tDT\tSTEPS\tINTEG\tPROFILE\tDONE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4g\t%d\t%s\t%s\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Dt,
			run.Steps,
			run.Integrator,
			run.Profile,
			run.Complete,
		)
	}

	return w.Flush()
}

func lastSnapshot(st *storage.Store, runID string) (storage.Snapshot, error) {
	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return storage.Snapshot{}, err
	}
	if len(snaps) == 0 {
		return storage.Snapshot{}, fmt.Errorf("run %s has no stored iterations", runID)
	}
	return snaps[len(snaps)-1], nil
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "created\t%s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "points\t%d\n", meta.Points)
	fmt.Fprintf(w, "dt\t%g (courant %g)\n", meta.Dt, meta.Courant)
	fmt.Fprintf(w, "integrator\t%s\n", meta.Integrator)
	fmt.Fprintf(w, "profile\t%s\n", meta.Profile)
	fmt.Fprintf(w, "steps\t%d\n", meta.Steps)
	fmt.Fprintf(w, "final time\t%g\n", meta.FinalTime)
	fmt.Fprintf(w, "outputs\t%d\n", meta.Outputs)
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, meta.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	snap, err := lastSnapshot(st, runID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(snap.State.U,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("u(x) at %s, t=%g", snap.Group, snap.State.Time)),
	))
	return nil
}

func openOutput() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	out, err := openOutput()
	if err != nil {
		return err
	}
	return errors.Join(storage.New(dataDir).ExportJSON(args[0], out), out.Close())
}

func exportCSV(cmd *cobra.Command, args []string) error {
	out, err := openOutput()
	if err != nil {
		return err
	}
	return errors.Join(storage.New(dataDir).ExportCSV(args[0], out), out.Close())
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	snap, err := lastSnapshot(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	u := snap.State.U
	if len(u) < 4 {
		return fmt.Errorf("need at least 4 points for spectrum, have %d", len(u))
	}

	ps := analysis.PowerSpectrum(u)
	mode := analysis.DominantMode(u)

	fmt.Printf("%s: t=%g, %d points\n", snap.Group, snap.State.Time, len(u))
	fmt.Printf("dominant mode: %d (power %.4g)\n\n", mode, ps[mode])
	fmt.Println(asciigraph.Plot(ps,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of u"),
	))
	return nil
}

func convergence(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	dt := cfg.Dt()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEP DOUBLING\tCOARSE\tFINE\tRATIO\tORDER")

	for _, scale := range []float64{1, 0.5, 0.25} {
		h := dt * scale
		steps := int(horizon/h + 0.5)
		if steps < 1 {
			steps = 1
		}
		c, err := analysis.SelfConvergence(exp.Wave(), exp.Integrator(), exp.Initial(), float64(steps)*h, h)
		if err != nil {
			return err
		}
		sd := analysis.StepDoubling(exp.Wave(), exp.Integrator(), exp.Initial(), h)
		fmt.Fprintf(w, "%.4g\t%.3e\t%.3e\t%.3e\t%.3f\t%.3f\n", h, sd, c.Coarse, c.Fine, c.Ratio, c.Order)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOINTS\tCOURANT\tITERS\tINTEG\tPROFILE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%s\t%s\n", name, p.Points, p.Courant, p.Steps(), p.Integrator, p.Profile)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	m := viz.NewModel(exp.Wave(), exp.Integrator(), cfg.Integrator, exp.Initial(), cfg.Dt())
	return viz.Run(m)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
