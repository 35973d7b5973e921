package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir     string
	verbose     bool
	points      int
	courant     float64
	iterations  int
	t0          float64
	integrator  string
	profile     string
	outputEvery int
	printFields bool
	noStore     bool
	configFile  string
	preset      string
	horizon     float64
	outFile     string

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "wavetoy",
		Short:         "1D wave equation solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			atexit.Register(func() { _ = logger.Sync() })
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wavetoy", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the solver and print every reported iteration",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addGridFlags(runCmd)
	runCmd.Flags().IntVar(&iterations, "iters", 0, "iterations (0 covers one unit of time)")
	runCmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	runCmd.Flags().IntVar(&outputEvery, "every", 1, "report every n-th iteration")
	runCmd.Flags().BoolVar(&printFields, "print", true, "print reported fields to stdout")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the run")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and plot the last stored displacement",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export stored samples as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spatial spectrum of the last stored displacement",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	convergeCmd := &cobra.Command{
		Use:   "converge",
		Short: "self-convergence study of the time integrator",
		Args:  cobra.NoArgs,
		RunE:  convergence,
	}
	addGridFlags(convergeCmd)
	convergeCmd.Flags().Float64Var(&horizon, "horizon", 0.5, "integration horizon")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the solver in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addGridFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, showCmd, exportJSONCmd, exportCSVCmd,
		analyzeCmd, convergeCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&points, "points", "n", 11, "grid points")
	cmd.Flags().Float64Var(&courant, "courant", 0.25, "dt/dx")
	cmd.Flags().StringVar(&integrator, "integrator", "midpoint", "time integrator")
	cmd.Flags().StringVar(&profile, "profile", "sine", "initial profile")
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
