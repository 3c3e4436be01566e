package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/san-kum/orbitsim/internal/world"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	tolerance  float64
	softening  float64
	configFile string
	stepsFrame int
	sweepDts   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "N-body gravitational simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario to completion",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override [s]")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override [s]")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "integrator override (rk4, dopri54, leapfrog)")
	runCmd.Flags().Float64Var(&tolerance, "tol", 0, "adaptive tolerance override")
	runCmd.Flags().Float64Var(&softening, "softening", -1, "softening length override [m]")
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override [s]")
	liveCmd.Flags().StringVar(&integrator, "integrator", "", "integrator override")
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	liveCmd.Flags().IntVar(&stepsFrame, "steps", 10, "integrator steps per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "convergence sweep across step sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepDts, "dts", "", "comma-separated step sizes [s]")
	sweepCmd.Flags().Float64Var(&duration, "time", 0, "duration override [s]")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's energy history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).Export(args[0], os.Stdout)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tINTEG\tDT\tDURATION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%.3gs\t%.3gs\n",
					name, len(p.Bodies), p.Integrator, p.Dt, p.Duration)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves the scenario from a preset name or --config file,
// then applies flag overrides. Returns a private copy.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg config.Config

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		cfg = *loaded
	case len(args) > 0:
		preset := config.GetPreset(args[0])
		if preset == nil {
			return nil, fmt.Errorf("unknown scenario: %s (available: %v)", args[0], config.ListPresets())
		}
		cfg = *preset
	default:
		return nil, fmt.Errorf("scenario name or --config required (available: %v)", config.ListPresets())
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("softening") {
		cfg.Softening = softening
	}
	return &cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := cfg.BuildWorld()
	if err != nil {
		return err
	}
	stepper, err := cfg.NewStepper()
	if err != nil {
		return err
	}

	runner := sim.New(w, stepper)
	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewAngularMomentumDrift())
	runner.AddMetric(metrics.NewStability())

	fmt.Printf("running %s (%d bodies, %s)...\n", cfg.Name, w.Count(), cfg.Integrator)
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Adaptive:  cfg.Adaptive(),
		Tolerance: cfg.Tolerance,
		MinDt:     config.DefaultMinDt,
		Softening: cfg.Softening,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result, w)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d", result.StepsTaken)
	if cfg.Adaptive() {
		fmt.Printf(" (accepted %d, rejected %d)", result.Accepted, result.Rejected)
	}
	fmt.Println()
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(cfg, stepsFrame)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	var dts []float64
	if sweepDts == "" {
		dts = []float64{cfg.Dt, cfg.Dt / 2, cfg.Dt / 4, cfg.Dt / 8}
	} else {
		for _, field := range strings.Split(sweepDts, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("bad --dts value %q: %w", field, err)
			}
			dts = append(dts, v)
		}
	}

	sweep := sim.NewSweep(
		func() (*world.World, error) { return cfg.BuildWorld() },
		func() integrators.Stepper {
			stepper, _ := cfg.NewStepper()
			return stepper
		},
	)

	fmt.Printf("sweeping %s over %d step sizes...\n", cfg.Name, len(dts))
	results, err := sweep.Run(context.Background(), sim.Config{
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Adaptive:  cfg.Adaptive(),
		Tolerance: cfg.Tolerance,
		MinDt:     config.DefaultMinDt,
		Softening: cfg.Softening,
	}, dts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT")
	for i, res := range results {
		fmt.Fprintf(w, "%.6gs\t%d\t%.6e\n", dts[i], res.StepsTaken, res.EnergyDrift)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tINTEG\tSTEPS\tE DRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Integrator,
			run.StepsTaken,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, energies, err := st.History(args[0])
	if err != nil {
		return err
	}
	if len(energies) < 2 {
		return fmt.Errorf("run %s has no history to plot", args[0])
	}

	chart := asciigraph.Plot(energies,
		asciigraph.Height(15),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("total energy, %s", args[0])),
	)
	fmt.Println(chart)
	return nil
}
