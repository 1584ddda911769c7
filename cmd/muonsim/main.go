package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/muonsim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	energyGeV  float64
	steps      int
	spacing    float64
	dt         float64
	workers    int
	halfAngle  float64
	outputPath string
	exportOut  string
)

// main registers the commands and runs the root command, which sweeps like
// "run" when no subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "muonsim",
		Short:        "muon survival probability through the atmosphere",
		SilenceUsage: true,
		RunE:         runSweepCmd,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run archive directory; sweeps archive only when set (archive commands default to "+config.DefaultDataDir+")")
	addSweepFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "sweep the zenith angle and write the survival report",
		Args:  cobra.NoArgs,
		RunE:  runSweepCmd,
	}
	addSweepFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a sweep with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLiveCmd,
	}
	addSweepFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export an archived run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw an archived run as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(out, "  %-10s %g GeV  spacing %g cm  dt %g s  half angle %g deg\n",
					name, p.EnergyMeV()/1000, p.SpacingCm, p.DtSeconds, p.Detector.HalfAngleDeg)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config (or --preset) to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, newScanCmd(), listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&energyGeV, "energy", 0, "muon kinetic energy in GeV (asked on the console when unset)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "zenith angles in the sweep")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "grid spacing in cm")
	cmd.Flags().Float64Var(&dt, "dt", 0, "integration time step in s")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "angles evaluated concurrently")
	cmd.Flags().Float64Var(&halfAngle, "half-angle", 0, "detector half opening angle in degrees")
	cmd.Flags().StringVar(&outputPath, "output", "", "report file")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		if cfg, err = config.LoadFrom(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("energy") {
		cfg.EnergyGeV = config.GeV(energyGeV)
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("spacing") {
		cfg.SpacingCm = spacing
	}
	if flags.Changed("dt") {
		cfg.DtSeconds = dt
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("half-angle") {
		cfg.Detector.HalfAngleDeg = halfAngle
	}
	if flags.Changed("output") {
		cfg.Output = outputPath
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
