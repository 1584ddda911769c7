package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/san-kum/muonsim/internal/optim"
	"github.com/san-kum/muonsim/internal/physics"
	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/sim"
	"github.com/spf13/cobra"
)

var (
	scanFrom      float64
	scanTo        float64
	scanPoints    int
	scanZenithDeg float64
	scanThreshold bool
	scanTolMeV    float64
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "survival at one zenith angle over a range of energies",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	addSweepFlags(cmd)
	cmd.Flags().Float64Var(&scanFrom, "from", 0.5, "lowest energy in GeV")
	cmd.Flags().Float64Var(&scanTo, "to", 5, "highest energy in GeV")
	cmd.Flags().IntVar(&scanPoints, "n", 10, "energies in the scan")
	cmd.Flags().Float64Var(&scanZenithDeg, "zenith", 0, "zenith angle in degrees")
	cmd.Flags().BoolVar(&scanThreshold, "threshold", false, "also bisect for the penetration threshold")
	cmd.Flags().Float64Var(&scanTolMeV, "tol", 1, "threshold tolerance in MeV")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if scanPoints <= 0 {
		return fmt.Errorf("scan needs at least one energy, got %d", scanPoints)
	}

	ctx := cmd.Context()
	agg := sim.NewAggregator(cfg.SimConfig())
	zenith := physics.DegToRad(scanZenithDeg)

	points, err := optim.Scan(ctx, agg, zenith, optim.Linspace(scanFrom*1000, scanTo*1000, scanPoints), cfg.Workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENERGY\tADJUSTED\tUNADJUSTED\tPOINTS\tDEPLETED")
	for _, p := range points {
		fmt.Fprintf(w, "%sGeV\t%s\t%s\t%d\t%d\n",
			report.FormatFloat(p.Energy/1000),
			report.FormatFloat(p.Batch.Adjusted),
			report.FormatFloat(p.Batch.Unadjusted),
			p.Batch.Points,
			p.Batch.Depleted,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !scanThreshold {
		return nil
	}
	e, err := optim.Threshold(ctx, agg, zenith, scanFrom*1000, scanTo*1000, scanTolMeV)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "penetration threshold: %s GeV\n", report.FormatFloat(e/1000))
	return nil
}
