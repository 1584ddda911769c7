package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/muonsim/internal/config"
	"github.com/san-kum/muonsim/internal/export"
	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/storage"
	"github.com/san-kum/muonsim/internal/viz"
	"github.com/spf13/cobra"
)

// archiveDir is the --data directory, or the default archive when unset.
func archiveDir() string {
	if dataDir != "" {
		return dataDir
	}
	return config.DefaultDataDir
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(archiveDir())
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tENERGY\tSTEPS\tSPACING\tDT\tFACTOR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%sGeV\t%d\t%gcm\t%gs\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			report.FormatFloat(run.EnergyGeV),
			run.Steps,
			run.SpacingCm,
			run.DtSeconds,
			report.FormatFloat(run.Factor),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(archiveDir())

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.TitleStyle.Render(fmt.Sprintf("run %s  %s GeV", meta.ID, report.FormatFloat(meta.EnergyGeV))))
	fmt.Fprintln(out)

	if graph := viz.PlotSweep(rows, 70, 12); graph != "" {
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	fmt.Fprint(out, viz.SummaryTable(rows))
	fmt.Fprintln(out)
	fmt.Fprint(out, viz.MetricsPanel(meta.Metrics))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(archiveDir())

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return storage.ExportJSON(cmd.OutOrStdout(), *meta, rows)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, *meta, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", exportOut)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	rows, err := storage.New(archiveDir()).LoadRows(runID)
	if err != nil {
		return err
	}

	svg := export.SweepToSVG(rows, 800, 400)
	if svg == "" {
		return fmt.Errorf("run %s has no finite values to draw", runID)
	}

	path := exportOut
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
	return nil
}
