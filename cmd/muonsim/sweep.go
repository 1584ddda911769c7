package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/muonsim/internal/config"
	"github.com/san-kum/muonsim/internal/logging"
	"github.com/san-kum/muonsim/internal/metrics"
	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/sim"
	"github.com/san-kum/muonsim/internal/storage"
	"github.com/san-kum/muonsim/internal/telemetry"
	"github.com/san-kum/muonsim/internal/viz"
	"github.com/spf13/cobra"
)

const energyPrompt = "Kinetic energy of muon (GeV): "

func runSweepCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := logging.ContextWithLogger(cmd.Context(), logging.NewFromEnv(cfg.Log.Level, cfg.Log.Format))

	_, _, err = executeSweep(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	return err
}

// readEnergy prompts for an energy in GeV and returns it in MeV. Input that
// does not parse as a number yields NaN, which the sweep propagates.
func readEnergy(in io.Reader, out io.Writer) float64 {
	fmt.Fprint(out, energyPrompt)

	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	if !sc.Scan() {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(sc.Text(), 64)
	if err != nil {
		return math.NaN()
	}
	return v * 1000
}

func energyMeV(cfg *config.Config, in io.Reader, out io.Writer) float64 {
	if cfg.HasEnergy() {
		return cfg.EnergyMeV()
	}
	return readEnergy(in, out)
}

// sweepRun bundles a configured simulator with the observers every CLI
// sweep carries.
type sweepRun struct {
	sim       *sim.Simulator
	collector *telemetry.SweepCollector
	writer    *report.Writer
	file      *os.File
}

func newSweepRun(cfg *config.Config, console io.Writer, log logging.Logger) (*sweepRun, error) {
	file, err := os.Create(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	collector, err := telemetry.NewSweepCollector(prometheus.NewRegistry())
	if err != nil {
		file.Close()
		return nil, err
	}

	s := sim.New(cfg.SimConfig())
	s.SetLogger(log)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	writer := report.NewWriter(console, file)
	s.AddObserver(writer)
	s.AddObserver(collector)

	return &sweepRun{sim: s, collector: collector, writer: writer, file: file}, nil
}

// finish closes the report and archives the result. It returns the run ID,
// empty when archiving is disabled.
func (r *sweepRun) finish(ctx context.Context, cfg *config.Config, res *sim.Result, elapsed time.Duration, log logging.Logger) (string, error) {
	if err := r.writer.Err(); err != nil {
		r.file.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := r.file.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	snap, err := telemetry.Snapshot(r.collector.Gatherer())
	if err != nil {
		return "", err
	}

	fields := []logging.Field{
		logging.String("report", cfg.Output),
		logging.Any("elapsed", elapsed),
		logging.Float("normalization_factor", res.Factor),
	}
	for _, name := range telemetry.SortedNames(snap) {
		fields = append(fields, logging.Float(name, snap[name]))
	}
	log.Info(ctx, "sweep complete", fields...)

	if cfg.DataDir == "" {
		return "", nil
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return "", fmt.Errorf("init archive: %w", err)
	}
	runID, err := st.Save(runMetadata(cfg, res, snap), res.Rows)
	if err != nil {
		return "", fmt.Errorf("archive run: %w", err)
	}
	log.Info(ctx, "run archived", logging.String("run_id", runID), logging.String("dir", cfg.DataDir))
	return runID, nil
}

func runMetadata(cfg *config.Config, res *sim.Result, snap map[string]float64) storage.RunMetadata {
	return storage.RunMetadata{
		EnergyGeV:    res.Energy / 1000,
		Steps:        cfg.Steps,
		SpacingCm:    cfg.SpacingCm,
		DtSeconds:    cfg.DtSeconds,
		HalfAngleDeg: cfg.Detector.HalfAngleDeg,
		BaselineCm:   cfg.Detector.BaselineCm,
		AreaCm2:      cfg.Detector.AreaCm2,
		Factor:       res.Factor,
		Metrics:      res.Metrics,
		Telemetry:    snap,
	}
}

// executeSweep runs a full sweep: progress lines to console, report lines to
// cfg.Output, then the run archive. It logs through the context's logger.
func executeSweep(ctx context.Context, cfg *config.Config, in io.Reader, console io.Writer) (*sim.Result, string, error) {
	log := logging.FromContext(ctx)
	energy := energyMeV(cfg, in, console)

	run, err := newSweepRun(cfg, console, log)
	if err != nil {
		return nil, "", err
	}

	start := time.Now()
	res, err := run.sim.Run(ctx, energy)
	if err != nil {
		run.file.Close()
		return nil, "", err
	}

	runID, err := run.finish(ctx, cfg, res, time.Since(start), log)
	return res, runID, err
}

func runLiveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// Logs would tear the alternate screen.
	log := logging.Noop()
	ctx := cmd.Context()

	energy := energyMeV(cfg, cmd.InOrStdin(), cmd.OutOrStdout())

	run, err := newSweepRun(cfg, nil, log)
	if err != nil {
		return err
	}

	start := time.Now()
	sw, err := run.sim.Start(ctx, energy)
	if err != nil {
		run.file.Close()
		return err
	}

	final, err := tea.NewProgram(viz.NewLiveModel(ctx, sw, cfg.SimConfig(), energy), tea.WithAltScreen()).Run()
	if err != nil {
		run.file.Close()
		return err
	}

	live := final.(viz.LiveModel)
	if err := live.Err(); err != nil {
		run.file.Close()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	if live.Result() == nil {
		run.file.Close()
		return nil
	}

	runID, err := run.finish(ctx, cfg, live.Result(), time.Since(start), log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, viz.SummaryTable(live.Result().Rows))
	if runID != "" {
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	return nil
}
