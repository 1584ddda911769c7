package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/muonsim/internal/config"
	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/storage"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnergy(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2\n", 2000},
		{"  0.5  ", 500},
		{"1e1\n", 10000},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := readEnergy(strings.NewReader(tt.input), &out)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Equal(t, energyPrompt, out.String())
	}
}

func TestReadEnergy_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "two GeV"} {
		got := readEnergy(strings.NewReader(input), &bytes.Buffer{})
		assert.True(t, math.IsNaN(got), "input %q", input)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.GetPreset("coarse")
	cfg.Steps = 3
	cfg.Output = filepath.Join(dir, report.DefaultPath)
	cfg.DataDir = filepath.Join(dir, "runs")
	return cfg
}

func TestExecuteSweep(t *testing.T) {
	cfg := testConfig(t)

	var console bytes.Buffer
	res, runID, err := executeSweep(context.Background(), cfg, strings.NewReader(""), &console)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	lines := strings.Split(strings.TrimSuffix(console.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for i, r := range res.Rows {
		assert.Equal(t, report.ProgressLine(r), lines[i])
	}

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, report.Write(&want, res.Rows))
	assert.Equal(t, want.String(), string(data))

	require.NotEmpty(t, runID)
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, meta.EnergyGeV)
	assert.Equal(t, res.Factor, meta.Factor)
	assert.Equal(t, 3.0, meta.Telemetry["muonsim_batches_total"])

	rows, err := st.LoadRows(runID)
	require.NoError(t, err)
	assert.Equal(t, res.Rows, rows)
}

func TestExecuteSweep_Prompt(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnergyGeV = nil
	cfg.DataDir = ""

	var console bytes.Buffer
	res, runID, err := executeSweep(context.Background(), cfg, strings.NewReader("2\n"), &console)
	require.NoError(t, err)
	assert.Empty(t, runID, "archiving disabled")
	assert.Equal(t, 2000.0, res.Energy)
	assert.True(t, strings.HasPrefix(console.String(), energyPrompt+"0 "))
}

func TestExecuteSweep_OnlyReport(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := resolveConfig(sweepCommand(t, "--preset", "coarse", "--steps", "2"))
	require.NoError(t, err)
	require.Empty(t, cfg.DataDir)

	_, runID, err := executeSweep(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, runID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{report.DefaultPath}, names)
	assert.NoDirExists(t, filepath.Join(dir, config.DefaultDataDir))
}

func TestExecuteSweep_BadOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = filepath.Join(t.TempDir(), "missing", "out.txt")

	_, _, err := executeSweep(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func sweepCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addSweepFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfig(t *testing.T) {
	cfg, err := resolveConfig(sweepCommand(t))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	cfg, err = resolveConfig(sweepCommand(t, "--preset", "coarse", "--steps", "4", "--energy", "3"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Steps)
	assert.Equal(t, 3000.0, cfg.EnergyMeV())
	assert.Equal(t, 5e4, cfg.SpacingCm)
}

func TestResolveConfig_ZeroEnergy(t *testing.T) {
	cfg, err := resolveConfig(sweepCommand(t, "--preset", "coarse", "--steps", "2", "--energy", "0"))
	require.NoError(t, err)
	require.True(t, cfg.HasEnergy())
	cfg.Output = filepath.Join(t.TempDir(), report.DefaultPath)

	var console bytes.Buffer
	res, _, err := executeSweep(context.Background(), cfg, strings.NewReader(""), &console)
	require.NoError(t, err)
	assert.Zero(t, res.Energy)
	assert.NotContains(t, console.String(), energyPrompt)
	assert.Len(t, res.Rows, 2)
}

func TestResolveConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muonsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("energy_gev: 7\nworkers: 2\n"), 0644))

	cfg, err := resolveConfig(sweepCommand(t, "--config", path, "--workers", "4"))
	require.NoError(t, err)
	assert.Equal(t, 7000.0, cfg.EnergyMeV())
	assert.Equal(t, 4, cfg.Workers, "flags override the file")
}

func TestResolveConfig_Errors(t *testing.T) {
	_, err := resolveConfig(sweepCommand(t, "--preset", "nope"))
	assert.ErrorContains(t, err, "unknown preset")

	_, err = resolveConfig(sweepCommand(t, "--steps", "0"))
	assert.Error(t, err)

	_, err = resolveConfig(sweepCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestArchiveCommands(t *testing.T) {
	cfg := testConfig(t)
	_, runID, err := executeSweep(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)

	dataDir = cfg.DataDir
	t.Cleanup(func() { dataDir = "" })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, listRuns(cmd, nil))
	assert.Contains(t, out.String(), runID)

	out.Reset()
	require.NoError(t, plotRun(cmd, []string{runID}))
	assert.Contains(t, out.String(), "survival_ratio")

	out.Reset()
	exportOut = ""
	require.NoError(t, exportJSON(cmd, []string{runID}))
	assert.Contains(t, out.String(), `"rows"`)

	out.Reset()
	exportOut = filepath.Join(t.TempDir(), "run.svg")
	t.Cleanup(func() { exportOut = "" })
	require.NoError(t, exportSVG(cmd, []string{runID}))
	assert.FileExists(t, exportOut)

	assert.ErrorIs(t, plotRun(cmd, []string{"missing"}), storage.ErrRunNotFound)
}

func TestScanCommand(t *testing.T) {
	cmd := newScanCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--preset", "coarse", "--from", "1", "--to", "3", "--n", "3", "--threshold", "--tol", "20"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "ENERGY")
	assert.Contains(t, out.String(), "3GeV")
	assert.Contains(t, out.String(), "penetration threshold:")
}
