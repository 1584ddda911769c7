package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/san-kum/muonsim/internal/sim"
)

func TestSweepCollectorRecordsBatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSweepCollector(reg)
	if err != nil {
		t.Fatalf("NewSweepCollector: %v", err)
	}

	c.OnRow(sim.Row{Adjusted: 0.7}, sim.BatchResult{Points: 10, Depleted: 2, Steps: 3000})
	c.OnRow(sim.Row{Adjusted: 0.2}, sim.BatchResult{Points: 30, Depleted: 25, Steps: 9000})

	if got := testutil.ToFloat64(c.Batches); got != 2 {
		t.Errorf("batches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.GridPoints); got != 40 {
		t.Errorf("grid points = %v, want 40", got)
	}
	if got := testutil.ToFloat64(c.DepletedPaths); got != 27 {
		t.Errorf("depleted = %v, want 27", got)
	}
	if got := testutil.ToFloat64(c.IntegrationSteps); got != 12000 {
		t.Errorf("steps = %v, want 12000", got)
	}
	if got := testutil.ToFloat64(c.LastAdjusted); got != 0.2 {
		t.Errorf("last adjusted = %v, want 0.2", got)
	}

	snap, err := Snapshot(reg)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap["muonsim_grid_points_total"] != 40 {
		t.Errorf("snapshot grid points = %v", snap["muonsim_grid_points_total"])
	}
	if snap["muonsim_batch_grid_points_count"] != 2 {
		t.Errorf("snapshot histogram count = %v", snap["muonsim_batch_grid_points_count"])
	}

	names := SortedNames(snap)
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestSweepCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	c1, err := NewSweepCollector(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	c2, err := NewSweepCollector(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	c1.OnRow(sim.Row{}, sim.BatchResult{Points: 5})
	if got := testutil.ToFloat64(c2.GridPoints); got != 5 {
		t.Errorf("collectors should share counters, got %v", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *SweepCollector
	c.OnRow(sim.Row{}, sim.BatchResult{Points: 1})
	if c.Gatherer() != nil {
		t.Error("nil collector should have no gatherer")
	}
}
