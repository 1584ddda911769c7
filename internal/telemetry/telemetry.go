// Package telemetry exposes sweep workload counters as Prometheus metrics.
package telemetry

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/san-kum/muonsim/internal/sim"
)

// SweepCollector records per-batch workload. It implements sim.Observer.
type SweepCollector struct {
	gatherer prometheus.Gatherer

	Batches          prometheus.Counter
	GridPoints       prometheus.Counter
	DepletedPaths    prometheus.Counter
	IntegrationSteps prometheus.Counter
	PointsPerBatch   prometheus.Histogram
	LastAdjusted     prometheus.Gauge
}

// NewSweepCollector registers sweep metrics against the provided registerer.
// Metrics already registered with a matching type are reused.
func NewSweepCollector(reg prometheus.Registerer) (*SweepCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &SweepCollector{gatherer: gatherer}
	var err error

	counters := []struct {
		dst  *prometheus.Counter
		name string
		help string
	}{
		{&c.Batches, "muonsim_batches_total", "Zenith angles aggregated."},
		{&c.GridPoints, "muonsim_grid_points_total", "Grid points inside the acceptance ellipse."},
		{&c.DepletedPaths, "muonsim_depleted_paths_total", "Muon paths that ran out of energy before the detector."},
		{&c.IntegrationSteps, "muonsim_integration_steps_total", "Bethe-Bloch integration steps taken."},
	}
	for _, def := range counters {
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: def.name, Help: def.help})
		if *def.dst, err = registerCounter(reg, counter, def.name); err != nil {
			return nil, err
		}
	}

	hist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "muonsim_batch_grid_points",
		Help:    "Grid points per zenith angle.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	})
	if c.PointsPerBatch, err = registerHistogram(reg, hist, "muonsim_batch_grid_points"); err != nil {
		return nil, err
	}

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "muonsim_last_adjusted_probability",
		Help: "Adjusted survival probability of the most recent zenith angle.",
	})
	if c.LastAdjusted, err = registerGauge(reg, gauge, "muonsim_last_adjusted_probability"); err != nil {
		return nil, err
	}

	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SweepCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

func (c *SweepCollector) OnRow(r sim.Row, b sim.BatchResult) {
	if c == nil {
		return
	}
	c.Batches.Inc()
	c.GridPoints.Add(float64(b.Points))
	c.DepletedPaths.Add(float64(b.Depleted))
	c.IntegrationSteps.Add(float64(b.Steps))
	c.PointsPerBatch.Observe(float64(b.Points))
	c.LastAdjusted.Set(r.Adjusted)
}

// Snapshot flattens every unlabelled counter and gauge of g into a map.
// Histograms report their sample count under name + "_count".
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if len(m.GetLabel()) > 0 {
				continue
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[mf.GetName()] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[mf.GetName()] = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[mf.GetName()+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}

// SortedNames returns the keys of a snapshot in order.
func SortedNames(snap map[string]float64) []string {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
