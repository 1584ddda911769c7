package sim

import (
	"context"
	"math"

	"github.com/san-kum/muonsim/internal/logging"
	"github.com/san-kum/muonsim/internal/physics"
)

// Simulator sweeps the zenith angle and aggregates one batch per angle.
type Simulator struct {
	cfg       Config
	agg       *Aggregator
	metrics   []Metric
	observers []Observer
	log       logging.Logger
}

func New(cfg Config) *Simulator {
	return &Simulator{
		cfg:       cfg,
		agg:       NewAggregator(cfg),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.Noop(),
	}
}

func (s *Simulator) AddMetric(m Metric)         { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l logging.Logger) { s.log = l }
func (s *Simulator) Config() Config             { return s.cfg }

// Run sweeps the configured zenith range for a muon of the given kinetic
// energy in MeV. Rows reach observers in index order whatever the worker
// count.
func (s *Simulator) Run(ctx context.Context, kinetic float64) (*Result, error) {
	sw, err := s.Start(ctx, kinetic)
	if err != nil {
		return nil, err
	}

	if s.cfg.Workers > 1 {
		err = sw.runParallel(ctx)
	} else {
		for !sw.Done() && err == nil {
			_, err = sw.Next(ctx)
		}
	}
	if err != nil {
		return sw.result, err
	}
	return sw.Finish(ctx), nil
}

// Start prepares a sweep that is advanced one angle at a time with Next.
func (s *Simulator) Start(ctx context.Context, kinetic float64) (*Sweep, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Info(ctx, "sweep started",
		logging.Float("energy_mev", kinetic),
		logging.Int("steps", s.cfg.Steps),
		logging.Int("workers", s.cfg.Workers),
	)

	return &Sweep{
		sim:     s,
		kinetic: kinetic,
		result: &Result{
			Energy:  kinetic,
			Rows:    make([]Row, 0, s.cfg.Steps),
			Metrics: make(map[string]float64),
		},
	}, nil
}

// Sweep is an in-progress run. It is not safe for concurrent use.
type Sweep struct {
	sim     *Simulator
	kinetic float64
	next    int
	result  *Result
}

func (w *Sweep) Done() bool { return w.next >= w.sim.cfg.Steps }

// Next aggregates the next angle and returns its row.
func (w *Sweep) Next(ctx context.Context) (Row, error) {
	if w.Done() {
		return Row{}, ErrNoRows
	}
	select {
	case <-ctx.Done():
		return Row{}, ctx.Err()
	default:
	}

	b, err := w.sim.agg.Batch(ctx, w.kinetic, w.sim.cfg.Zenith(w.next))
	if err != nil {
		return Row{}, err
	}
	return w.emit(ctx, b), nil
}

// Finish records metric values and returns the accumulated result.
func (w *Sweep) Finish(ctx context.Context) *Result {
	for _, m := range w.sim.metrics {
		w.result.Metrics[m.Name()] = m.Value()
	}

	w.sim.log.Info(ctx, "sweep finished",
		logging.Int("rows", len(w.result.Rows)),
		logging.Int("points", w.result.Points),
		logging.Int("depleted", w.result.Depleted),
		logging.Int("integration_steps", w.result.Steps),
	)
	return w.result
}

func (w *Sweep) runParallel(ctx context.Context) error {
	n := w.sim.cfg.Steps - w.next
	first := w.next
	batches := make([]BatchResult, n)
	errs := make([]error, n)

	ParallelFor(n, w.sim.cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			batches[i], errs[i] = w.sim.agg.Batch(ctx, w.kinetic, w.sim.cfg.Zenith(first+i))
		}
	})

	for i := range batches {
		if errs[i] != nil {
			return errs[i]
		}
		w.emit(ctx, batches[i])
	}
	return nil
}

// emit turns a batch into the next row. The zenith-0 batch sets the
// normalization factor before its own reference is computed.
func (w *Sweep) emit(ctx context.Context, b BatchResult) Row {
	res := w.result
	if b.Zenith == 0 {
		res.Factor = b.Adjusted
	}

	cos := math.Cos(b.Zenith)
	row := Row{
		Index:      w.next,
		Zenith:     b.Zenith,
		Angle:      physics.RadToDeg(b.Zenith),
		Adjusted:   b.Adjusted,
		Unadjusted: b.Unadjusted,
		Reference:  res.Factor * (cos * cos),
	}
	w.next++

	res.Rows = append(res.Rows, row)
	res.Points += b.Points
	res.Depleted += b.Depleted
	res.Steps += b.Steps

	w.sim.log.Debug(ctx, "batch done",
		logging.Int("index", row.Index),
		logging.Float("angle_deg", row.Angle),
		logging.Int("points", b.Points),
		logging.Int("depleted", b.Depleted),
	)

	for _, m := range w.sim.metrics {
		m.Observe(row)
	}
	for _, o := range w.sim.observers {
		o.OnRow(row, b)
	}
	return row
}
