package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/muonsim/internal/physics"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid config")
	ErrNoRows        = errors.New("sim: no rows left in sweep")
)

// BatchResult is the acceptance-weighted survival for one zenith angle.
type BatchResult struct {
	Zenith     float64
	Adjusted   float64
	Unadjusted float64

	Points   int // grid points inside the ellipse
	Depleted int // points whose muon ran out of energy
	Steps    int // integration steps over all points
}

// Row is one line of the sweep report.
type Row struct {
	Index      int
	Zenith     float64 // rad
	Angle      float64 // deg
	Adjusted   float64
	Unadjusted float64
	Reference  float64 // normalization factor * cos^2(zenith)
}

// Metric summarises a sweep from its rows. Reset clears it between runs.
type Metric interface {
	Name() string
	Observe(r Row)
	Value() float64
	Reset()
}

// Observer is called once per emitted row, in index order.
type Observer interface {
	OnRow(r Row, b BatchResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r Row, b BatchResult)

func (f ObserverFunc) OnRow(r Row, b BatchResult) { f(r, b) }

// Config sets the sweep resolution and detector for a Simulator.
type Config struct {
	Steps    int
	Spacing  float64 // cm
	Dt       float64 // s
	Workers  int
	Detector physics.Detector
}

func DefaultConfig() Config {
	return Config{
		Steps:    25,
		Spacing:  physics.DefaultSpacing,
		Dt:       physics.DefaultDt,
		Workers:  1,
		Detector: physics.DefaultDetector(),
	}
}

func (c Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, c.Steps)
	}
	if !(c.Spacing > 0) {
		return fmt.Errorf("%w: spacing must be positive, got %g", ErrInvalidConfig, c.Spacing)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Detector.HalfAngle <= 0 || c.Detector.HalfAngle >= math.Pi/2 {
		return fmt.Errorf("%w: half angle out of range, got %g", ErrInvalidConfig, c.Detector.HalfAngle)
	}
	return nil
}

// Zenith returns the i-th sweep angle: i/(2N) * (pi - 2*psi).
func (c Config) Zenith(i int) float64 {
	return float64(i) / float64(c.Steps*2) * (math.Pi - 2*c.Detector.HalfAngle)
}

type Result struct {
	Energy   float64 // MeV
	Factor   float64 // adjusted probability at zenith 0
	Rows     []Row
	Metrics  map[string]float64
	Points   int
	Depleted int
	Steps    int
}
