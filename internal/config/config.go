package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/muonsim/internal/physics"
	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSteps   = 25
	DefaultWorkers = 1
	// DefaultDataDir is where the archive commands read when no --data is
	// given. Sweeps only archive when data_dir is set.
	DefaultDataDir = ".muonsim"
)

type Config struct {
	EnergyGeV *float64       `yaml:"energy_gev,omitempty"`
	Steps     int            `yaml:"steps"`
	SpacingCm float64        `yaml:"spacing_cm"`
	DtSeconds float64        `yaml:"dt_s"`
	Workers   int            `yaml:"workers"`
	Detector  DetectorConfig `yaml:"detector"`
	Output    string         `yaml:"output"`
	DataDir   string         `yaml:"data_dir"`
	Log       LogConfig      `yaml:"log"`
}

type DetectorConfig struct {
	HalfAngleDeg float64 `yaml:"half_angle_deg"`
	BaselineCm   float64 `yaml:"baseline_cm"`
	AreaCm2      float64 `yaml:"area_cm2"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig reproduces the reference telescope. EnergyGeV is left unset,
// which means the energy is asked for on the console, and DataDir is empty so
// nothing but the report is written.
func DefaultConfig() *Config {
	return &Config{
		Steps:     DefaultSteps,
		SpacingCm: physics.DefaultSpacing,
		DtSeconds: physics.DefaultDt,
		Workers:   DefaultWorkers,
		Detector: DetectorConfig{
			HalfAngleDeg: physics.DefaultHalfAngleDeg,
			BaselineCm:   physics.DefaultBaseline,
			AreaCm2:      physics.DefaultArea,
		},
		Output: report.DefaultPath,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadFrom(path, DefaultConfig())
}

// LoadFrom reads path on top of base, so keys missing from the file keep
// base's values. base is modified and returned.
func LoadFrom(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GeV returns a pointer for Config.EnergyGeV.
func GeV(v float64) *float64 { return &v }

// HasEnergy reports whether an energy was configured. Zero counts as set.
func (c *Config) HasEnergy() bool {
	return c.EnergyGeV != nil
}

// EnergyMeV converts the configured energy to MeV. It is NaN when unset.
func (c *Config) EnergyMeV() float64 {
	if c.EnergyGeV == nil {
		return math.NaN()
	}
	return *c.EnergyGeV * 1000
}

// PhysicsDetector converts the detector section to model units.
func (c *Config) PhysicsDetector() physics.Detector {
	return physics.Detector{
		HalfAngle: physics.DegToRad(c.Detector.HalfAngleDeg),
		Baseline:  c.Detector.BaselineCm,
		Area:      c.Detector.AreaCm2,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Steps:    c.Steps,
		Spacing:  c.SpacingCm,
		Dt:       c.DtSeconds,
		Workers:  c.Workers,
		Detector: c.PhysicsDetector(),
	}
}

// Validate checks the sweep parameters. The energy is never checked.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return c.SimConfig().Validate()
}
