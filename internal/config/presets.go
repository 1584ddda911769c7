package config

import "sort"

// Presets are named sweep setups. Unset fields fall back to DefaultConfig.
var Presets = map[string]func(c *Config){
	"reference": func(c *Config) {
		c.EnergyGeV = GeV(2)
	},
	"soft": func(c *Config) {
		c.EnergyGeV = GeV(1)
	},
	"hard": func(c *Config) {
		c.EnergyGeV = GeV(10)
	},
	"coarse": func(c *Config) {
		c.EnergyGeV = GeV(2)
		c.SpacingCm = 5e4
		c.DtSeconds = 1e-7
	},
	"wide": func(c *Config) {
		c.EnergyGeV = GeV(2)
		c.Detector.HalfAngleDeg = 15
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
