// Package metrics summarises a zenith sweep into scalar values.
package metrics

import "github.com/san-kum/muonsim/internal/sim"

// Default returns the metrics recorded for every stored run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewSurvivalRatio(),
		NewReferenceRMS(),
		NewAttenuation(),
		NewCutoffAngle(),
	}
}
