package sim

import (
	"context"
	"math"

	"github.com/san-kum/muonsim/internal/physics"
)

// Aggregator integrates every grid point of the acceptance ellipse for one
// zenith angle.
type Aggregator struct {
	Detector physics.Detector
	Spacing  float64
	Dt       float64
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{Detector: cfg.Detector, Spacing: cfg.Spacing, Dt: cfg.Dt}
}

// Batch computes the adjusted and unadjusted probabilities for a muon of the
// given kinetic energy (MeV) seen at zenith angle theta. The grid is indexed
// by count so membership does not depend on accumulated float increments.
func (a *Aggregator) Batch(ctx context.Context, kinetic, theta float64) (BatchResult, error) {
	g := a.Detector.Geometry(theta)
	h, k := g.Center()
	baseline := a.Detector.Baseline

	res := BatchResult{Zenith: theta}
	var adjusted, unadjusted float64

	ni := gridCount(2*g.A, a.Spacing)
	nj := gridCount(2*g.B, a.Spacing)
	for ii := 0; ii < ni; ii++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		x := h - g.A + float64(ii)*a.Spacing
		for jj := 0; jj < nj; jj++ {
			y := k - g.B + float64(jj)*a.Spacing
			if !g.Contains(x, y) {
				continue
			}
			res.Points++

			dist := math.Sqrt(x*x + y*y + baseline*baseline)
			weight := a.Detector.FluxWeight(dist)
			unadjusted += weight * idealSurvival(kinetic, dist)

			mu := NewMuonState(kinetic, dist)
			arrived := mu.Propagate(theta, a.Dt)
			res.Steps += mu.Steps
			if !arrived {
				res.Depleted++
				continue
			}
			adjusted += weight * mu.Survival()
		}
	}

	norm := g.A * g.B / physics.FluxScale
	res.Adjusted = adjusted / norm
	res.Unadjusted = unadjusted / norm
	return res, nil
}

// gridCount is the number of samples spacing apart that start at the low
// edge of span and stay strictly below its high edge.
func gridCount(span, spacing float64) int {
	n := math.Ceil(span / spacing)
	if !(n > 0) || math.IsInf(n, 0) {
		return 0
	}
	return int(n)
}
