package physics

import "math"

// Detector describes the telescope: its half opening angle, the vertical
// distance to the top of the atmosphere and its collecting area.
type Detector struct {
	HalfAngle float64 // rad
	Baseline  float64 // cm
	Area      float64 // cm^2
}

// DefaultDetector returns the reference telescope.
func DefaultDetector() Detector {
	return Detector{
		HalfAngle: DegToRad(DefaultHalfAngleDeg),
		Baseline:  DefaultBaseline,
		Area:      DefaultArea,
	}
}

// Geometry is the acceptance ellipse seen at one zenith angle.
type Geometry struct {
	Zenith float64 // rad
	Slant  float64 // cm
	A      float64 // semi-axis along the tilt, cm
	B      float64 // transverse semi-axis, cm
}

// Geometry computes the acceptance ellipse for zenith angle theta. It is
// undefined at cos(theta) = 0 or when theta±HalfAngle reaches ±pi/2.
func (d Detector) Geometry(theta float64) Geometry {
	slant := d.Baseline / math.Cos(theta)
	return Geometry{
		Zenith: theta,
		Slant:  slant,
		A:      (math.Tan(theta+d.HalfAngle) - math.Tan(theta-d.HalfAngle)) * d.Baseline / 2,
		B:      slant * math.Tan(d.HalfAngle),
	}
}

// Center returns the ellipse center (h, k).
func (g Geometry) Center() (float64, float64) {
	return g.Slant * math.Sin(g.Zenith), 0
}

// Contains reports whether (x, y) lies inside the ellipse.
func (g Geometry) Contains(x, y float64) bool {
	h, k := g.Center()
	u := (x - h) / g.A
	v := (y - k) / g.B
	return u*u+v*v <= 1
}

// FluxWeight is the inverse-square flux weighting of a path of length dist
// seen by the detector.
func (d Detector) FluxWeight(dist float64) float64 {
	return FluxScale * d.Area / (dist * dist * 2 * math.Pi)
}

// MaxZenith is the upper end of the usable zenith range, pi/2 - HalfAngle.
func (d Detector) MaxZenith() float64 {
	return math.Pi/2 - d.HalfAngle
}
