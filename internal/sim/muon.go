package sim

import (
	"math"

	"github.com/san-kum/muonsim/internal/physics"
)

// MuonState tracks one muon from the top of the atmosphere to the detector.
type MuonState struct {
	Kinetic float64 // MeV
	Path    float64 // remaining path, cm
	Proper  float64 // elapsed proper time, s
	Steps   int
}

func NewMuonState(kinetic, path float64) MuonState {
	return MuonState{Kinetic: kinetic, Path: path}
}

// Propagate integrates the muon down a slant path at the given zenith angle
// until the path is used up or the energy is gone. It reports whether the
// muon arrived. A NaN energy never enters the loop and counts as arrived, so
// it propagates into the sums instead of being dropped.
func (m *MuonState) Propagate(zenith, dt float64) bool {
	cosZ := math.Cos(zenith)
	for m.Path > 0 && m.Kinetic > 0 {
		k := physics.Kinematics(m.Kinetic)
		rho := physics.AirDensity(cosZ * m.Path / 100)
		m.Path -= physics.Step(k, &m.Kinetic, rho, dt)
		m.Proper += dt / k.Gamma
		m.Steps++
	}
	return !(m.Kinetic <= 0)
}

// Survival is the decay-law survival probability for the elapsed proper time.
func (m MuonState) Survival() float64 {
	return math.Exp(-m.Proper / physics.MuonLifetime)
}

// idealSurvival is the survival over dist without any energy loss.
func idealSurvival(kinetic, dist float64) float64 {
	k := physics.Kinematics(kinetic)
	return math.Exp(-(dist / k.Velocity) / k.Gamma / physics.MuonLifetime)
}
