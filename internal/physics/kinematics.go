package physics

import "math"

// Snapshot is the relativistic state derived from a kinetic energy.
type Snapshot struct {
	Gamma    float64
	Beta     float64
	Velocity float64 // cm/s
}

// Eta returns beta*gamma.
func (s Snapshot) Eta() float64 { return s.Gamma * s.Beta }

// Kinematics derives the Lorentz factor, beta and velocity of a muon with the
// given kinetic energy in MeV. Energies <= 0 yield NaN.
func Kinematics(kinetic float64) Snapshot {
	gamma := kinetic/MuonMass + 1
	beta := math.Sqrt(1 - 1/(gamma*gamma))
	return Snapshot{
		Gamma:    gamma,
		Beta:     beta,
		Velocity: beta * SpeedOfLight,
	}
}
