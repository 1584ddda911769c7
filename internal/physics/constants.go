package physics

import "math"

const (
	SpeedOfLight = 29979245800.0 // cm/s
	MuonMass     = 105.6583755   // MeV/c^2
	ElectronMass = 0.51099895    // MeV/c^2
	MuonLifetime = 2.1969811e-6  // s
	BetheCoef    = 0.1535        // MeV cm^2/g
	MuonCharge   = 1.0
)

// Defaults for the detector and the integrator.
const (
	DefaultDt           = 1.0e-8 // s
	DefaultSpacing      = 1.0e4  // cm
	DefaultArea         = 1.824146925e2
	DefaultHalfAngleDeg = 9.7
	DefaultBaseline     = 10.0e5 // cm
	FluxScale           = 1.0e10
)

// Effective medium: silicon-dioxide-like stand-in for air.
const (
	MediumZ = 14.51888746
	MediumA = 29.09833728
	MediumI = 85.7e-6 // MeV
)

// Sternheimer density-effect parameters for the medium.
const (
	SternC0 = -10.6
	SternX0 = 1.742
	SternX1 = 4.28
	SternM  = 3.4
	SternA  = 0.1091
)

// Standard atmosphere.
const (
	SeaLevelDensity = 1.225e-3 // g/cm^3
	LapseRate       = 0.0065   // K/m
	SeaLevelTemp    = 288.16   // K
	BarometricExp   = 4.2561
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg / 180 * math.Pi }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad / math.Pi * 180 }
