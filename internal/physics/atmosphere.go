package physics

import "math"

// AirDensity returns the air density in g/cm^3 at the given altitude in meters.
// Only defined below SeaLevelTemp/LapseRate (about 44 km).
func AirDensity(altitude float64) float64 {
	return SeaLevelDensity * math.Pow((SeaLevelTemp-LapseRate*altitude)/SeaLevelTemp, BarometricExp)
}
