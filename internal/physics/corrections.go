package physics

import "math"

// DensityCorrection is the Sternheimer density-effect term delta for the medium.
func DensityCorrection(beta, gamma float64) float64 {
	x := math.Log10(beta * gamma)
	switch {
	case x < SternX0:
		return 0
	case x < SternX1:
		// Standard Sternheimer form in (X1-x). Evaluating at X0 instead would
		// make delta drop at X1.
		return 4.6052*x + SternC0 + SternA*math.Pow(SternX1-x, SternM)
	default:
		return 4.6052*x + SternC0
	}
}

// ShellCorrection is the low-energy shell correction C for the medium.
func ShellCorrection(beta, gamma float64) float64 {
	eta := beta * gamma
	e2 := math.Pow(eta, -2)
	e4 := math.Pow(eta, -4)
	e6 := math.Pow(eta, -6)
	return (0.422377*e2+0.0304043*e4-0.00038106*e6)*1e6*math.Pow(MediumI, 2) +
		(3.850190*e2-0.1667989*e4+0.00157955*e6)*1e9*math.Pow(MediumI, 3)
}
