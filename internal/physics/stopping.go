package physics

import "math"

// MaxEnergyTransfer is the maximum single-collision energy transfer W_max used
// by the stopping-power formula.
func MaxEnergyTransfer(k Snapshot) float64 {
	return 2 * ElectronMass * k.Eta()
}

// StoppingPower returns dE/dx in MeV/cm (negative while the muon loses energy)
// in a medium of density rho.
func StoppingPower(k Snapshot, rho float64) float64 {
	beta, gamma := k.Beta, k.Gamma
	eta := k.Eta()
	eta2 := eta * eta
	beta2 := beta * beta
	wmax := MaxEnergyTransfer(k)

	q := MuonCharge / beta
	q2 := q * q

	bracket := math.Log(2*ElectronMass*eta2*wmax/(MediumI*MediumI)) - 2*beta2 -
		DensityCorrection(beta, gamma) - 2*ShellCorrection(beta, gamma)/MediumZ
	return -BetheCoef * rho * (MediumZ / MediumA) * q2 * bracket
}

// Step advances a muon for a fixed time dt through a medium of density rho.
// It lowers *kinetic by the Bethe–Bloch loss over the covered path and returns
// that path length in cm. The caller must recheck *kinetic > 0 before stepping
// again.
func Step(k Snapshot, kinetic *float64, rho, dt float64) float64 {
	dx := k.Velocity * dt
	*kinetic += StoppingPower(k, rho) * dx
	return dx
}
