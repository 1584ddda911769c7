// Package physics provides the single-muon models used by the survival sweep.
//
// Every function here is pure and works in CGS units with energies in MeV:
//
//   - [Kinematics]: kinetic energy to Lorentz factor, beta and velocity
//   - [AirDensity]: barometric standard-atmosphere density
//   - [DensityCorrection] and [ShellCorrection]: Bethe–Bloch corrections
//   - [Step]: one fixed-time-step Bethe–Bloch energy-loss update
//   - [Detector.Geometry]: acceptance ellipse for a zenith angle
//
// No input is validated. Non-positive energies or angles at the geometric
// singularities produce NaN or Inf, which callers propagate unchanged.
//
// # Example
//
//	k := physics.Kinematics(2000)
//	e := 2000.0
//	dx := physics.Step(k, &e, physics.AirDensity(1000), 1e-8)
package physics
