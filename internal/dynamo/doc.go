// Package dynamo holds the types shared across the simulation: vectors,
// quaternions and frames for the scene, colors for assets, the sentinel
// errors, and the small ODE interfaces the reference models implement.
//
//   - [Vec3], [Quat], [Frame]: scene geometry on top of mgl64
//   - [State], [System], [Integrator]: x' = f(x, t) and its steppers
//   - [SimulationError]: an error tagged with the step and time it happened at
//
// Errors wrap the sentinels, so callers test with errors.Is:
//
//	if errors.Is(err, dynamo.ErrOutputDir) {
//	    // report and exit
//	}
package dynamo
