// Package analysis characterizes a recorded swing:
//
//   - [PowerSpectrum] and [DominantFrequency]: spectrum of a sampled signal
//   - [SwingPeriod]: period from positive-going zero crossings
//   - [PhasePortraitToASCII]: angle against angular velocity as text
//
// The inputs are the samples a run stores in trajectory.csv:
//
//	samples, _ := storage.New(dir).LoadTrajectory()
//	period := analysis.SwingPeriod(samples)
package analysis
