// Package analysis provides post-processing for wave runs.
//
//   - [StepDoubling], [SelfConvergence]: empirical order of a time integrator
//   - [PowerSpectrum], [DominantMode]: spatial spectrum of a field
package analysis
