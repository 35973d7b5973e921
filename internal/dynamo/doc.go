// Package dynamo provides the core primitives for integrating a
// semi-discrete wave field in time.
//
//   - [State]: time plus displacement and velocity fields
//   - [Rate]: time derivative of a State (no clock)
//   - [Combine]: elementwise a + scale*b
//   - [System]: spatial operator mapping a State to its Rate
//   - [Integrator]: fixed-step time stepper
//   - [Simulator]: drives an Integrator and reports to observers
//   - [Ensemble]: concurrent runs of one system under several configs
//
// # Example
//
//	wave, _ := physics.NewWave(11)
//	s := dynamo.New(wave, integrators.NewMidpoint())
//	s.AddObserver(report.NewConsole(os.Stdout))
//	result, err := s.Run(ctx, wave.Initial(0), dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. States are values: each step
// allocates fresh fields, so a State handed to an observer is never
// modified afterwards by the simulator.
package dynamo
