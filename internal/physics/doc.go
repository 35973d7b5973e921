// Package physics provides the spatial operators integrated by dynamo.
//
// [Wave] implements [dynamo.System] for the 1D wave equation with frozen
// (zero-rate) end points and [dynamo.Hamiltonian] for energy monitoring:
//
//	wave, err := physics.NewWave(11)
//	if err != nil {
//	    return err // fewer than 2 points
//	}
//	s := wave.Initial(0)
//	r := wave.Derive(s)
//
// Initial conditions come from a [Profile]; [Sine] is the default.
package physics
