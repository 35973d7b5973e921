package integrators

import "github.com/san-kum/wavetoy/internal/dynamo"

// Euler is the first-order forward Euler method. It is unconditionally
// unstable for the undamped wave equation and serves as a reference in
// convergence studies.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, s dynamo.State, dt float64) dynamo.State {
	return s.Advance(dt, sys.Derive(s))
}
