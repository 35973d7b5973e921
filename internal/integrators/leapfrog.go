package integrators

import "github.com/san-kum/wavetoy/internal/dynamo"

// Leapfrog is kick-drift-kick leapfrog (velocity Verlet). It is second
// order and symplectic, so the discrete energy oscillates instead of
// drifting while dt stays under the stability limit.
//
// It assumes a separable system: the U rate depends only on V and the V
// rate only on U, as for the wave equation.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, s dynamo.State, dt float64) dynamo.State {
	halfDt := 0.5 * dt

	kick := sys.Derive(s)
	mid := dynamo.State{Time: s.Time + halfDt, U: s.U, V: dynamo.Combine(s.V, halfDt, kick.V)}

	drift := sys.Derive(mid)
	next := dynamo.State{Time: s.Time + dt, U: dynamo.Combine(s.U, dt, drift.U), V: mid.V}

	kick = sys.Derive(next)
	next.V = dynamo.Combine(mid.V, halfDt, kick.V)
	return next
}
