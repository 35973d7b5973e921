package integrators

import "github.com/san-kum/wavetoy/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method, four rate
// evaluations per step.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamo.System, s dynamo.State, dt float64) dynamo.State {
	k1 := sys.Derive(s)
	k2 := sys.Derive(s.Advance(0.5*dt, k1))
	k3 := sys.Derive(s.Advance(0.5*dt, k2))
	k4 := sys.Derive(s.Advance(dt, k3))

	sum := dynamo.Rate{
		U: dynamo.Combine(dynamo.Combine(dynamo.Combine(k1.U, 2, k2.U), 2, k3.U), 1, k4.U),
		V: dynamo.Combine(dynamo.Combine(dynamo.Combine(k1.V, 2, k2.V), 2, k3.V), 1, k4.V),
	}

	next := s.Advance(dt/6.0, sum)
	next.Time = s.Time + dt
	return next
}
