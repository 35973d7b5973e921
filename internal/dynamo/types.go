package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is a point-in-time snapshot of the field: displacement U and
// velocity V sampled on the same grid, stamped with the simulation clock.
type State struct {
	Time float64
	U    []float64
	V    []float64
}

// Rate is the time derivative of a State. It has no clock of its own.
type Rate struct {
	U []float64
	V []float64
}

// NewState returns a zero field of n points at time t.
func NewState(t float64, n int) State {
	return State{Time: t, U: make([]float64, n), V: make([]float64, n)}
}

// NewRate returns a zero rate of n points.
func NewRate(n int) Rate {
	return Rate{U: make([]float64, n), V: make([]float64, n)}
}

// Len returns the number of grid points. It panics if U and V disagree.
func (s State) Len() int {
	mustMatch(len(s.U), len(s.V))
	return len(s.U)
}

func (s State) Clone() State {
	c := State{Time: s.Time, U: make([]float64, len(s.U)), V: make([]float64, len(s.V))}
	copy(c.U, s.U)
	copy(c.V, s.V)
	return c
}

func (s State) IsValid() bool {
	for _, x := range s.U {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	for _, x := range s.V {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Advance returns s + h*r with the clock moved forward by h. Neither s nor r
// is modified.
func (s State) Advance(h float64, r Rate) State {
	return State{
		Time: s.Time + h,
		U:    Combine(s.U, h, r.U),
		V:    Combine(s.V, h, r.V),
	}
}

// MaxDiff returns the largest absolute pointwise difference between the
// fields of s and o.
func (s State) MaxDiff(o State) float64 {
	mustMatch(len(s.U), len(o.U))
	mustMatch(len(s.V), len(o.V))
	return math.Max(floats.Distance(s.U, o.U, math.Inf(1)), floats.Distance(s.V, o.V, math.Inf(1)))
}

// Combine returns a new slice r with r[i] = a[i] + scale*b[i].
// Mismatched lengths are an invariant violation and panic.
func Combine(a []float64, scale float64, b []float64) []float64 {
	mustMatch(len(a), len(b))
	return floats.AddScaledTo(make([]float64, len(a)), a, scale, b)
}

func mustMatch(n, m int) {
	if n != m {
		panic(fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, n, m))
	}
}

// System is a semi-discrete PDE: it maps a State to its rate of change.
type System interface {
	Derive(s State) Rate
	Points() int
}

// Hamiltonian systems expose a conserved (or nearly conserved) energy.
type Hamiltonian interface {
	Energy(s State) float64
}

// Integrator advances a State by one fixed step dt.
type Integrator interface {
	Step(sys System, s State, dt float64) State
}

// Observer receives every reported State with its iteration number. The
// State is lent read-only; observers that keep it must Clone it.
type Observer interface {
	OnStep(iter int, s State) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(iter int, s State) error

func (f ObserverFunc) OnStep(iter int, s State) error { return f(iter, s) }

type Metric interface {
	Name() string
	Observe(iter int, s State)
	Value() float64
	Reset()
}

type Config struct {
	Dt            float64
	Iterations    int
	OutputEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 40.0,
		Iterations:    40,
		OutputEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Initial     State
	Final       State
	StepsTaken  int
	Metrics     map[string]float64
	EnergyDrift float64
}
