package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/wavetoy/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Wave is the 1D wave equation u_tt = u_xx on [0,1], discretized with a
// centered second difference on n equally spaced points. Both end points are
// frozen: their rate of change is always zero.
type Wave struct {
	n  int
	dx float64
}

func NewWave(n int) (*Wave, error) {
	if n < 2 {
		return nil, fmt.Errorf("wave with %d points: %w", n, dynamo.ErrGridTooSmall)
	}
	return &Wave{n: n, dx: 1.0 / float64(n-1)}, nil
}

func (w *Wave) Points() int { return w.n }
func (w *Wave) Dx() float64 { return w.dx }

// Grid returns the abscissae x_i = i/(n-1).
func (w *Wave) Grid() []float64 {
	return floats.Span(make([]float64, w.n), 0, 1)
}

// Derive evaluates the right-hand side. Interior points get
// du/dt = v and dv/dt = (u[i+1] - 2u[i] + u[i-1]) / dx^2; the two boundary
// points get zero. The result is a rate, not a point in time.
func (w *Wave) Derive(s dynamo.State) dynamo.Rate {
	if n := s.Len(); n != w.n {
		panic(fmt.Errorf("%w: state has %d points, wave has %d", dynamo.ErrDimensionMismatch, n, w.n))
	}
	return derive(s, w.dx)
}

// Derivative is Derive for a wave whose grid is taken from s itself.
func Derivative(s dynamo.State) dynamo.Rate {
	n := s.Len()
	if n < 3 {
		return dynamo.NewRate(n)
	}
	return derive(s, 1.0/float64(n-1))
}

func derive(s dynamo.State, dx float64) dynamo.Rate {
	n := len(s.U)
	r := dynamo.NewRate(n)
	dx2 := dx * dx
	for i := 1; i < n-1; i++ {
		r.U[i] = s.V[i]
		r.V[i] = (s.U[i+1] - 2*s.U[i] + s.U[i-1]) / dx2
	}
	return r
}

// Initial returns the default sine profile at time t0.
func (w *Wave) Initial(t0 float64) dynamo.State {
	return Sine.State(w, t0)
}

// Energy is the discrete energy sum(v^2/2)dx + sum((du/dx)^2/2)dx.
// It is only approximately conserved by explicit schemes.
func (w *Wave) Energy(s dynamo.State) float64 {
	n := s.Len()
	if n != w.n {
		return 0
	}
	ke, pe := 0.0, 0.0
	for i := 0; i < n; i++ {
		ke += 0.5 * s.V[i] * s.V[i]
		if i < n-1 {
			dudx := (s.U[i+1] - s.U[i]) / w.dx
			pe += 0.5 * dudx * dudx
		}
	}
	return (ke + pe) * w.dx
}

// Initialize builds the sine profile u = sin(2πx), v = 2π cos(2πx) on n points.
func Initialize(t0 float64, n int) (dynamo.State, error) {
	w, err := NewWave(n)
	if err != nil {
		return dynamo.State{}, err
	}
	return w.Initial(t0), nil
}

// Profile is an analytic initial condition.
type Profile string

const (
	// Sine is u = sin(2πx), v = 2π cos(2πx).
	Sine Profile = "sine"
	// Pluck is a triangular displacement peaking at x = 1/2, at rest.
	Pluck Profile = "pluck"
)

func Profiles() []Profile { return []Profile{Sine, Pluck} }

func ParseProfile(name string) (Profile, error) {
	for _, p := range Profiles() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown profile: %s", name)
}

// State samples the profile on the wave's grid. It panics for a profile
// not listed by Profiles; use ParseProfile on untrusted names.
func (p Profile) State(w *Wave, t0 float64) dynamo.State {
	s := dynamo.NewState(t0, w.n)
	x := w.Grid()
	switch p {
	case Pluck:
		for i, xi := range x {
			s.U[i] = 0.5 * (1 - math.Abs(2*xi-1))
		}
	case Sine:
		k := 2 * math.Pi
		for i, xi := range x {
			s.U[i] = math.Sin(k * xi)
			s.V[i] = k * math.Cos(k*xi)
		}
	default:
		panic(fmt.Errorf("%w: unknown profile %q", dynamo.ErrInvalidConfig, string(p)))
	}
	return s
}
