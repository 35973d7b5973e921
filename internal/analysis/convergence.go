package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/wavetoy/internal/dynamo"
)

// StepDoubling returns the max-norm difference between one step of size dt
// and two steps of size dt/2 from the same state. For a method of order p it
// shrinks like dt^(p+1).
func StepDoubling(sys dynamo.System, integ dynamo.Integrator, s dynamo.State, dt float64) float64 {
	full := integ.Step(sys, s, dt)
	half := integ.Step(sys, integ.Step(sys, s, dt/2), dt/2)
	return full.MaxDiff(half)
}

// Convergence is the outcome of a three-level self-convergence study.
type Convergence struct {
	Dt      float64
	Horizon float64
	// Coarse is |s(dt) - s(dt/2)|, Fine is |s(dt/2) - s(dt/4)|.
	Coarse float64
	Fine   float64
	Ratio  float64
	Order  float64
}

// SelfConvergence integrates s0 up to horizon with dt, dt/2 and dt/4 and
// estimates the observed order from the differences between levels. The
// horizon must be an integer multiple of dt. The three levels run
// concurrently; a level that blows up yields an error wrapping
// dynamo.ErrInvalidState.
func SelfConvergence(sys dynamo.System, integ dynamo.Integrator, s0 dynamo.State, horizon, dt float64) (Convergence, error) {
	if dt <= 0 || horizon <= 0 {
		return Convergence{}, fmt.Errorf("%w: dt and horizon must be positive", dynamo.ErrInvalidConfig)
	}
	steps := math.Round(horizon / dt)
	if steps < 1 || math.Abs(steps*dt-horizon) > 1e-9*horizon {
		return Convergence{}, fmt.Errorf("%w: horizon %g is not a multiple of dt %g", dynamo.ErrInvalidConfig, horizon, dt)
	}

	cfgs := make([]dynamo.Config, 3)
	for l := range cfgs {
		factor := 1 << l
		cfgs[l] = dynamo.Config{
			Dt:            dt / float64(factor),
			Iterations:    int(steps) * factor,
			ValidateState: true,
		}
	}

	results, err := dynamo.NewEnsemble(dynamo.New(sys, integ)).Run(context.Background(), s0, cfgs)
	if err != nil {
		return Convergence{}, err
	}
	levels := make([]dynamo.State, len(results))
	for l, r := range results {
		levels[l] = r.Final
	}

	c := Convergence{
		Dt:      dt,
		Horizon: horizon,
		Coarse:  levels[0].MaxDiff(levels[1]),
		Fine:    levels[1].MaxDiff(levels[2]),
	}
	if c.Fine > 0 {
		c.Ratio = c.Coarse / c.Fine
		c.Order = math.Log2(c.Ratio)
	}
	return c, nil
}

