package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/wavetoy/internal/dynamo"
	"github.com/san-kum/wavetoy/internal/integrators"
	"github.com/san-kum/wavetoy/internal/metrics"
	"github.com/san-kum/wavetoy/internal/physics"
)

// StabilityThreshold bounds |u| for the default stability metric. The sine
// profile has amplitude 1, so anything beyond this is numerical blow-up.
const StabilityThreshold = 10.0

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["midpoint"] = func() dynamo.Integrator { return integrators.NewMidpoint() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetProfile(name string) (physics.Profile, error) {
	return physics.ParseProfile(name)
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListProfiles() []string {
	names := make([]string, 0)
	for _, p := range physics.Profiles() {
		names = append(names, string(p))
	}
	return names
}

func (r *Registry) DefaultMetrics(w *physics.Wave) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(w),
		metrics.NewBoundaryDrift(),
		metrics.NewStability(StabilityThreshold),
	}
}
