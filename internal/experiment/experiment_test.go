package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/wavetoy/internal/config"
	"github.com/san-kum/wavetoy/internal/dynamo"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	require.Equal(t, []string{"euler", "leapfrog", "midpoint", "rk4"}, reg.ListIntegrators())
	require.Equal(t, []string{"sine", "pluck"}, reg.ListProfiles())

	_, err := reg.GetIntegrator("verlet")
	require.Error(t, err)

	integ, err := reg.GetIntegrator("midpoint")
	require.NoError(t, err)
	require.NotNil(t, integ)
}

func TestNew_Invalid(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"too few points", func(c *config.Config) { c.Points = 1 }, dynamo.ErrGridTooSmall},
		{"bad courant", func(c *config.Config) { c.Courant = 0 }, dynamo.ErrInvalidConfig},
		{"unknown integrator", func(c *config.Config) { c.Integrator = "verlet" }, dynamo.ErrInvalidConfig},
		{"unknown profile", func(c *config.Config) { c.Profile = "gaussian" }, dynamo.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			_, err := New(cfg, reg)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRun_Reference(t *testing.T) {
	exp, err := New(config.GetPreset("reference"), NewRegistry())
	require.NoError(t, err)

	var iters []int
	obs := dynamo.ObserverFunc(func(iter int, s dynamo.State) error {
		iters = append(iters, iter)
		return nil
	})

	result, err := exp.Run(context.Background(), obs)
	require.NoError(t, err)

	require.Equal(t, 40, result.StepsTaken)
	require.InDelta(t, 1.0, result.Final.Time, 1e-12)
	require.Equal(t, []int{0, 40}, iters)

	require.Contains(t, result.Metrics, "energy_drift")
	require.Contains(t, result.Metrics, "boundary_drift")
	require.Contains(t, result.Metrics, "stability")
	require.Equal(t, 0.0, result.Metrics["boundary_drift"])
	require.Equal(t, 1.0, result.Metrics["stability"])

	last := len(result.Final.U) - 1
	require.Equal(t, result.Initial.U[0], result.Final.U[0])
	require.Equal(t, result.Initial.V[0], result.Final.V[0])
	require.Equal(t, result.Initial.U[last], result.Final.U[last])
	require.Equal(t, result.Initial.V[last], result.Final.V[last])
}

func TestRun_RepeatableAndIsolated(t *testing.T) {
	exp, err := New(config.DefaultConfig(), NewRegistry())
	require.NoError(t, err)

	a, err := exp.Run(context.Background())
	require.NoError(t, err)
	b, err := exp.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, a.Final, b.Final)
	require.Equal(t, exp.Initial(), a.Initial)
}
