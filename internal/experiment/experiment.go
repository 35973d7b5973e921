package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/wavetoy/internal/config"
	"github.com/san-kum/wavetoy/internal/dynamo"
	"github.com/san-kum/wavetoy/internal/physics"
)

// Experiment is one configured wave run: grid, initial profile and scheme.
type Experiment struct {
	cfg        config.Config
	registry   *Registry
	wave       *physics.Wave
	integrator dynamo.Integrator
	initial    dynamo.State
	logger     *zap.Logger
}

func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	wave, err := physics.NewWave(cfg.Points)
	if err != nil {
		return nil, err
	}

	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}

	profile, err := reg.GetProfile(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}

	return &Experiment{
		cfg:        *cfg,
		registry:   reg,
		wave:       wave,
		integrator: integ,
		initial:    profile.State(wave, cfg.T0),
		logger:     zap.NewNop(),
	}, nil
}

func (e *Experiment) WithLogger(l *zap.Logger) *Experiment {
	if l != nil {
		e.logger = l
	}
	return e
}

func (e *Experiment) Config() config.Config         { return e.cfg }
func (e *Experiment) Wave() *physics.Wave           { return e.wave }
func (e *Experiment) Integrator() dynamo.Integrator { return e.integrator }

// Initial returns a copy of the initial state.
func (e *Experiment) Initial() dynamo.State { return e.initial.Clone() }

// Simulator builds a fresh simulator carrying the default metrics.
func (e *Experiment) Simulator() *dynamo.Simulator {
	s := dynamo.New(e.wave, e.integrator).WithLogger(e.logger)
	for _, m := range e.registry.DefaultMetrics(e.wave) {
		s.AddMetric(m)
	}
	return s
}

func (e *Experiment) Run(ctx context.Context, observers ...dynamo.Observer) (*dynamo.Result, error) {
	s := e.Simulator()
	for _, o := range observers {
		s.AddObserver(o)
	}
	return s.Run(ctx, e.Initial(), e.cfg.Sim())
}
