package dynamo

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
	logger     *zap.Logger
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     zap.NewNop(),
	}
}

// WithLogger sets the logger used for run lifecycle messages.
func (s *Simulator) WithLogger(l *zap.Logger) *Simulator {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances x0 by cfg.Iterations steps. Metrics see every iteration;
// observers see iteration 0, every cfg.OutputEvery-th iteration and the last.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Initial: x0,
		Final:   x0,
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info("run started",
		zap.Int("points", x0.Len()),
		zap.Float64("dt", cfg.Dt),
		zap.Int("iterations", cfg.Iterations),
	)

	initialEnergy := s.computeEnergy(x0)

	x := x0
	s.observe(0, x)
	if err := s.report(0, x); err != nil {
		return result, err
	}

	for i := 1; i <= cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			s.logger.Warn("run canceled", zap.Int("iteration", i-1))
			return result, ctx.Err()
		default:
		}

		next := s.integrator.Step(s.sys, x, cfg.Dt)

		if cfg.ValidateState && !next.IsValid() {
			return result, &SimulationError{Step: i, Time: next.Time, Wrapped: ErrInvalidState}
		}

		x = next
		result.Final = x
		result.StepsTaken++

		s.observe(i, x)
		if shouldReport(i, cfg.Iterations, cfg.OutputEvery) {
			if err := s.report(i, x); err != nil {
				return result, err
			}
		}
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("time", x.Time),
		zap.Float64("energy_drift", result.EnergyDrift),
	)

	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidConfig, cfg.Iterations)
	}
	if n := x0.Len(); n != s.sys.Points() {
		return fmt.Errorf("%w: state has %d points, system expects %d", ErrDimensionMismatch, n, s.sys.Points())
	}
	return nil
}

func (s *Simulator) observe(iter int, x State) {
	for _, m := range s.metrics {
		m.Observe(iter, x)
	}
}

func (s *Simulator) report(iter int, x State) error {
	for _, obs := range s.observers {
		if err := obs.OnStep(iter, x); err != nil {
			return &SimulationError{Step: iter, Time: x.Time, Wrapped: err}
		}
	}
	return nil
}

func (s *Simulator) computeEnergy(x State) float64 {
	if h, ok := s.sys.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

func shouldReport(iter, last, every int) bool {
	if iter == 0 || iter == last {
		return true
	}
	return every > 0 && iter%every == 0
}
