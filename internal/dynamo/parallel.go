package dynamo

import (
	"context"
	"sync"
)

// Ensemble runs one system and integrator under several configurations
// concurrently. Each run gets its own Simulator without metrics or
// observers, so the system and integrator must be safe for concurrent use.
type Ensemble struct {
	base *Simulator
}

func NewEnsemble(s *Simulator) *Ensemble {
	return &Ensemble{base: s}
}

// Run returns one result per config, in config order. The first error in
// config order is returned along with the partial results.
func (e *Ensemble) Run(ctx context.Context, x0 State, cfgs []Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s := New(e.base.sys, e.base.integrator).WithLogger(e.base.logger)
			results[idx], errs[idx] = s.Run(ctx, x0, cfgs[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
