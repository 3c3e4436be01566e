package sim

import (
	"context"
	"sync"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/world"
)

// Sweep runs the same scenario across several step sizes in parallel for
// convergence studies. The core is single-threaded, so every run gets its
// own freshly built World and stepper; nothing is shared between
// goroutines.
type Sweep struct {
	build      func() (*world.World, error)
	newStepper func() integrators.Stepper
}

func NewSweep(build func() (*world.World, error), newStepper func() integrators.Stepper) *Sweep {
	return &Sweep{build: build, newStepper: newStepper}
}

// Run executes one run per entry in dts, with cfg.Dt overridden per run.
// Results are indexed like dts. The first build or run error wins.
func (s *Sweep) Run(ctx context.Context, cfg Config, dts []float64) ([]*Result, error) {
	results := make([]*Result, len(dts))
	errs := make([]error, len(dts))

	var wg sync.WaitGroup
	for i, dt := range dts {
		wg.Add(1)
		go func(idx int, dt float64) {
			defer wg.Done()

			w, err := s.build()
			if err != nil {
				errs[idx] = err
				return
			}

			cfgCopy := cfg
			cfgCopy.Dt = dt

			runner := New(w, s.newStepper())
			results[idx], errs[idx] = runner.Run(ctx, cfgCopy)
		}(i, dt)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
