package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/diag"
	"github.com/san-kum/orbitsim/internal/gravity"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/world"
)

// Runner owns a World and a stepper for the length of a run.
type Runner struct {
	world     *world.World
	stepper   integrators.Stepper
	metrics   []Metric
	observers []Observer
}

func New(w *world.World, stepper integrators.Stepper) *Runner {
	return &Runner{
		world:   w,
		stepper: stepper,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// World returns the container the runner drives.
func (r *Runner) World() *world.World { return r.world }

// Run advances the world by cfg.Duration. Fixed steppers take
// Duration/Dt equal steps; adaptive runs retry rejected trials with the
// proposed size and stop with ErrStepTooSmall if it collapses below
// cfg.MinDt. Cancellation is checked between steps only.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	// Fresh accelerations for the starting positions. Leapfrog requires
	// this; for the RK steppers it is redundant but harmless.
	gravity.Compute(r.world, cfg.Softening)

	result := &Result{Metrics: make(map[string]float64)}
	r.record(result)
	r.observe(result)

	var err error
	if cfg.Adaptive {
		err = r.runAdaptive(ctx, cfg, result)
	} else {
		err = r.runFixed(ctx, cfg, result)
	}

	if n := len(result.Energies); n > 1 && result.Energies[0] != 0 {
		result.EnergyDrift = math.Abs(result.Energies[n-1]-result.Energies[0]) / math.Abs(result.Energies[0])
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

func (r *Runner) runFixed(ctx context.Context, cfg Config, result *Result) error {
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.stepper.Step(r.world, cfg.Dt)
		result.StepsTaken++
		r.record(result)
		r.observe(result)
	}
	return nil
}

func (r *Runner) runAdaptive(ctx context.Context, cfg Config, result *Result) error {
	adaptive, ok := r.stepper.(integrators.AdaptiveStepper)
	if !ok {
		return fmt.Errorf("sim: stepper %T does not support adaptive stepping", r.stepper)
	}

	end := r.world.Time + cfg.Duration
	dt := cfg.Dt
	for end-r.world.Time > 1e-9*cfg.Dt {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if remaining := end - r.world.Time; dt > remaining {
			dt = remaining
		}

		res := adaptive.StepAdaptive(r.world, dt, cfg.Tolerance)
		if res.DtUsed == 0 {
			result.Rejected++
			if res.DtNext < cfg.MinDt {
				return ErrStepTooSmall
			}
		} else {
			result.Accepted++
			result.StepsTaken++
			r.record(result)
			r.observe(result)
		}
		dt = res.DtNext
	}
	return nil
}

func (r *Runner) record(result *Result) {
	result.Times = append(result.Times, r.world.Time)
	result.Energies = append(result.Energies, diag.TotalEnergy(r.world))
}

func (r *Runner) observe(result *Result) {
	for _, m := range r.metrics {
		m.Observe(r.world, r.world.Time)
	}
	for _, o := range r.observers {
		o.OnStep(r.world, r.world.Time)
	}
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("sim: duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("sim: tolerance must be positive for adaptive stepping")
	}
	return nil
}
