// Package sim drives a World through time with a chosen integrator. It is
// the single owning driver the core is designed for: one integrator call
// per tick, metrics and observers reading between completed steps.
package sim

import "github.com/san-kum/orbitsim/internal/world"

// Metric accumulates a scalar over a run, observed between completed steps.
type Metric interface {
	Name() string
	Observe(w *world.World, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every successful step. The render layer hooks
// in here; it must only read.
type Observer interface {
	OnStep(w *world.World, t float64)
}

// Config controls a single run.
type Config struct {
	// Dt is the step size, or the initial trial size for adaptive runs.
	Dt float64
	// Duration is the simulated time span to cover, starting at the
	// world's current Time.
	Duration float64
	// Adaptive selects the adaptive path; the stepper must implement
	// integrators.AdaptiveStepper.
	Adaptive bool
	// Tolerance is the adaptive error tolerance.
	Tolerance float64
	// MinDt aborts an adaptive run whose proposed step collapses below it.
	MinDt float64
	// Softening is used to prime accelerations before the first step.
	Softening float64
}

func DefaultConfig() Config {
	return Config{
		Dt:        1.0,
		Duration:  100.0,
		Tolerance: 1e-9,
		MinDt:     1e-12,
	}
}

// Result summarizes a run.
type Result struct {
	// Times and Energies sample the clock and total energy after every
	// successful step, starting with the initial state.
	Times    []float64
	Energies []float64

	// StepsTaken counts successful steps; Accepted and Rejected split
	// adaptive trials.
	StepsTaken int
	Accepted   int
	Rejected   int

	// EnergyDrift is the final relative energy deviation.
	EnergyDrift float64

	Metrics map[string]float64
}
