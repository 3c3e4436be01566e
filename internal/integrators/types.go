package integrators

import (
	"github.com/san-kum/orbitsim/internal/gravity"
	"github.com/san-kum/orbitsim/internal/world"
)

// Stepper advances a World by one step of exactly dt. Implementations
// mutate positions, velocities, and Time in place and never fail for
// finite input; non-finite arithmetic propagates silently.
type Stepper interface {
	Step(w *world.World, dt float64)
}

// AdaptiveStepper runs trial steps that may be rejected. A rejected trial
// leaves the World untouched; callers must check StepResult.DtUsed before
// assuming time advanced.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(w *world.World, dt, tol float64) StepResult
}

// StepResult reports the outcome of an adaptive trial step.
type StepResult struct {
	// DtUsed is the committed step size, or 0 when the trial was rejected.
	DtUsed float64
	// DtNext is the suggested size for the next attempt, in both outcomes.
	DtNext float64
	// ErrorEstimate is the local error scaled by the tolerance; values
	// above 1 were rejected.
	ErrorEstimate float64
}

// state packs the six mutable component arrays of a World into one flat
// vector laid out as [px|py|pz|vx|vy|vz], each block of length n. Stage
// combinations then become single loops over 6n elements.
type state []float64

func (s state) positions(n int) (px, py, pz []float64) {
	return s[0:n], s[n : 2*n], s[2*n : 3*n]
}

func (s state) accelerations(n int) (avx, avy, avz []float64) {
	return s[3*n : 4*n], s[4*n : 5*n], s[5*n : 6*n]
}

// load copies the container's positions and velocities into s.
func load(s state, w *world.World) {
	n := w.Count()
	copy(s[0:n], w.PX())
	copy(s[n:2*n], w.PY())
	copy(s[2*n:3*n], w.PZ())
	copy(s[3*n:4*n], w.VX())
	copy(s[4*n:5*n], w.VY())
	copy(s[5*n:6*n], w.VZ())
}

// commit copies s back into the container's positions and velocities.
func commit(w *world.World, s state) {
	n := w.Count()
	copy(w.PX(), s[0:n])
	copy(w.PY(), s[n:2*n])
	copy(w.PZ(), s[2*n:3*n])
	copy(w.VX(), s[3*n:4*n])
	copy(w.VY(), s[4*n:5*n])
	copy(w.VZ(), s[5*n:6*n])
}

// derive evaluates the first-order system d(pos)/dt = vel,
// d(vel)/dt = gravity(pos) for an uncommitted trial state src into dst.
func derive(dst, src state, mass []float64, eps float64) {
	n := len(mass)
	// Position derivative is the trial velocity.
	copy(dst[:3*n], src[3*n:])
	px, py, pz := src.positions(n)
	ax, ay, az := dst.accelerations(n)
	gravity.Eval(px, py, pz, mass, ax, ay, az, eps)
}
