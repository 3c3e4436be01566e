package integrators

import (
	"github.com/san-kum/orbitsim/internal/gravity"
	"github.com/san-kum/orbitsim/internal/world"
)

// Leapfrog is the symplectic kick-drift-kick integrator. Its energy error
// oscillates but stays bounded over long integrations, unlike RK4's
// secular drift.
//
// Precondition: the container's acceleration arrays must reflect the
// current positions before the first Step. Call Prime (or gravity.Compute)
// once after building the scenario, and again after any out-of-band
// position edit. Step leaves acceleration fresh on exit.
type Leapfrog struct {
	// Softening is the gravity softening length for the mid-step
	// re-evaluation.
	Softening float64
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

// Prime computes accelerations for the current positions, satisfying the
// Step precondition.
func (l *Leapfrog) Prime(w *world.World) {
	gravity.Compute(w, l.Softening)
}

// Step advances w by exactly dt and adds dt to w.Time.
func (l *Leapfrog) Step(w *world.World, dt float64) {
	n := w.Count()
	px, py, pz := w.PX(), w.PY(), w.PZ()
	vx, vy, vz := w.VX(), w.VY(), w.VZ()
	ax, ay, az := w.AX(), w.AY(), w.AZ()

	half := 0.5 * dt
	for i := 0; i < n; i++ {
		vx[i] += half * ax[i]
		vy[i] += half * ay[i]
		vz[i] += half * az[i]
	}

	for i := 0; i < n; i++ {
		px[i] += dt * vx[i]
		py[i] += dt * vy[i]
		pz[i] += dt * vz[i]
	}

	gravity.Compute(w, l.Softening)

	for i := 0; i < n; i++ {
		vx[i] += half * ax[i]
		vy[i] += half * ay[i]
		vz[i] += half * az[i]
	}

	w.Time += dt
}
