package integrators

import "github.com/san-kum/orbitsim/internal/world"

// RK4 is the classical fixed-step 4th-order Runge-Kutta integrator. It
// always succeeds and never rejects a step. The container's stored
// acceleration is not guaranteed fresh after a step; callers switching to
// Leapfrog must run gravity.Compute first.
type RK4 struct {
	// Softening is the gravity softening length passed to every stage
	// evaluation. Zero means the exact inverse-square law.
	Softening float64

	y0, k1, k2, k3, k4 state
	scratch            state
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.y0) != 6*n {
		r.y0 = make(state, 6*n)
		r.k1 = make(state, 6*n)
		r.k2 = make(state, 6*n)
		r.k3 = make(state, 6*n)
		r.k4 = make(state, 6*n)
		r.scratch = make(state, 6*n)
	}
}

// Step advances w by exactly dt and adds dt to w.Time.
func (r *RK4) Step(w *world.World, dt float64) {
	n := w.Count()
	m := 6 * n
	r.ensureScratch(n)
	mass := w.Mass()

	load(r.y0, w)
	derive(r.k1, r.y0, mass, r.Softening)

	for i := 0; i < m; i++ {
		r.scratch[i] = r.y0[i] + dt*0.5*r.k1[i]
	}
	derive(r.k2, r.scratch, mass, r.Softening)

	for i := 0; i < m; i++ {
		r.scratch[i] = r.y0[i] + dt*0.5*r.k2[i]
	}
	derive(r.k3, r.scratch, mass, r.Softening)

	for i := 0; i < m; i++ {
		r.scratch[i] = r.y0[i] + dt*r.k3[i]
	}
	derive(r.k4, r.scratch, mass, r.Softening)

	dt6 := dt / 6.0
	for i := 0; i < m; i++ {
		r.scratch[i] = r.y0[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	commit(w, r.scratch)
	w.Time += dt
}
