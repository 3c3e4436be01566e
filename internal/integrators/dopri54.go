package integrators

import (
	"math"

	"github.com/san-kum/orbitsim/internal/world"
)

// Dormand-Prince 5(4) coefficients
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	// 5th-order solution weights.
	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	// 5th minus embedded 4th order, for the error estimate.
	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// DefaultTolerance is used when Dopri54 runs through the plain Stepper
// interface.
const DefaultTolerance = 1e-9

// Dopri54 is the adaptive Dormand-Prince 5(4) embedded Runge-Kutta pair:
// seven stage evaluations shared between a 5th-order solution and an
// embedded 4th-order error estimate. A trial step either commits the
// 5th-order state and advances Time, or leaves the World fully untouched.
type Dopri54 struct {
	// Softening is the gravity softening length for all stage evaluations.
	Softening float64

	safety   float64
	minScale float64
	maxScale float64

	y0, scratch                state
	k1, k2, k3, k4, k5, k6, k7 state
}

func NewDopri54() *Dopri54 {
	return &Dopri54{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5.0,
	}
}

func (d *Dopri54) ensureScratch(n int) {
	if len(d.y0) != 6*n {
		d.y0 = make(state, 6*n)
		d.scratch = make(state, 6*n)
		d.k1 = make(state, 6*n)
		d.k2 = make(state, 6*n)
		d.k3 = make(state, 6*n)
		d.k4 = make(state, 6*n)
		d.k5 = make(state, 6*n)
		d.k6 = make(state, 6*n)
		d.k7 = make(state, 6*n)
	}
}

// Step advances w with DefaultTolerance, retrying rejected trials with the
// proposed smaller size until one is accepted.
func (d *Dopri54) Step(w *world.World, dt float64) {
	for {
		res := d.StepAdaptive(w, dt, DefaultTolerance)
		if res.DtUsed > 0 {
			return
		}
		dt = res.DtNext
	}
}

// StepAdaptive runs a single trial step of size dt against tolerance tol.
// On acceptance (scaled error <= 1) the 5th-order state is committed and
// w.Time advances by dt. On rejection the World is untouched and DtUsed
// is 0; the caller retries with DtNext. DtNext growth is clamped to 5x and
// shrinkage to 0.2x per trial.
func (d *Dopri54) StepAdaptive(w *world.World, dt, tol float64) StepResult {
	n := w.Count()
	m := 6 * n
	d.ensureScratch(n)
	mass := w.Mass()
	eps := d.Softening

	load(d.y0, w)
	derive(d.k1, d.y0, mass, eps)

	for i := 0; i < m; i++ {
		d.scratch[i] = d.y0[i] + dt*b21*d.k1[i]
	}
	derive(d.k2, d.scratch, mass, eps)

	for i := 0; i < m; i++ {
		d.scratch[i] = d.y0[i] + dt*(b31*d.k1[i]+b32*d.k2[i])
	}
	derive(d.k3, d.scratch, mass, eps)

	for i := 0; i < m; i++ {
		d.scratch[i] = d.y0[i] + dt*(b41*d.k1[i]+b42*d.k2[i]+b43*d.k3[i])
	}
	derive(d.k4, d.scratch, mass, eps)

	for i := 0; i < m; i++ {
		d.scratch[i] = d.y0[i] + dt*(b51*d.k1[i]+b52*d.k2[i]+b53*d.k3[i]+b54*d.k4[i])
	}
	derive(d.k5, d.scratch, mass, eps)

	for i := 0; i < m; i++ {
		d.scratch[i] = d.y0[i] + dt*(b61*d.k1[i]+b62*d.k2[i]+b63*d.k3[i]+b64*d.k4[i]+b65*d.k5[i])
	}
	derive(d.k6, d.scratch, mass, eps)

	// Stage 7 is evaluated at the 5th-order solution (FSAL point).
	for i := 0; i < m; i++ {
		d.scratch[i] = d.y0[i] + dt*(c1*d.k1[i]+c3*d.k3[i]+c4*d.k4[i]+c5*d.k5[i]+c6*d.k6[i])
	}
	derive(d.k7, d.scratch, mass, eps)

	// Max-component norm of the 5th/4th difference, scaled by a combined
	// absolute/relative magnitude so tol acts on both regimes.
	errMax := 0.0
	for i := 0; i < m; i++ {
		errEst := dt * (dc1*d.k1[i] + dc3*d.k3[i] + dc4*d.k4[i] + dc5*d.k5[i] + dc6*d.k6[i] + dc7*d.k7[i])
		scale := math.Abs(d.y0[i]) + math.Abs(dt*d.k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}
	errRatio := errMax / tol

	var growth float64
	if errRatio > 0 {
		growth = d.safety * math.Pow(errRatio, -0.2)
		growth = math.Min(math.Max(growth, d.minScale), d.maxScale)
	} else {
		growth = d.maxScale
	}
	dtNext := dt * growth

	if errRatio > 1 {
		// Reject: the trial state lives only in scratch buffers, so the
		// container is already intact.
		return StepResult{DtUsed: 0, DtNext: dtNext, ErrorEstimate: errRatio}
	}

	commit(w, d.scratch)
	w.Time += dt
	return StepResult{DtUsed: dt, DtNext: dtNext, ErrorEstimate: errRatio}
}
