package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/diag"
	"github.com/san-kum/orbitsim/internal/world"
)

func snapshot(w *world.World) []float64 {
	n := w.Count()
	s := make([]float64, 0, 6*n)
	for _, v := range [][]float64{w.PX(), w.PY(), w.PZ(), w.VX(), w.VY(), w.VZ()} {
		s = append(s, v...)
	}
	return s
}

func TestDopri54RejectionLeavesWorldUntouched(t *testing.T) {
	w, period := circularPair()
	before := snapshot(w)
	t0 := w.Time

	stp := NewDopri54()
	res := stp.StepAdaptive(w, 10*period, 1e-12)

	if res.DtUsed != 0 {
		t.Fatalf("expected rejection for an absurd step, DtUsed %g", res.DtUsed)
	}
	if res.ErrorEstimate <= 1 {
		t.Errorf("rejected step must report scaled error > 1, got %g", res.ErrorEstimate)
	}
	if res.DtNext >= 10*period {
		t.Errorf("rejection must propose a smaller step, got %g", res.DtNext)
	}
	if w.Time != t0 {
		t.Errorf("rejection advanced time to %g", w.Time)
	}
	for i, v := range snapshot(w) {
		if v != before[i] {
			t.Fatalf("rejection mutated state at component %d: %g != %g", i, v, before[i])
		}
	}
}

func TestDopri54AcceptanceCommits(t *testing.T) {
	w, period := circularPair()
	before := snapshot(w)
	dt := period / 10000

	res := NewDopri54().StepAdaptive(w, dt, 1e-6)

	if res.DtUsed != dt {
		t.Fatalf("expected acceptance, DtUsed %g want %g", res.DtUsed, dt)
	}
	if res.ErrorEstimate > 1 {
		t.Errorf("accepted step reports scaled error %g > 1", res.ErrorEstimate)
	}
	if w.Time != dt {
		t.Errorf("time %g, want %g", w.Time, dt)
	}
	changed := false
	for i, v := range snapshot(w) {
		if v != before[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("accepted step left the state unchanged")
	}
}

func TestDopri54GrowthClamp(t *testing.T) {
	w, period := circularPair()

	// A microscopic step with a loose tolerance would suggest an enormous
	// growth factor; it must be capped at 5x.
	dt := period * 1e-9
	res := NewDopri54().StepAdaptive(w, dt, 1e-3)

	if res.DtUsed != dt {
		t.Fatalf("expected acceptance of microscopic step")
	}
	if res.DtNext > 5*dt*(1+1e-12) {
		t.Errorf("DtNext %g exceeds 5x clamp of %g", res.DtNext, 5*dt)
	}
}

func TestDopri54ShrinkClamp(t *testing.T) {
	w, period := circularPair()

	dt := 100 * period
	res := NewDopri54().StepAdaptive(w, dt, 1e-12)

	if res.DtUsed != 0 {
		t.Fatalf("expected rejection")
	}
	if res.DtNext < 0.2*dt*(1-1e-12) {
		t.Errorf("DtNext %g below 0.2x clamp of %g", res.DtNext, 0.2*dt)
	}
}

// runAdaptive drives an adaptive stepper over one interval and returns the
// accepted step count plus the (radius, dt) samples at each acceptance.
func runAdaptive(t *testing.T, w *world.World, end, tol float64) (int, []float64, []float64) {
	t.Helper()
	stp := NewDopri54()
	dt := end / 100
	accepted := 0
	var radii, dts []float64

	for iter := 0; w.Time < end; iter++ {
		if iter > 1_000_000 {
			t.Fatal("adaptive run failed to converge")
		}
		try := math.Min(dt, end-w.Time)
		r := satelliteRadius(w)
		res := stp.StepAdaptive(w, try, tol)
		if res.DtUsed > 0 {
			accepted++
			radii = append(radii, r)
			dts = append(dts, res.DtUsed)
		}
		dt = res.DtNext
	}
	return accepted, radii, dts
}

func TestDopri54StepsShrinkAtPeriapsis(t *testing.T) {
	w, a, period := eccentricPair()
	_, radii, dts := runAdaptive(t, w, period, 1e-9)

	// Split accepted steps by which side of the semi-major axis the
	// satellite was on. Near periapsis the dynamics are fast and the
	// controller should take smaller steps.
	var nearSum, farSum float64
	var nearN, farN int
	for i, r := range radii {
		if r < a {
			nearSum += dts[i]
			nearN++
		} else {
			farSum += dts[i]
			farN++
		}
	}
	if nearN == 0 || farN == 0 {
		t.Fatalf("orbit sampling degenerate: %d near, %d far", nearN, farN)
	}
	if nearSum/float64(nearN) >= farSum/float64(farN) {
		t.Errorf("mean dt near periapsis %g not smaller than near apoapsis %g",
			nearSum/float64(nearN), farSum/float64(farN))
	}
}

func TestDopri54ToleranceMonotonic(t *testing.T) {
	wLoose, _, period := eccentricPair()
	loose, _, _ := runAdaptive(t, wLoose, period, 1e-6)

	wTight, _, _ := eccentricPair()
	tight, _, _ := runAdaptive(t, wTight, period, 1e-9)

	if tight < loose {
		t.Errorf("tighter tolerance took %d steps, looser took %d", tight, loose)
	}
}

func TestDopri54EnergyOnEccentricOrbit(t *testing.T) {
	w, _, period := eccentricPair()
	e0 := diag.TotalEnergy(w)

	runAdaptive(t, w, period, 1e-9)

	if drift := relDrift(diag.TotalEnergy(w), e0); drift > 1e-6 {
		t.Errorf("energy drift %g over one eccentric orbit", drift)
	}
}

func TestDopri54FixedStepInterface(t *testing.T) {
	// Step retries internally until a trial is accepted, so it always
	// advances time by a positive amount.
	w, period := circularPair()

	var stp Stepper = NewDopri54()
	stp.Step(w, period/100)

	if w.Time <= 0 {
		t.Error("Step failed to advance time")
	}
	if w.Time > period/100*(1+1e-12) {
		t.Errorf("Step advanced past the requested size: %g", w.Time)
	}
}
