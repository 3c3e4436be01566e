package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/diag"
	"github.com/san-kum/orbitsim/internal/gravity"
)

func TestLeapfrogEnergyBounded(t *testing.T) {
	w, period := circularPair()
	e0 := diag.TotalEnergy(w)

	stp := NewLeapfrog()
	stp.Prime(w)

	const (
		orbits        = 20
		stepsPerOrbit = 200
	)
	dt := period / stepsPerOrbit
	total := orbits * stepsPerOrbit

	drifts := make([]float64, total)
	for i := 0; i < total; i++ {
		stp.Step(w, dt)
		drifts[i] = relDrift(diag.TotalEnergy(w), e0)
	}

	maxDrift := 0.0
	for _, d := range drifts {
		maxDrift = math.Max(maxDrift, d)
	}
	if maxDrift > 0.01 {
		t.Errorf("energy drift %g over %d orbits, want < 1%%", maxDrift, orbits)
	}

	// The error oscillates with the orbit; its envelope must not grow.
	quarter := total / 4
	first, last := 0.0, 0.0
	for _, d := range drifts[:quarter] {
		first = math.Max(first, d)
	}
	for _, d := range drifts[total-quarter:] {
		last = math.Max(last, d)
	}
	if first == 0 {
		t.Fatal("degenerate run: zero drift in first quarter")
	}
	if last > 10*first {
		t.Errorf("drift envelope grew from %g to %g", first, last)
	}
}

func TestLeapfrogLeavesAccelerationFresh(t *testing.T) {
	w, period := circularPair()

	stp := NewLeapfrog()
	stp.Prime(w)
	stp.Step(w, period/500)

	ax := append([]float64(nil), w.AX()...)
	ay := append([]float64(nil), w.AY()...)
	az := append([]float64(nil), w.AZ()...)

	// Recomputing for the same positions must reproduce the stored values
	// bit for bit.
	gravity.Compute(w, stp.Softening)
	for i := 0; i < w.Count(); i++ {
		if ax[i] != w.AX()[i] || ay[i] != w.AY()[i] || az[i] != w.AZ()[i] {
			t.Fatalf("stale acceleration for body %d after Step", i)
		}
	}
}

func TestLeapfrogPrimeSetsAcceleration(t *testing.T) {
	w, _ := circularPair()
	if w.AX()[1] != 0 {
		t.Fatal("fresh world should start with zero acceleration")
	}

	NewLeapfrog().Prime(w)

	if w.AX()[1] == 0 {
		t.Error("Prime did not populate accelerations")
	}
}

func TestLeapfrogOrbitClosure(t *testing.T) {
	w, period := circularPair()
	start := w.Position(1)

	stp := NewLeapfrog()
	stp.Prime(w)
	steps := 1000
	dt := period / float64(steps)
	for i := 0; i < steps; i++ {
		stp.Step(w, dt)
	}

	miss := w.Position(1).Sub(start).Magnitude()
	if miss > 0.01*start.Magnitude() {
		t.Errorf("orbit failed to close: miss %g m", miss)
	}
	if math.Abs(w.Time-period) > 1e-9*period {
		t.Errorf("time %g, want %g", w.Time, period)
	}
}

func TestRK4LongRunDriftStaysModest(t *testing.T) {
	// Same scenario and step count as the leapfrog boundedness test.
	// RK4 drifts secularly but at this resolution stays well under 10%.
	w, period := circularPair()
	e0 := diag.TotalEnergy(w)

	stp := NewRK4()
	dt := period / 200
	for i := 0; i < 20*200; i++ {
		stp.Step(w, dt)
	}

	if drift := relDrift(diag.TotalEnergy(w), e0); drift > 0.1 {
		t.Errorf("energy drift %g over 20 orbits", drift)
	}
}
