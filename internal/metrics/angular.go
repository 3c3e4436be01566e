package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/diag"
	"github.com/san-kum/orbitsim/internal/world"
)

// AngularMomentumDrift tracks the maximum relative deviation of the total
// angular momentum vector from its value at the first observation.
type AngularMomentumDrift struct {
	name     string
	initial  world.Vec3
	initMag  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(w *world.World, t float64) {
	l := diag.AngularMomentum(w)

	if a.samples == 0 {
		a.initial = l
		a.initMag = l.Magnitude()
	}
	a.samples++

	if a.initMag != 0 {
		drift := l.Sub(a.initial).Magnitude() / a.initMag
		a.maxDrift = math.Max(a.maxDrift, drift)
	}
}

func (a *AngularMomentumDrift) Value() float64 {
	return a.maxDrift
}

func (a *AngularMomentumDrift) Reset() {
	a.initial = world.Vec3{}
	a.initMag = 0
	a.maxDrift = 0
	a.samples = 0
}
