package integrators

import (
	"math"

	"github.com/san-kum/orbitsim/internal/constants"
	"github.com/san-kum/orbitsim/internal/world"
)

// circularPair builds a heavy central body with a light satellite on a
// circular orbit of radius r, and returns the world together with the
// orbital period.
func circularPair() (*world.World, float64) {
	const (
		central = 1e15
		r       = 1e6
	)
	mu := constants.G * central
	v := math.Sqrt(mu / r)
	period := 2 * math.Pi * math.Sqrt(r*r*r/mu)

	w := world.New()
	w.AddBody(world.Vec3{}, world.Vec3{}, central)
	w.AddBody(world.Vec3{X: r}, world.Vec3{Y: v}, 1.0)
	return w, period
}

// eccentricPair starts the satellite at apoapsis with 0.6x circular speed,
// giving eccentricity 0.64. Returns the world, the semi-major axis, and
// the orbital period.
func eccentricPair() (*world.World, float64, float64) {
	const (
		central = 1e15
		r       = 1e6
	)
	mu := constants.G * central
	v := 0.6 * math.Sqrt(mu/r)

	// Vis-viva: specific energy -0.82 mu/r gives a = r/1.64.
	a := r / 1.64
	period := 2 * math.Pi * math.Sqrt(a*a*a/mu)

	w := world.New()
	w.AddBody(world.Vec3{}, world.Vec3{}, central)
	w.AddBody(world.Vec3{X: r}, world.Vec3{Y: v}, 1.0)
	return w, a, period
}

func satelliteRadius(w *world.World) float64 {
	return w.Position(1).Sub(w.Position(0)).Magnitude()
}

func relDrift(e, e0 float64) float64 {
	return math.Abs(e-e0) / math.Abs(e0)
}
