// Package diag provides read-only physical diagnostics over a World
// snapshot. All functions are pure reducers; call them between completed
// integrator steps.
package diag

import (
	"math"

	"github.com/san-kum/orbitsim/internal/constants"
	"github.com/san-kum/orbitsim/internal/world"
)

// KineticEnergy returns Σ ½ m v² [J].
func KineticEnergy(w *world.World) float64 {
	vx, vy, vz := w.VX(), w.VY(), w.VZ()
	mass := w.Mass()

	ke := 0.0
	for i := range mass {
		v2 := vx[i]*vx[i] + vy[i]*vy[i] + vz[i]*vz[i]
		ke += 0.5 * mass[i] * v2
	}
	return ke
}

// PotentialEnergy returns Σ_{i<j} -G m_i m_j / d [J], each unordered pair
// counted once, unsoftened.
func PotentialEnergy(w *world.World) float64 {
	px, py, pz := w.PX(), w.PY(), w.PZ()
	mass := w.Mass()
	n := len(mass)

	pe := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := px[j] - px[i]
			dy := py[j] - py[i]
			dz := pz[j] - pz[i]
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			pe -= constants.G * mass[i] * mass[j] / d
		}
	}
	return pe
}

// TotalEnergy is the sum of kinetic and potential energy. It is defined as
// the sum so the decomposition identity holds exactly.
func TotalEnergy(w *world.World) float64 {
	return KineticEnergy(w) + PotentialEnergy(w)
}

// AngularMomentum returns Σ m (r × v) about the origin [kg·m²/s].
func AngularMomentum(w *world.World) world.Vec3 {
	px, py, pz := w.PX(), w.PY(), w.PZ()
	vx, vy, vz := w.VX(), w.VY(), w.VZ()
	mass := w.Mass()

	var l world.Vec3
	for i := range mass {
		l.X += mass[i] * (py[i]*vz[i] - pz[i]*vy[i])
		l.Y += mass[i] * (pz[i]*vx[i] - px[i]*vz[i])
		l.Z += mass[i] * (px[i]*vy[i] - py[i]*vx[i])
	}
	return l
}
