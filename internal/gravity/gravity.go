// Package gravity evaluates pairwise Newtonian accelerations by direct
// O(N²) summation. N is small by design; there is no tree approximation.
package gravity

import (
	"math"

	"github.com/san-kum/orbitsim/internal/constants"
	"github.com/san-kum/orbitsim/internal/world"
)

// Compute writes accelerations for all bodies into the container's
// acceleration arrays. eps is the softening length; pass 0 for the exact
// inverse-square law.
//
// Two bodies at identical positions with eps == 0 produce NaN/Inf
// accelerations. That is not trapped: softening is the mitigation.
func Compute(w *world.World, eps float64) {
	Eval(w.PX(), w.PY(), w.PZ(), w.Mass(), w.AX(), w.AY(), w.AZ(), eps)
}

// Eval is the shared kernel. It computes accelerations for the given
// position and mass arrays into ax, ay, az, overwriting their contents.
// Integrators call it against trial stage states that are not committed
// to any container.
//
// For each body i:
//
//	a_i = G * Σ_{j≠i} m_j * û(i,j) / (d² + eps²)
//
// where d is the true separation and û the unit vector toward j. The eps²
// term damps the inverse-square singularity only; the direction always uses
// the true distance.
func Eval(px, py, pz, mass, ax, ay, az []float64, eps float64) {
	n := len(mass)
	eps2 := eps * eps

	for i := 0; i < n; i++ {
		ax[i], ay[i], az[i] = 0, 0, 0
	}

	// Half loop: each pair visited once, Newton's third law gives the
	// opposite contribution for free.
	for i := 0; i < n; i++ {
		pxi, pyi, pzi := px[i], py[i], pz[i]
		mi := mass[i]
		axi, ayi, azi := 0.0, 0.0, 0.0

		for j := i + 1; j < n; j++ {
			dx := px[j] - pxi
			dy := py[j] - pyi
			dz := pz[j] - pzi

			d2 := dx*dx + dy*dy + dz*dz
			d := math.Sqrt(d2)

			// G * (component/d) / (d² + eps²), mass applied per side.
			f := constants.G / (d * (d2 + eps2))
			fx := f * dx
			fy := f * dy
			fz := f * dz

			mj := mass[j]
			axi += fx * mj
			ayi += fy * mj
			azi += fz * mj

			ax[j] -= fx * mi
			ay[j] -= fy * mi
			az[j] -= fz * mi
		}

		ax[i] += axi
		ay[i] += ayi
		az[i] += azi
	}
}
