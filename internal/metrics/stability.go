package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/world"
)

// Stability reports the fraction of observed steps with fully finite body
// state. Degenerate geometry at zero softening propagates NaN/Inf silently,
// so this is the cheap way to notice a blown-up run after the fact.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(w *world.World, t float64) {
	s.samples++
	if !finite(w.PX()) || !finite(w.PY()) || !finite(w.PZ()) ||
		!finite(w.VX()) || !finite(w.VY()) || !finite(w.VZ()) {
		s.violations++
	}
}

func finite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
