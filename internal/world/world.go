package world

import (
	"fmt"
	"math"
)

// World owns the per-body arrays and the simulation clock. Bodies are
// append-only: indices are assigned in creation order and never reused.
//
// Time is exported so tests and drivers can set it directly; by convention
// only integrators advance it, and only on a successful step.
type World struct {
	px, py, pz []float64
	vx, vy, vz []float64
	ax, ay, az []float64
	mass       []float64

	// Time is the simulation clock in seconds.
	Time float64
}

// New returns an empty container with count 0 and time 0.
func New() *World {
	return &World{}
}

// Reserve grows capacity to at least n bodies so that subsequent AddBody
// calls up to n do not reallocate. Reserving invalidates existing views the
// same way a growing AddBody does.
func (w *World) Reserve(n int) {
	if n <= cap(w.mass) {
		return
	}
	w.px = grow(w.px, n)
	w.py = grow(w.py, n)
	w.pz = grow(w.pz, n)
	w.vx = grow(w.vx, n)
	w.vy = grow(w.vy, n)
	w.vz = grow(w.vz, n)
	w.ax = grow(w.ax, n)
	w.ay = grow(w.ay, n)
	w.az = grow(w.az, n)
	w.mass = grow(w.mass, n)
}

func grow(s []float64, n int) []float64 {
	out := make([]float64, len(s), n)
	copy(out, s)
	return out
}

// AddBody appends a body and returns its index, equal to the count before
// the call. Mass must be finite and positive; anything else fails with
// ErrInvalidBody. Acceleration starts at zero and is stale until a gravity
// evaluation targets it.
func (w *World) AddBody(pos, vel Vec3, mass float64) (int, error) {
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass <= 0 {
		return -1, fmt.Errorf("%w: mass %v", ErrInvalidBody, mass)
	}
	idx := len(w.mass)
	w.px = append(w.px, pos.X)
	w.py = append(w.py, pos.Y)
	w.pz = append(w.pz, pos.Z)
	w.vx = append(w.vx, vel.X)
	w.vy = append(w.vy, vel.Y)
	w.vz = append(w.vz, vel.Z)
	w.ax = append(w.ax, 0)
	w.ay = append(w.ay, 0)
	w.az = append(w.az, 0)
	w.mass = append(w.mass, mass)
	return idx, nil
}

// Count reports the number of live bodies.
func (w *World) Count() int { return len(w.mass) }

// Clear removes all bodies while keeping the allocated storage and the
// current Time. Use Reset to also rewind the clock.
func (w *World) Clear() {
	w.px = w.px[:0]
	w.py = w.py[:0]
	w.pz = w.pz[:0]
	w.vx = w.vx[:0]
	w.vy = w.vy[:0]
	w.vz = w.vz[:0]
	w.ax = w.ax[:0]
	w.ay = w.ay[:0]
	w.az = w.az[:0]
	w.mass = w.mass[:0]
}

// Reset clears all bodies and sets Time back to zero.
func (w *World) Reset() {
	w.Clear()
	w.Time = 0
}

// Position and velocity component views. Each returned slice shares storage
// with the container: writes through it are visible to subsequent internal
// reads, and a growing AddBody detaches it (see package doc).

func (w *World) PX() []float64 { return w.px }
func (w *World) PY() []float64 { return w.py }
func (w *World) PZ() []float64 { return w.pz }

func (w *World) VX() []float64 { return w.vx }
func (w *World) VY() []float64 { return w.vy }
func (w *World) VZ() []float64 { return w.vz }

// Acceleration views. Valid only after a gravity evaluation targeted them.

func (w *World) AX() []float64 { return w.ax }
func (w *World) AY() []float64 { return w.ay }
func (w *World) AZ() []float64 { return w.az }

// Mass returns the mass view. The core never mutates masses after AddBody.
func (w *World) Mass() []float64 { return w.mass }

// Position returns body i's position as a value. Convenience for callers
// that do not need the raw views.
func (w *World) Position(i int) Vec3 {
	return Vec3{w.px[i], w.py[i], w.pz[i]}
}

// Velocity returns body i's velocity as a value.
func (w *World) Velocity(i int) Vec3 {
	return Vec3{w.vx[i], w.vy[i], w.vz[i]}
}
