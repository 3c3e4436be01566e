// Package world provides the mutable state container for N-body simulations.
//
// A [World] stores bodies in structure-of-arrays form: one flat []float64
// per component for position, velocity, acceleration, and mass. Flat arrays
// keep the O(N²) force kernel cache-friendly and let the render layer read
// coordinates without copying.
//
//   - [World]: append-only body store plus the simulation clock
//   - [Vec3]: fixed three-component value type for positions and velocities
//
// # View invalidation
//
// The accessor methods (PX, VX, Mass, ...) return slices that share storage
// with the container. Any AddBody call that grows past the current capacity
// reallocates the arrays and detaches previously obtained views. Callers that
// hold views across AddBody must either re-fetch them afterwards or call
// Reserve up front so no growth occurs.
//
// # Thread Safety
//
// World is NOT safe for concurrent mutation. It is designed for a single
// owning driver goroutine; a renderer on another goroutine must synchronize
// externally, for example by double-buffering a snapshot.
package world
