// Package viz renders orbits in the terminal.
//
//   - [Canvas]: braille-dot drawing surface (2x4 sub-pixels per cell)
//   - [Model]: bubbletea live view driving one simulation per session
//
// The live view is the render-layer collaborator of the simulation core:
// it reads body positions through the container's zero-copy views once per
// frame and mutates nothing except through its own integrator calls.
package viz
