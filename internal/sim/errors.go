package sim

import "errors"

var (
	// ErrStepTooSmall indicates the adaptive step collapsed below
	// Config.MinDt without an accepted trial.
	ErrStepTooSmall = errors.New("sim: adaptive timestep below minimum")
)
