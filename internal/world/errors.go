package world

import "errors"

// Domain errors for container operations.
var (
	// ErrInvalidBody indicates an AddBody call with a non-finite or
	// non-positive mass.
	ErrInvalidBody = errors.New("world: invalid body (mass must be finite and positive)")
)
