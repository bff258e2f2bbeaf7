package tval3

import "errors"

// Sentinel errors for the solver. Callers match them with errors.Is; the
// solver itself never writes to stdout or stderr.
var (
	// ErrInvalidShape is returned when the projection matrix, measurement
	// vector and side length do not describe a consistent problem.
	ErrInvalidShape = errors.New("tval3: invalid problem shape")

	// ErrNumericalFailure is returned when a non-finite value appears in an
	// iterate or a step length. No recovery is attempted.
	ErrNumericalFailure = errors.New("tval3: non-finite value encountered")
)
