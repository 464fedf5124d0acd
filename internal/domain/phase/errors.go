package phase

import "errors"

var (
	// ErrPhaseNotFound indicates the phase doesn't exist.
	ErrPhaseNotFound = errors.New("phase not found")
	// ErrInvalidInput indicates invalid phase input.
	ErrInvalidInput = errors.New("invalid phase input")
)
