package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrMilestoneNotFound indicates the milestone doesn't exist on the project.
	ErrMilestoneNotFound = errors.New("milestone not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrCapacityExceeded indicates all focus slots are taken. The toggle path
	// rejects silently instead of returning this; it exists for pre-checks.
	ErrCapacityExceeded = errors.New("focus slots full")
)
