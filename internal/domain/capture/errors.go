package capture

import "errors"

var (
	// ErrCaptureNotFound indicates the capture doesn't exist.
	ErrCaptureNotFound = errors.New("capture not found")
	// ErrInvalidInput indicates invalid capture input.
	ErrInvalidInput = errors.New("invalid capture input")
)
