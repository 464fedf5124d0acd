package activity

import "errors"

// ErrInvalidInput indicates a malformed log entry.
var ErrInvalidInput = errors.New("invalid activity input")
