package reflection

import "errors"

// ErrInvalidInput indicates invalid decision or insight input.
var ErrInvalidInput = errors.New("invalid reflection input")
