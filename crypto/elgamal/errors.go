package elgamal

import "errors"

// ErrInvalidParams is returned when the group parameters fail validation.
var ErrInvalidParams = errors.New("invalid group parameters")
