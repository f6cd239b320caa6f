package scoring

import "errors"

// Sentinel kinds for input parsing.
var (
	ErrMalformedValue = errors.New("malformed numeric value")
	ErrUnknownPolicy  = errors.New("unknown coercion policy")
)
