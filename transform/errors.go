package transform

import "errors"

var (
	// ErrInvalidTransform indicates a malformed transform or builder input.
	ErrInvalidTransform = errors.New("transform: invalid transform")
	// ErrUnbounded indicates an operation that needs a bounded domain.
	ErrUnbounded = errors.New("transform: unbounded domain")
	// ErrOutOfDomain indicates a point outside the transform's input domain.
	ErrOutOfDomain = errors.New("transform: point outside input domain")
)
