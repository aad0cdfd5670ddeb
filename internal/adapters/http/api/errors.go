package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrTooManySamples = errors.New("too many samples")
	ErrBodyTooLarge   = errors.New("request body too large")
)
