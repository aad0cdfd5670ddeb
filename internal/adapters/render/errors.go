package render

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownFormat  = errors.New("unknown image format")
	ErrCanvasTooSmall = errors.New("canvas too small for chart")
	ErrBackend        = errors.New("chart backend failed")
)
