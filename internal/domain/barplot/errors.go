package barplot

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoSamples     = errors.New("no samples")
	ErrInvalidSample = errors.New("invalid sample")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidFigure = errors.New("invalid figure")
)
