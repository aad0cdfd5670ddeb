package service

import "errors"

// Sentinel error kinds returned by Render. Causes are wrapped, so callers can
// also match the underlying package errors.
var (
	// ErrRender means the chart could not be computed or drawn.
	ErrRender = errors.New("render chart")
	// ErrIO means the chart was drawn but could not be stored.
	ErrIO = errors.New("write chart")
)
