package storage

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoDirectory = errors.New("output directory does not exist")
	ErrWrite       = errors.New("write output failed")
)
