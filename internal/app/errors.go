package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrBackpressure = errors.New("match-run queue full")
)
