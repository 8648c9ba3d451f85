package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrMissingID = errors.New("record has no id")
)
