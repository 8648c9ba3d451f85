package matching

import "errors"

// Sentinel kinds for matching errors. These allow errors.Is/As from callers.
var (
	ErrInvalidWeights = errors.New("invalid matching weights")
)
