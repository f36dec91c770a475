package routing

import "errors"

// ErrInvalidThresholds is returned when the low/high similarity thresholds
// are out of order or outside the cosine similarity range.
var ErrInvalidThresholds = errors.New("thresholds must satisfy 0 <= low < high <= 1")
