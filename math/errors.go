package math

import (
	"errors"
	"fmt"
)

// ErrDomain marks degenerate camera or projection parameters that would
// otherwise produce Inf or NaN.
var ErrDomain = errors.New("domain error")

// DimensionMismatchError is the panic value raised when two sequences that
// must have equal length do not. It signals a programming error.
type DimensionMismatchError struct {
	Op          string
	Left, Right int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch (%d vs %d)", e.Op, e.Left, e.Right)
}
