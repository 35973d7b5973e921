package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrGridTooSmall indicates a grid with fewer than two points.
	ErrGridTooSmall = errors.New("dynamo: grid needs at least 2 points")

	// ErrDimensionMismatch indicates fields of different lengths were combined.
	// It is raised through panic: it can only come from a bug in state construction.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between fields")

	// ErrInvalidState indicates a state with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates unusable driver settings.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation config")
)

// SimulationError wraps an error with the iteration it happened at.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
