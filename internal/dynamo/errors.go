package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrHalt is returned (wrapped) by a handler to end the run cleanly,
	// for example when the controller closes its end of the pipe.
	ErrHalt = errors.New("dynamo: run halted by handler")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Handler string
	Wrapped error
}

func (e *SimulationError) Error() string {
	msg := e.Wrapped.Error()
	if e.Handler != "" {
		msg = e.Handler + ": " + msg
	}
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, msg)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
