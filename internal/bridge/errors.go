package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVariable indicates a telemetry variable name outside the
	// dispatch table.
	ErrUnknownVariable = errors.New("bridge: unknown variable")

	// ErrFrameOverflow indicates more muscles than fiber length slots in
	// the muscle frame.
	ErrFrameOverflow = errors.New("bridge: frame overflow")

	// ErrOutputFile indicates a .pnt file that could not be opened.
	ErrOutputFile = errors.New("bridge: cannot open output file")
)

// ConfigError reports a handler that could not be configured.
type ConfigError struct {
	Handler string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Handler, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
