// Package schedule decides which simulation steps are I/O-eligible for a
// periodic handler.
package schedule

import (
	"fmt"
	"math"
)

// relTolerance absorbs floating point error when simulation time is a
// multiple of dt that does not divide the interval exactly.
const relTolerance = 1e-9

// Gate tracks the last handled simulation time of a periodic handler.
// The zero value is not usable; construct with NewGate. A Gate is not
// safe for concurrent use.
type Gate struct {
	interval float64
	last     float64
	handled  bool
}

// NewGate returns a gate that fires on the first call and then whenever
// at least interval simulation time has passed since the last committed
// time. An interval of zero fires on every new time.
func NewGate(interval float64) (*Gate, error) {
	if interval < 0 || math.IsNaN(interval) || math.IsInf(interval, 0) {
		return nil, fmt.Errorf("schedule: invalid interval %v", interval)
	}
	return &Gate{interval: interval}, nil
}

// Due reports whether t is an eligible step. It never mutates the gate.
func (g *Gate) Due(t float64) bool {
	if !g.handled {
		return true
	}
	if t <= g.last {
		return false
	}
	slack := relTolerance * math.Max(1, g.interval)
	return t-g.last >= g.interval-slack
}

// Commit records t as handled. Handlers commit before performing I/O so
// a failed exchange is never retried for the same step.
func (g *Gate) Commit(t float64) {
	g.last = t
	g.handled = true
}

// LastHandled returns the last committed time, if any.
func (g *Gate) LastHandled() (float64, bool) {
	return g.last, g.handled
}
