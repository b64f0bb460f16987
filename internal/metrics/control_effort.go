package metrics

import (
	"math"

	"github.com/san-kum/armbridge/internal/dynamo"
)

// ControlEffort is the mean muscle excitation over a run: each step
// contributes the average excitation across the actuated muscles. Steps
// without a control vector are not counted.
type ControlEffort struct {
	sum   float64
	steps int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "excitation_effort" }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) == 0 {
		return
	}
	var step float64
	for _, e := range u {
		step += math.Abs(e)
	}
	c.sum += step / float64(len(u))
	c.steps++
}

func (c *ControlEffort) Value() float64 {
	if c.steps == 0 {
		return 0
	}
	return c.sum / float64(c.steps)
}

func (c *ControlEffort) Reset() {
	c.sum, c.steps = 0, 0
}
