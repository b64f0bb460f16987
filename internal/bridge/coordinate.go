package bridge

import (
	"fmt"
	"io"

	"github.com/san-kum/armbridge/internal/musculo"
	"github.com/san-kum/armbridge/internal/schedule"
)

const CoordinateEmitterName = "coordinate_output"

// CoordinateEmitter writes the configured coordinate values as one
// space-separated line per eligible step.
type CoordinateEmitter struct {
	gate   *schedule.Gate
	coords []musculo.Coordinate
	out    *FrameWriter
	pnt    *FrameWriter
	values []float64
	opts   options
}

func NewCoordinateEmitter(interval float64, coords []musculo.Coordinate, out io.Writer, opts ...Option) (*CoordinateEmitter, error) {
	gate, err := schedule.NewGate(interval)
	if err != nil {
		return nil, err
	}
	c := &CoordinateEmitter{
		gate:   gate,
		coords: coords,
		out:    NewFrameWriter(out, CoordinateSeparator),
		values: make([]float64, len(coords)),
		opts:   buildOptions(opts),
	}
	if c.opts.pnt != nil {
		c.pnt = NewFrameWriter(c.opts.pnt, CoordinateSeparator)
	}
	return c, nil
}

func (c *CoordinateEmitter) Name() string { return CoordinateEmitterName }

func (c *CoordinateEmitter) Handle(t float64) (bool, error) {
	if !c.gate.Due(t) {
		return false, nil
	}
	c.gate.Commit(t)

	for i, q := range c.coords {
		c.values[i] = q.Q()
	}
	if err := c.out.Write(c.values); err != nil {
		return true, fmt.Errorf("write coordinates: %w", err)
	}
	c.opts.logger.Debug("sent coordinates", "t", t, "values", c.values)
	if c.opts.tap != nil {
		c.opts.tap(StreamCoordinates, t, c.values)
	}
	if c.pnt != nil {
		if err := c.pnt.WriteStamped(t, c.values); err != nil {
			return true, fmt.Errorf("write coordinate pnt: %w", err)
		}
	}
	return true, nil
}

func (c *CoordinateEmitter) Close() error {
	return closeIfCloser(c.opts.pnt)
}
