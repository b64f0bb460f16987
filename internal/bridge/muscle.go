package bridge

import (
	"fmt"
	"io"

	"github.com/san-kum/armbridge/internal/musculo"
	"github.com/san-kum/armbridge/internal/schedule"
)

const MuscleEmitterName = "muscle_status"

// MuscleEmitter writes one fiber length per slot of a fixed-width frame
// to the controller. The per-muscle variable matrix, muscle-major, goes
// to the .pnt output.
type MuscleEmitter struct {
	gate    *schedule.Gate
	muscles []musculo.Muscle
	vars    []Variable
	out     *FrameWriter
	pnt     *FrameWriter
	lengths []float64
	matrix  []float64
	opts    options
}

// NewMuscleEmitter builds an emitter whose frame carries width values.
// Slots past the last muscle stay 0. A width of 0 uses the muscle count.
func NewMuscleEmitter(interval float64, muscles []musculo.Muscle, vars []Variable, width int, out io.Writer, opts ...Option) (*MuscleEmitter, error) {
	if width == 0 {
		width = len(muscles)
	}
	if len(muscles) > width {
		return nil, fmt.Errorf("%w: %d muscles for %d slots", ErrFrameOverflow, len(muscles), width)
	}
	gate, err := schedule.NewGate(interval)
	if err != nil {
		return nil, err
	}
	m := &MuscleEmitter{
		gate:    gate,
		muscles: muscles,
		vars:    vars,
		out:     NewFrameWriter(out, MuscleSeparator),
		lengths: make([]float64, width),
		matrix:  make([]float64, len(muscles)*len(vars)),
		opts:    buildOptions(opts),
	}
	if m.opts.pnt != nil {
		m.pnt = NewFrameWriter(m.opts.pnt, CoordinateSeparator)
	}
	return m, nil
}

func (m *MuscleEmitter) Name() string { return MuscleEmitterName }

// Matrix returns the variable matrix of the last handled step.
func (m *MuscleEmitter) Matrix() []float64 { return m.matrix }

func (m *MuscleEmitter) Handle(t float64) (bool, error) {
	if !m.gate.Due(t) {
		return false, nil
	}
	m.gate.Commit(t)

	k := 0
	for i, mu := range m.muscles {
		for _, v := range m.vars {
			m.matrix[k] = v.Read(mu)
			k++
		}
		m.lengths[i] = mu.FiberLength()
	}

	if err := m.out.Write(m.lengths); err != nil {
		return true, fmt.Errorf("write muscle status: %w", err)
	}
	m.opts.logger.Debug("sent muscle status", "t", t, "muscles", len(m.muscles))
	if m.opts.tap != nil {
		m.opts.tap(StreamMuscles, t, m.lengths)
	}
	if m.pnt != nil {
		if err := m.pnt.WriteStamped(t, m.matrix); err != nil {
			return true, fmt.Errorf("write muscle pnt: %w", err)
		}
	}
	return true, nil
}

func (m *MuscleEmitter) Close() error {
	return closeIfCloser(m.opts.pnt)
}
