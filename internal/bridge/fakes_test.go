package bridge

import (
	"io"

	"github.com/san-kum/armbridge/internal/musculo"
)

type fakeMuscle struct {
	name       string
	excitation float64
	sets       int
	force      float64
	fmax       float64
	fiberLen   float64
}

func newFakeMuscle(name string) *fakeMuscle {
	return &fakeMuscle{name: name, force: 50, fmax: 100, fiberLen: 0.1}
}

func (m *fakeMuscle) Name() string                   { return m.name }
func (m *fakeMuscle) Excitation() float64            { return m.excitation }
func (m *fakeMuscle) Activation() float64            { return 0.5 }
func (m *fakeMuscle) ActivationDeriv() float64       { return 0.25 }
func (m *fakeMuscle) Force() float64                 { return m.force }
func (m *fakeMuscle) Stress() float64                { return m.force / 2 }
func (m *fakeMuscle) Speed() float64                 { return -0.01 }
func (m *fakeMuscle) ActiveFiberForce() float64      { return m.force * 0.75 }
func (m *fakeMuscle) PassiveFiberForce() float64     { return m.force * 0.25 }
func (m *fakeMuscle) NormalizedFiberLength() float64 { return 1 }
func (m *fakeMuscle) FiberLength() float64           { return m.fiberLen }
func (m *fakeMuscle) FiberLengthDeriv() float64      { return -0.01 }
func (m *fakeMuscle) MaxIsometricForce() float64     { return m.fmax }
func (m *fakeMuscle) Capacity() float64              { return 1 }

func (m *fakeMuscle) FiberIsometricForce(a, l float64) float64 {
	return a * l * m.fmax
}

func (m *fakeMuscle) SetExcitation(u float64) {
	m.excitation = u
	m.sets++
}

type fakeCoordinate struct {
	name string
	q    float64
}

func (c *fakeCoordinate) Name() string { return c.name }
func (c *fakeCoordinate) Q() float64   { return c.q }
func (c *fakeCoordinate) Qd() float64  { return 0 }
func (c *fakeCoordinate) Qdd() float64 { return 0 }

type fakeBody struct {
	name   string
	coords []musculo.Coordinate
}

func (b *fakeBody) Name() string                      { return b.name }
func (b *fakeBody) Coordinates() []musculo.Coordinate { return b.coords }

type plainBody struct{ name string }

func (b plainBody) Name() string { return b.name }

type fakeSubsystem struct {
	name    string
	muscles []*fakeMuscle
}

func (s *fakeSubsystem) Name() string { return s.name }

func (s *fakeSubsystem) Muscles() []musculo.Muscle {
	out := make([]musculo.Muscle, len(s.muscles))
	for i, m := range s.muscles {
		out[i] = m
	}
	return out
}

func (s *fakeSubsystem) Muscle(name string) (musculo.Muscle, bool) {
	for _, m := range s.muscles {
		if m.name == name {
			return m, true
		}
	}
	return nil, false
}

type plainSubsystem struct{ name string }

func (s plainSubsystem) Name() string { return s.name }

type fakeSystem struct {
	bodies []musculo.Body
	forces []musculo.ForceSubsystem
}

func (s *fakeSystem) Body(name string) (musculo.Body, bool) {
	for _, b := range s.bodies {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

func (s *fakeSystem) ForceSubsystem(name string) (musculo.ForceSubsystem, bool) {
	for _, f := range s.forces {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

func muscles(names ...string) ([]*fakeMuscle, []musculo.Muscle) {
	fakes := make([]*fakeMuscle, len(names))
	list := make([]musculo.Muscle, len(names))
	for i, n := range names {
		fakes[i] = newFakeMuscle(n)
		list[i] = fakes[i]
	}
	return fakes, list
}

// lineSource replays fixed lines, then reports EOF.
type lineSource struct {
	lines []string
}

func (s *lineSource) Next() (string, bool, error) {
	if len(s.lines) == 0 {
		return "", false, io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, true, nil
}
