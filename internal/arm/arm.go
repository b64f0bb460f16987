package arm

import (
	"fmt"

	"github.com/san-kum/armbridge/internal/dynamo"
	"github.com/san-kum/armbridge/internal/musculo"
)

// Arm is a planar shoulder/elbow arm actuated by muscles. State layout:
// [q_shoulder, q_elbow, qd_shoulder, qd_elbow, a_0 .. a_n-1].
type Arm struct {
	*musculo.Registry

	p       Params
	body    *body
	muscles *muscleSubsystem
	damping *dampingSubsystem
}

func New(p Params) (*Arm, error) {
	if len(p.Muscles) == 0 {
		return nil, fmt.Errorf("arm: no muscles configured")
	}
	if p.ShoulderInertia <= 0 || p.ElbowInertia <= 0 {
		return nil, fmt.Errorf("arm: inertia must be positive")
	}
	if p.ActivationTau <= 0 || p.DeactivationTau <= 0 {
		return nil, fmt.Errorf("arm: activation time constants must be positive")
	}

	a := &Arm{
		Registry: musculo.NewRegistry(),
		p:        p,
		body: &body{
			name: p.BodyName,
			coords: []*coordinate{
				{name: ShoulderCoordinate},
				{name: ElbowCoordinate},
			},
		},
		muscles: &muscleSubsystem{name: p.MuscleSysName, byName: make(map[string]*Muscle)},
		damping: &dampingSubsystem{name: DefaultDampingSys, coefficient: p.JointDamping},
	}

	for _, mp := range p.Muscles {
		if mp.OptimalFiberLen <= 0 {
			return nil, fmt.Errorf("arm: muscle %q: optimal fiber length must be positive", mp.Name)
		}
		if _, dup := a.muscles.byName[mp.Name]; dup {
			return nil, fmt.Errorf("arm: %w: muscle %q", musculo.ErrDuplicate, mp.Name)
		}
		m := newMuscle(mp, p.SpecificTension)
		a.muscles.list = append(a.muscles.list, m)
		a.muscles.byName[mp.Name] = m
	}

	if err := a.AddBody(a.body); err != nil {
		return nil, err
	}
	if err := a.AddBody(ground{}); err != nil {
		return nil, err
	}
	if err := a.AddForceSubsystem(a.muscles); err != nil {
		return nil, err
	}
	if err := a.AddForceSubsystem(a.damping); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arm) StateDim() int   { return 4 + len(a.muscles.list) }
func (a *Arm) ControlDim() int { return len(a.muscles.list) }

// InitialState places the arm at rest at the given joint angles.
func (a *Arm) InitialState(shoulder, elbow float64) dynamo.State {
	x := make(dynamo.State, a.StateDim())
	x[0] = shoulder
	x[1] = elbow
	return x
}

// Control returns the current muscle excitations in muscle order.
func (a *Arm) Control() dynamo.Control {
	u := make(dynamo.Control, len(a.muscles.list))
	for i, m := range a.muscles.list {
		u[i] = m.excitation
	}
	return u
}

func (a *Arm) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	qs, qe, ws, we := x[0], x[1], x[2], x[3]

	var torqueS, torqueE float64
	for i, m := range a.muscles.list {
		act := clamp01(x[4+i])
		active, passive := m.tension(act, m.length(&a.p, qs, qe))
		f := active + passive
		torqueS += m.p.ShoulderArm * f
		torqueE += m.p.ElbowArm * f

		exc := m.excitation
		if len(u) == len(a.muscles.list) {
			exc = u[i]
		}
		dx[4+i] = activationRate(exc, x[4+i], a.p.ActivationTau, a.p.DeactivationTau)
	}

	torqueS += -a.damping.coefficient*ws + a.limitTorque(qs, a.p.ShoulderRange)
	torqueE += -a.damping.coefficient*we + a.limitTorque(qe, a.p.ElbowRange)

	dx[0] = ws
	dx[1] = we
	dx[2] = torqueS / a.p.ShoulderInertia
	dx[3] = torqueE / a.p.ElbowInertia
	return dx
}

func (a *Arm) limitTorque(q float64, r [2]float64) float64 {
	switch {
	case q < r[0]:
		return a.p.LimitStiff * (r[0] - q)
	case q > r[1]:
		return a.p.LimitStiff * (r[1] - q)
	}
	return 0
}

// Sync publishes x to the coordinates and muscles observed by handlers.
func (a *Arm) Sync(x dynamo.State, t float64) {
	dx := a.Derive(x, nil, t)
	for i, c := range a.body.coords {
		c.q, c.qd, c.qdd = x[i], x[2+i], dx[2+i]
	}

	qs, qe, ws, we := x[0], x[1], x[2], x[3]
	for i, m := range a.muscles.list {
		m.activation = x[4+i]
		m.activationDeriv = dx[4+i]
		m.fiberLen = m.length(&a.p, qs, qe)
		m.fiberVel = -(m.p.ShoulderArm*ws + m.p.ElbowArm*we)
		m.active, m.passive = m.tension(clamp01(m.activation), m.fiberLen)
	}
}

// Energy is the rotational kinetic energy of both segments.
func (a *Arm) Energy(x dynamo.State) float64 {
	return 0.5*a.p.ShoulderInertia*x[2]*x[2] + 0.5*a.p.ElbowInertia*x[3]*x[3]
}

// MuscleByName exposes a concrete muscle for tests and tools.
func (a *Arm) MuscleByName(name string) (*Muscle, bool) {
	m, ok := a.muscles.byName[name]
	return m, ok
}

type coordinate struct {
	name       string
	q, qd, qdd float64
}

func (c *coordinate) Name() string { return c.name }
func (c *coordinate) Q() float64   { return c.q }
func (c *coordinate) Qd() float64  { return c.qd }
func (c *coordinate) Qdd() float64 { return c.qdd }

type body struct {
	name   string
	coords []*coordinate
}

func (b *body) Name() string { return b.name }

func (b *body) Coordinates() []musculo.Coordinate {
	out := make([]musculo.Coordinate, len(b.coords))
	for i, c := range b.coords {
		out[i] = c
	}
	return out
}

// ground is the fixed world body; it has no coordinates.
type ground struct{}

func (ground) Name() string { return DefaultGroundName }

type muscleSubsystem struct {
	name   string
	list   []*Muscle
	byName map[string]*Muscle
}

func (s *muscleSubsystem) Name() string { return s.name }

func (s *muscleSubsystem) Muscles() []musculo.Muscle {
	out := make([]musculo.Muscle, len(s.list))
	for i, m := range s.list {
		out[i] = m
	}
	return out
}

func (s *muscleSubsystem) Muscle(name string) (musculo.Muscle, bool) {
	m, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return m, true
}

// dampingSubsystem is viscous joint friction, a force subsystem that is
// not made of muscles.
type dampingSubsystem struct {
	name        string
	coefficient float64
}

func (s *dampingSubsystem) Name() string { return s.name }
