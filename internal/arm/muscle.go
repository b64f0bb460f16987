package arm

import "math"

// Muscle is a first-order activation, Hill-type muscle whose fiber length
// follows the joint angles through constant moment arms.
type Muscle struct {
	p               MuscleParams
	specificTension float64

	excitation      float64
	activation      float64
	activationDeriv float64
	fiberLen        float64
	fiberVel        float64
	active          float64
	passive         float64
}

func newMuscle(p MuscleParams, specificTension float64) *Muscle {
	return &Muscle{
		p:               p,
		specificTension: specificTension,
		fiberLen:        p.OptimalFiberLen,
	}
}

func (m *Muscle) Name() string { return m.p.Name }

func (m *Muscle) Excitation() float64      { return m.excitation }
func (m *Muscle) Activation() float64      { return m.activation }
func (m *Muscle) ActivationDeriv() float64 { return m.activationDeriv }
func (m *Muscle) Force() float64           { return m.active + m.passive }
func (m *Muscle) Speed() float64           { return m.fiberVel }

func (m *Muscle) ActiveFiberForce() float64  { return m.active }
func (m *Muscle) PassiveFiberForce() float64 { return m.passive }
func (m *Muscle) FiberLength() float64       { return m.fiberLen }
func (m *Muscle) FiberLengthDeriv() float64  { return m.fiberVel }
func (m *Muscle) MaxIsometricForce() float64 { return m.p.MaxIsometricForce }

func (m *Muscle) NormalizedFiberLength() float64 {
	return m.fiberLen / m.p.OptimalFiberLen
}

// Stress is force per physiological cross-sectional area (Pa).
func (m *Muscle) Stress() float64 {
	return m.Force() * m.specificTension / m.p.MaxIsometricForce
}

func (m *Muscle) FiberIsometricForce(activation, fiberLength float64) float64 {
	n := fiberLength / m.p.OptimalFiberLen
	return activation*m.p.MaxIsometricForce*forceLength(n) + m.p.MaxIsometricForce*passiveForceLength(n)
}

// Capacity is the additional active force available at the current length.
func (m *Muscle) Capacity() float64 {
	return (1 - m.activation) * m.p.MaxIsometricForce * forceLength(m.NormalizedFiberLength())
}

// SetExcitation stores the neural command; it takes effect through
// activation dynamics on the next integration step.
func (m *Muscle) SetExcitation(u float64) { m.excitation = u }

func (m *Muscle) length(p *Params, qs, qe float64) float64 {
	l := m.p.OptimalFiberLen - m.p.ShoulderArm*(qs-p.ShoulderRef) - m.p.ElbowArm*(qe-p.ElbowRef)
	return math.Max(l, minLengthFraction*m.p.OptimalFiberLen)
}

func (m *Muscle) tension(activation, fiberLen float64) (active, passive float64) {
	n := fiberLen / m.p.OptimalFiberLen
	active = activation * m.p.MaxIsometricForce * forceLength(n)
	passive = m.p.MaxIsometricForce * passiveForceLength(n)
	return active, passive
}

const (
	minLengthFraction = 0.2
	flWidth           = 0.45
	passiveShape      = 4.0
	passiveStrainRef  = 0.6
)

func forceLength(n float64) float64 {
	d := (n - 1) / flWidth
	return math.Exp(-d * d)
}

func passiveForceLength(n float64) float64 {
	if n <= 1 {
		return 0
	}
	return (math.Exp(passiveShape*(n-1)) - 1) / (math.Exp(passiveShape*passiveStrainRef) - 1)
}

func activationRate(u, a, tauAct, tauDeact float64) float64 {
	u = clamp01(u)
	if u > a {
		return (u - a) / tauAct
	}
	return (u - a) / tauDeact
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
