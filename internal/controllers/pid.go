package controllers

import "math"

type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Update returns the PID output for measurement y at time t.
func (p *PID) Update(y, t float64) float64 {
	err := p.Target - y

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.Kp * err
	}

	dt := t - p.prevT
	if dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt

		u := p.Kp*err + p.Ki*p.integral + p.Kd*derivative

		p.prevErr = err
		p.prevT = t

		return u
	}
	return p.Kp * err
}

// JointPID drives each joint toward its target angle. Positive output
// excites the joint's flexors, negative output its extensors.
type JointPID struct {
	Shoulder *PID
	Elbow    *PID
}

func NewJointPID(shoulder, elbow *PID) *JointPID {
	return &JointPID{Shoulder: shoulder, Elbow: elbow}
}

func (j *JointPID) Compute(joints []float64, t float64) Vector {
	var u Vector
	if len(joints) < 2 {
		return u
	}
	split(&u, ShoulderFlexors, ShoulderExtensors, j.Shoulder.Update(joints[0], t))
	split(&u, ElbowFlexors, ElbowExtensors, j.Elbow.Update(joints[1], t))
	return u
}

func split(u *Vector, flexors, extensors int, out float64) {
	if out >= 0 {
		u[flexors] = math.Min(out, 1)
		return
	}
	u[extensors] = math.Min(-out, 1)
}
