// Package controllers computes control vectors for the bridge from joint
// feedback, on the controller side of the exchange.
package controllers

import (
	"fmt"
	"sort"
)

// Channels of a control vector, by anatomical group.
const (
	ShoulderExtensors = iota
	ShoulderFlexors
	ElbowExtensors
	ElbowFlexors
	Width
)

type Vector [Width]float64

// Controller maps the latest joint angles (shoulder, elbow) to a control
// vector for the next exchange.
type Controller interface {
	Compute(joints []float64, t float64) Vector
}

type Params struct {
	Excitation    Vector
	ShoulderAngle float64
	ElbowAngle    float64
	Kp            float64
	Ki            float64
	Kd            float64
}

var registry = map[string]func(Params) Controller{
	"constant": func(p Params) Controller { return NewConstant(p.Excitation) },
	"pid": func(p Params) Controller {
		return NewJointPID(
			NewPID(p.Kp, p.Ki, p.Kd, p.ShoulderAngle),
			NewPID(p.Kp, p.Ki, p.Kd, p.ElbowAngle),
		)
	},
}

func New(name string, p Params) (Controller, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s (available: %v)", name, Names())
	}
	return fn(p), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
