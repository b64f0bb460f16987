package bridge

import (
	"fmt"

	"github.com/san-kum/armbridge/internal/musculo"
)

// Variable is one entry of the muscle telemetry dispatch table.
type Variable int

const (
	Excitation Variable = iota
	Activation
	ActivationDeriv
	Force
	Stress
	Speed
	ActiveFiberForce
	PassiveFiberForce
	NormalizedFiberLength
	RelativeMaxContraction
	FiberLengthDeriv
	IsometricFiberForce
	Capacity
	numVariables
)

var variableNames = [numVariables]string{
	Excitation:             "excitation",
	Activation:             "activation",
	ActivationDeriv:        "activationDeriv",
	Force:                  "force",
	Stress:                 "stress",
	Speed:                  "speed",
	ActiveFiberForce:       "activeFiberForce",
	PassiveFiberForce:      "passiveFiberForce",
	NormalizedFiberLength:  "normalizedFiberLength",
	RelativeMaxContraction: "RelativeMaxContraction",
	FiberLengthDeriv:       "fiberLengthDeriv",
	IsometricFiberForce:    "isometricFiberForce",
	Capacity:               "capacity",
}

var readers = [numVariables]func(musculo.Muscle) float64{
	Excitation:            musculo.Muscle.Excitation,
	Activation:            musculo.Muscle.Activation,
	ActivationDeriv:       musculo.Muscle.ActivationDeriv,
	Force:                 musculo.Muscle.Force,
	Stress:                musculo.Muscle.Stress,
	Speed:                 musculo.Muscle.Speed,
	ActiveFiberForce:      musculo.Muscle.ActiveFiberForce,
	PassiveFiberForce:     musculo.Muscle.PassiveFiberForce,
	NormalizedFiberLength: musculo.Muscle.NormalizedFiberLength,
	// Zero max isometric force yields ±Inf or NaN.
	RelativeMaxContraction: func(m musculo.Muscle) float64 {
		return m.Force() / m.MaxIsometricForce()
	},
	FiberLengthDeriv: musculo.Muscle.FiberLengthDeriv,
	IsometricFiberForce: func(m musculo.Muscle) float64 {
		return m.FiberIsometricForce(m.Activation(), m.FiberLength())
	},
	Capacity: musculo.Muscle.Capacity,
}

func (v Variable) String() string {
	if v < 0 || v >= numVariables {
		return fmt.Sprintf("Variable(%d)", int(v))
	}
	return variableNames[v]
}

// Read returns the value of v for m.
func (v Variable) Read(m musculo.Muscle) float64 {
	return readers[v](m)
}

// AllVariables returns every variable in table order.
func AllVariables() []Variable {
	out := make([]Variable, numVariables)
	for i := range out {
		out[i] = Variable(i)
	}
	return out
}

// ParseVariable looks up a variable by its exact name.
func ParseVariable(name string) (Variable, error) {
	for i, n := range variableNames {
		if n == name {
			return Variable(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownVariable, name)
}

// ResolveVariables binds a selection to dispatch entries, in selection
// order. The first unknown name fails the whole selection.
func ResolveVariables(sel musculo.Selection) ([]Variable, error) {
	if sel.All {
		return AllVariables(), nil
	}
	out := make([]Variable, 0, len(sel.Names))
	for _, name := range sel.Names {
		v, err := ParseVariable(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
