package musculo

// Coordinate is one scalar degree of freedom of an articulated body.
type Coordinate interface {
	Name() string
	Q() float64
	Qd() float64
	Qdd() float64
}

// Muscle is a named force-producing actuator.
type Muscle interface {
	Name() string

	Excitation() float64
	Activation() float64
	ActivationDeriv() float64
	// Force is the total (tendon) force.
	Force() float64
	Stress() float64
	// Speed is the fiber contraction speed.
	Speed() float64
	ActiveFiberForce() float64
	PassiveFiberForce() float64
	NormalizedFiberLength() float64
	FiberLength() float64
	FiberLengthDeriv() float64
	MaxIsometricForce() float64
	// FiberIsometricForce is the isometric force the fiber produces at the
	// given activation and fiber length.
	FiberIsometricForce(activation, fiberLength float64) float64
	Capacity() float64

	SetExcitation(u float64)
}

// Body is any body of the host's matter subsystem.
type Body interface {
	Name() string
}

// ArticulatedBody is a reduced-coordinate body with named coordinates.
type ArticulatedBody interface {
	Body
	Coordinates() []Coordinate
}

// ForceSubsystem is any force subsystem of the host.
type ForceSubsystem interface {
	Name() string
}

// MuscleSubsystem is a force subsystem made of muscles.
type MuscleSubsystem interface {
	ForceSubsystem
	Muscles() []Muscle
	Muscle(name string) (Muscle, bool)
}

// System is the host view the bridge resolves names against.
type System interface {
	Body(name string) (Body, bool)
	ForceSubsystem(name string) (ForceSubsystem, bool)
}

// Selection picks entities either by explicit names (in order) or all of
// them in the owner's order.
type Selection struct {
	All   bool
	Names []string
}
