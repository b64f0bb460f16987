// Package dynamo provides the simulation host used by the bridge.
//
// The package defines the fundamental interfaces and types for stepping
// an ordinary differential equation system and invoking periodic
// handlers against it:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Handler]: periodic event handler called once per step
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	a := arm.New(arm.DefaultParams())
//	sim := dynamo.New(a, integrators.NewRK4())
//	sim.AddHandler(emitter)
//	result, _ := sim.Run(ctx, a.InitialState(0.5, 1.2), cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Handlers run synchronously on
// the goroutine that called Run, one to completion before the next.
package dynamo
