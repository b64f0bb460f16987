package integrators

import "github.com/san-kum/armbridge/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta stepper. Stage buffers are
// reused across steps; the returned state is always freshly allocated
// because the simulator keeps it as the next x.
type RK4 struct {
	k     [4]dynamo.State
	stage dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	if len(r.stage) != n {
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
		r.stage = make(dynamo.State, n)
	}

	copy(r.k[0], dyn.Derive(x, u, t))
	copy(r.k[1], dyn.Derive(offset(r.stage, x, r.k[0], dt/2), u, t+dt/2))
	copy(r.k[2], dyn.Derive(offset(r.stage, x, r.k[1], dt/2), u, t+dt/2))
	copy(r.k[3], dyn.Derive(offset(r.stage, x, r.k[2], dt), u, t+dt))

	next := make(dynamo.State, n)
	for i := range next {
		next[i] = x[i] + dt/6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}

// offset writes x + h*k into dst and returns it.
func offset(dst, x, k dynamo.State, h float64) dynamo.State {
	for i := range dst {
		dst[i] = x[i] + h*k[i]
	}
	return dst
}
