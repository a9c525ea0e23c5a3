package integrators

import "github.com/san-kum/povpendulum/internal/dynamo"

type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) stage(dyn dynamo.System, x, k dynamo.State, h, t float64, out dynamo.State) {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	copy(out, dyn.Derive(r.scratch, t))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, dyn.Derive(x, t))
	r.stage(dyn, x, r.k1, dt*0.5, t+dt*0.5, r.k2)
	r.stage(dyn, x, r.k2, dt*0.5, t+dt*0.5, r.k3)
	r.stage(dyn, x, r.k3, dt, t+dt, r.k4)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result
}

// Integrate advances x by n steps of dt starting at t0.
func Integrate(integ dynamo.Integrator, dyn dynamo.System, x dynamo.State, t0, dt float64, n int) dynamo.State {
	t := t0
	for i := 0; i < n; i++ {
		x = integ.Step(dyn, x, t, dt)
		t += dt
	}
	return x
}
