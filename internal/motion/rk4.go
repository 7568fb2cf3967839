package motion

// RK4 is the classic fourth-order Runge-Kutta step. Stage buffers are reused
// between calls, so an RK4 value belongs to a single stepper.
type RK4 struct {
	k     [4]State
	probe State
}

// Step advances x in place by dt.
func (r *RK4) Step(sys System, x State, t, dt float64) {
	if len(r.probe) != len(x) {
		for i := range r.k {
			r.k[i] = make(State, len(x))
		}
		r.probe = make(State, len(x))
	}
	half := dt / 2

	sys.Derive(x, t, r.k[0])
	r.offset(x, r.k[0], half)
	sys.Derive(r.probe, t+half, r.k[1])
	r.offset(x, r.k[1], half)
	sys.Derive(r.probe, t+half, r.k[2])
	r.offset(x, r.k[2], dt)
	sys.Derive(r.probe, t+dt, r.k[3])

	w := dt / 6
	for i := range x {
		x[i] += w * (r.k[0][i] + 2*r.k[1][i] + 2*r.k[2][i] + r.k[3][i])
	}
}

// offset sets probe to x + h*k.
func (r *RK4) offset(x, k State, h float64) {
	for i := range x {
		r.probe[i] = x[i] + h*k[i]
	}
}
