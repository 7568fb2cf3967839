package motion

import "math"

// State is the integrator state vector; for a single tracked value it is
// {position, velocity}.
type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System writes the time derivative of x into dx.
type System interface {
	Derive(x State, t float64, dx State)
	StateDim() int
}

// Integrator advances x in place.
type Integrator interface {
	Step(sys System, x State, t, dt float64)
}
