package motion

import (
	"math"
	"time"
)

const (
	DefaultMass      = 1.0
	DefaultRestDelta = 0.5
	DefaultRestSpeed = 2.0
	// A spring that has not come to rest by then is snapped to its target.
	DefaultMaxSettle = 3 * time.Second
)

// SpringSystem is a damped mass on a spring anchored at Target.
// State is {position, velocity}.
type SpringSystem struct {
	Target    float64
	Stiffness float64
	Damping   float64
	Mass      float64
}

func (s *SpringSystem) StateDim() int { return 2 }

func (s *SpringSystem) Derive(x State, t float64, dx State) {
	pos, vel := x[0], x[1]
	force := -s.Stiffness*(pos-s.Target) - s.Damping*vel
	dx[0], dx[1] = vel, force/s.Mass
}

// Energy is the kinetic plus spring potential energy relative to Target.
func (s *SpringSystem) Energy(x State) float64 {
	d := x[0] - s.Target
	return 0.5*s.Mass*x[1]*x[1] + 0.5*s.Stiffness*d*d
}

// DampingRatio is below 1 for springs that overshoot before settling.
func (s *SpringSystem) DampingRatio() float64 {
	return s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))
}

// Spring is a physical transition. Zero rest thresholds and mass fall back
// to the package defaults.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
	RestDelta float64
	RestSpeed float64
	MaxSettle time.Duration
}

func (sp Spring) withDefaults() Spring {
	if sp.Mass <= 0 {
		sp.Mass = DefaultMass
	}
	if sp.RestDelta <= 0 {
		sp.RestDelta = DefaultRestDelta
	}
	if sp.RestSpeed <= 0 {
		sp.RestSpeed = DefaultRestSpeed
	}
	if sp.MaxSettle <= 0 {
		sp.MaxSettle = DefaultMaxSettle
	}
	return sp
}

func (sp Spring) start(from, to, velocity float64) stepper {
	sp = sp.withDefaults()
	return &springStepper{
		cfg: sp,
		sys: &SpringSystem{
			Target:    to,
			Stiffness: sp.Stiffness,
			Damping:   sp.Damping,
			Mass:      sp.Mass,
		},
		integ: &RK4{},
		x:     State{from, velocity},
	}
}

type springStepper struct {
	cfg     Spring
	sys     *SpringSystem
	integ   Integrator
	x       State
	elapsed time.Duration
}

func (s *springStepper) step(dt time.Duration) (float64, float64, bool) {
	s.elapsed += dt
	s.integ.Step(s.sys, s.x, s.elapsed.Seconds(), dt.Seconds())
	if !s.x.IsValid() || s.elapsed >= s.cfg.MaxSettle {
		return s.sys.Target, 0, true
	}
	if math.Abs(s.x[0]-s.sys.Target) <= s.cfg.RestDelta && math.Abs(s.x[1]) <= s.cfg.RestSpeed {
		return s.sys.Target, 0, true
	}
	return s.x[0], s.x[1], false
}
