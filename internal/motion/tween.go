package motion

import "time"

// Ease maps normalized progress in [0, 1] to eased progress.
type Ease func(p float64) float64

func Linear(p float64) float64 { return p }

func EaseOut(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

func EaseInOut(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

// Tween is a fixed-duration transition.
type Tween struct {
	Duration time.Duration
	Ease     Ease
}

func (tw Tween) start(from, to, _ float64) stepper {
	ease := tw.Ease
	if ease == nil {
		ease = EaseOut
	}
	return &tweenStepper{from: from, to: to, duration: tw.Duration, ease: ease, last: from}
}

type tweenStepper struct {
	from, to float64
	duration time.Duration
	elapsed  time.Duration
	ease     Ease
	last     float64
}

func (s *tweenStepper) step(dt time.Duration) (float64, float64, bool) {
	s.elapsed += dt
	if s.duration <= 0 || s.elapsed >= s.duration {
		return s.to, 0, true
	}
	p := float64(s.elapsed) / float64(s.duration)
	x := s.from + (s.to-s.from)*s.ease(p)
	v := (x - s.last) / dt.Seconds()
	s.last = x
	return x, v, false
}
