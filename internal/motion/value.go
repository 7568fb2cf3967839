package motion

import (
	"time"

	"github.com/san-kum/reveal/internal/sched"
)

// Transition produces the per-frame steps that carry a Value to a target.
// Spring and Tween are the implementations.
type Transition interface {
	start(from, to, velocity float64) stepper
}

type stepper interface {
	step(dt time.Duration) (pos, vel float64, done bool)
}

// Value is a tracked number with at most one running animation. Setting it
// or starting a new animation stops the previous one.
type Value struct {
	loop     *sched.Loop
	frame    time.Duration
	current  float64
	velocity float64
	anim     *Animation
}

func NewValue(loop *sched.Loop, frame time.Duration) *Value {
	if frame <= 0 {
		frame = sched.DefaultFrame
	}
	return &Value{loop: loop, frame: frame}
}

func (v *Value) Get() float64 { return v.current }

// Velocity is the current rate of change in units per second; it is zero
// when the value is at rest.
func (v *Value) Velocity() float64 { return v.velocity }

// Set jumps to x, cancelling any running animation.
func (v *Value) Set(x float64) {
	v.Stop()
	v.current = x
	v.velocity = 0
}

// Animating reports whether an animation is in flight.
func (v *Value) Animating() bool { return v.anim != nil && !v.anim.done }

// Stop cancels the running animation without running its completion.
func (v *Value) Stop() {
	if v.anim != nil {
		v.anim.Stop()
		v.anim = nil
	}
}

// AnimateTo starts a transition from the current value to target, advancing
// once per frame on the loop. onComplete runs once the value has settled
// exactly on target; it never runs if the animation is stopped first.
func (v *Value) AnimateTo(target float64, tr Transition, onComplete func()) *Animation {
	v.Stop()
	a := &Animation{
		value:      v,
		target:     target,
		stepper:    tr.start(v.current, target, v.velocity),
		onComplete: onComplete,
	}
	v.anim = a
	a.timer = v.loop.After(v.frame, a.tick)
	return a
}

// Animation is the cancellation handle for a running transition.
type Animation struct {
	value      *Value
	target     float64
	stepper    stepper
	timer      *sched.Timer
	onComplete func()
	done       bool
	frames     int
}

func (a *Animation) tick() {
	if a.done {
		return
	}
	a.frames++
	pos, vel, finished := a.stepper.step(a.value.frame)
	a.value.current = pos
	a.value.velocity = vel
	if !finished {
		a.timer = a.value.loop.After(a.value.frame, a.tick)
		return
	}
	a.value.current = a.target
	a.value.velocity = 0
	a.done = true
	if a.value.anim == a {
		a.value.anim = nil
	}
	if a.onComplete != nil {
		a.onComplete()
	}
}

// Stop is safe to call repeatedly and after completion.
func (a *Animation) Stop() {
	if a == nil || a.done {
		return
	}
	a.done = true
	a.timer.Stop()
	if a.value.anim == a {
		a.value.anim = nil
	}
}

func (a *Animation) Done() bool { return a == nil || a.done }

// Frames is the number of frames stepped so far.
func (a *Animation) Frames() int { return a.frames }
