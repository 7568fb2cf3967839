package gesture

import (
	"time"

	"github.com/san-kum/reveal/internal/motion"
	"github.com/san-kum/reveal/internal/sched"
	"github.com/san-kum/reveal/internal/stage"
)

const (
	DefaultThreshold = 0.8
	DefaultCutoff    = stage.Stage(4)
)

// Outcome is the recognizer's decision for a release.
type Outcome int

const (
	// OutcomeIgnored means there was no gesture session to release.
	OutcomeIgnored Outcome = iota
	OutcomeCancel
	OutcomeCommit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommit:
		return "commit"
	case OutcomeCancel:
		return "cancel"
	default:
		return "ignored"
	}
}

type Config struct {
	Max         float64
	Threshold   float64
	Cutoff      stage.Stage
	Commit      motion.Spring
	Cancel      motion.Spring
	Reset       motion.Tween
	CommitDelay time.Duration
	Frame       time.Duration
}

// Hooks are the recognizer's outbound calls. OnComplete fires once per
// settled commit; Haptic fires just before the commit delay starts.
type Hooks struct {
	OnComplete func()
	Haptic     func()
}

// Commits reports whether a release at position crosses ratio*max.
func Commits(position, max, ratio float64) bool {
	return position >= ratio*max
}

// Recognizer tracks a one-dimensional slider drag and decides commit or
// cancel on release. Its position resets to 0 on every stage change.
type Recognizer struct {
	loop  *sched.Loop
	ctrl  *stage.Controller
	cfg   Config
	hooks Hooks

	pos       *motion.Value
	dragging  bool
	committed bool
	pending   *sched.Timer
	signals   int

	unsubscribe func()
	closed      bool
}

func New(loop *sched.Loop, ctrl *stage.Controller, cfg Config, hooks Hooks) *Recognizer {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Cutoff <= 0 {
		cfg.Cutoff = DefaultCutoff
	}
	r := &Recognizer{
		loop:  loop,
		ctrl:  ctrl,
		cfg:   cfg,
		hooks: hooks,
		pos:   motion.NewValue(loop, cfg.Frame),
	}
	r.unsubscribe = ctrl.Subscribe(r.onStageChange)
	return r
}

func (r *Recognizer) Position() float64 { return r.pos.Get() }

func (r *Recognizer) Max() float64 { return r.cfg.Max }

// Threshold is the absolute position a release must reach to commit.
func (r *Recognizer) Threshold() float64 { return r.cfg.Threshold * r.cfg.Max }

func (r *Recognizer) Dragging() bool { return r.dragging }

// Committed reports whether the most recent session ended in a commit.
func (r *Recognizer) Committed() bool { return r.committed }

// Settling reports whether a commit, cancel or reset animation is running.
func (r *Recognizer) Settling() bool { return r.pos.Animating() }

// Signals is the number of completion signals emitted so far.
func (r *Recognizer) Signals() int { return r.signals }

// Active is false once the stage reaches the cutoff; the control is inert then.
func (r *Recognizer) Active() bool {
	return !r.closed && r.ctrl.Current() < r.cfg.Cutoff
}

// Grab starts a new gesture session and stops any in-flight settle. A
// commit that has already settled keeps its pending completion.
func (r *Recognizer) Grab() bool {
	if !r.Active() {
		return false
	}
	r.pos.Stop()
	r.dragging = true
	r.committed = false
	return true
}

// Drag moves the handle, clamped to [0, Max].
func (r *Recognizer) Drag(position float64) {
	if !r.dragging || !r.Active() {
		return
	}
	r.pos.Set(clamp(position, 0, r.cfg.Max))
}

// Release ends the session and runs the threshold check.
func (r *Recognizer) Release() Outcome {
	if !r.dragging || !r.Active() {
		return OutcomeIgnored
	}
	r.dragging = false

	if Commits(r.pos.Get(), r.cfg.Max, r.cfg.Threshold) {
		r.committed = true
		r.pos.AnimateTo(r.cfg.Max, r.cfg.Commit, r.onCommitSettled)
		return OutcomeCommit
	}
	r.pos.AnimateTo(0, r.cfg.Cancel, nil)
	return OutcomeCancel
}

func (r *Recognizer) onCommitSettled() {
	if r.hooks.Haptic != nil {
		r.hooks.Haptic()
	}
	r.pending = r.loop.After(r.cfg.CommitDelay, r.complete)
}

func (r *Recognizer) complete() {
	r.pending = nil
	r.signals++
	if r.hooks.OnComplete != nil {
		r.hooks.OnComplete()
	}
}

func (r *Recognizer) onStageChange(prev, next stage.Stage) {
	r.dragging = false
	r.committed = false
	r.cancelPending()
	r.pos.AnimateTo(0, r.cfg.Reset, nil)
}

func (r *Recognizer) cancelPending() {
	r.pending.Stop()
	r.pending = nil
}

// Close detaches from the stage controller and cancels every scheduled
// callback. Calling it twice is a no-op.
func (r *Recognizer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.unsubscribe()
	r.cancelPending()
	r.pos.Stop()
	r.dragging = false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
