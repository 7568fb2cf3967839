package autoadvance

import (
	"time"

	"github.com/san-kum/reveal/internal/sched"
	"github.com/san-kum/reveal/internal/stage"
)

// Watcher advances the stage once after Delay whenever the controller
// enters the watched stage. At most one call is pending at a time.
type Watcher struct {
	loop  *sched.Loop
	ctrl  *stage.Controller
	at    stage.Stage
	delay time.Duration

	timer       *sched.Timer
	fired       int
	unsubscribe func()
	closed      bool
}

// New subscribes to ctrl. If ctrl is already at the watched stage the
// timer starts immediately.
func New(loop *sched.Loop, ctrl *stage.Controller, at stage.Stage, delay time.Duration) *Watcher {
	w := &Watcher{loop: loop, ctrl: ctrl, at: at, delay: delay}
	w.unsubscribe = ctrl.Subscribe(w.onStageChange)
	if ctrl.Current() == at {
		w.schedule()
	}
	return w
}

func (w *Watcher) onStageChange(prev, next stage.Stage) {
	if next == w.at {
		w.schedule()
		return
	}
	w.cancel()
}

func (w *Watcher) schedule() {
	w.cancel()
	w.timer = w.loop.After(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.timer = nil
	w.fired++
	w.ctrl.Advance()
}

func (w *Watcher) cancel() {
	w.timer.Stop()
	w.timer = nil
}

func (w *Watcher) Pending() bool { return w.timer.Pending() }

// Deadline is the loop time of the pending advance; ok is false when idle.
func (w *Watcher) Deadline() (at time.Duration, ok bool) {
	if !w.timer.Pending() {
		return 0, false
	}
	return w.timer.Deadline(), true
}

// Fired is the number of advances this watcher has issued.
func (w *Watcher) Fired() int { return w.fired }

func (w *Watcher) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.unsubscribe()
	w.cancel()
}
