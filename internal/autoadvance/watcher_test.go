package autoadvance

import (
	"testing"
	"time"

	"github.com/san-kum/reveal/internal/sched"
	"github.com/san-kum/reveal/internal/stage"
)

const testDelay = 2*time.Second + 3*time.Second

func advanceTo(c *stage.Controller, s stage.Stage) {
	for c.Current() < s {
		c.Advance()
	}
}

func TestFiresOnceAfterDelay(t *testing.T) {
	loop := sched.NewLoop()
	ctrl := stage.New(stage.DefaultTerminal)
	w := New(loop, ctrl, 4, testDelay)

	advanceTo(ctrl, 4)
	if !w.Pending() {
		t.Fatal("expected a pending advance on entering stage 4")
	}

	loop.Advance(testDelay - time.Millisecond)
	if ctrl.Current() != 4 {
		t.Fatalf("advanced early to %d", ctrl.Current())
	}
	loop.Advance(time.Millisecond)
	if ctrl.Current() != 5 {
		t.Errorf("expected stage 5, got %d", ctrl.Current())
	}

	loop.Advance(time.Minute)
	if w.Fired() != 1 {
		t.Errorf("expected one advance, got %d", w.Fired())
	}
	if ctrl.Current() != 5 {
		t.Errorf("expected to stay at 5, got %d", ctrl.Current())
	}
}

func TestIgnoresOtherStages(t *testing.T) {
	loop := sched.NewLoop()
	ctrl := stage.New(stage.DefaultTerminal)
	w := New(loop, ctrl, 4, testDelay)

	advanceTo(ctrl, 3)
	loop.Advance(time.Minute)
	if w.Pending() || w.Fired() != 0 {
		t.Error("watcher reacted to a non-watched stage")
	}
	if ctrl.Current() != 3 {
		t.Errorf("expected stage 3, got %d", ctrl.Current())
	}
}

func TestLeavingStageCancels(t *testing.T) {
	loop := sched.NewLoop()
	ctrl := stage.New(stage.DefaultTerminal)
	w := New(loop, ctrl, 4, testDelay)

	advanceTo(ctrl, 4)
	loop.Advance(time.Second)
	ctrl.Advance()

	if w.Pending() {
		t.Error("expected timer cancelled after leaving stage 4")
	}
	loop.Advance(time.Minute)
	if w.Fired() != 0 {
		t.Errorf("expected zero auto advances, got %d", w.Fired())
	}
}

func TestReentryReplacesTimer(t *testing.T) {
	loop := sched.NewLoop()
	ctrl := stage.New(stage.DefaultTerminal)
	advanceTo(ctrl, 3)
	w := New(loop, ctrl, 4, testDelay)

	w.onStageChange(3, 4)
	loop.Advance(time.Second)
	w.onStageChange(3, 4)
	if loop.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", loop.Pending())
	}
	at, ok := w.Deadline()
	if !ok || at != time.Second+testDelay {
		t.Errorf("expected fresh deadline %v, got %v (ok=%v)", time.Second+testDelay, at, ok)
	}
}

func TestStartsWhenAlreadyAtStage(t *testing.T) {
	loop := sched.NewLoop()
	ctrl := stage.New(stage.DefaultTerminal)
	advanceTo(ctrl, 4)
	w := New(loop, ctrl, 4, testDelay)

	loop.Advance(testDelay)
	if ctrl.Current() != 5 || w.Fired() != 1 {
		t.Errorf("expected one advance to 5, got stage %d fired %d", ctrl.Current(), w.Fired())
	}
}

func TestCloseCancels(t *testing.T) {
	loop := sched.NewLoop()
	ctrl := stage.New(stage.DefaultTerminal)
	w := New(loop, ctrl, 4, testDelay)
	advanceTo(ctrl, 4)

	w.Close()
	w.Close()
	loop.Advance(time.Minute)
	if ctrl.Current() != 4 {
		t.Errorf("closed watcher advanced to %d", ctrl.Current())
	}
	if ctrl.Observers() != 0 {
		t.Errorf("expected unsubscribe, %d observers left", ctrl.Observers())
	}
}
