package sched

import (
	"container/heap"
	"time"
)

// DefaultFrame is the animation frame interval used when none is configured.
const DefaultFrame = time.Second / 60

// Loop is a single-threaded virtual-time timer queue. Time only moves when
// the owner calls Advance or AdvanceTo; due callbacks run on the caller's
// goroutine in (deadline, scheduling order) order.
type Loop struct {
	now    time.Duration
	seq    uint64
	queue  timerQueue
	closed bool
}

func NewLoop() *Loop {
	return &Loop{}
}

func (l *Loop) Now() time.Duration { return l.now }

// Pending reports the number of scheduled, unfired timers.
func (l *Loop) Pending() int { return len(l.queue) }

// After schedules fn to run d after the current loop time. A non-positive d
// runs fn on the next Advance. Scheduling on a closed loop returns a timer
// that never fires.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	t := &Timer{loop: l, at: l.now + d, fn: fn, index: -1}
	if l.closed {
		t.state = timerStopped
		return t
	}
	l.seq++
	t.seq = l.seq
	heap.Push(&l.queue, t)
	return t
}

func (l *Loop) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	l.AdvanceTo(l.now + d)
}

// AdvanceTo fires every timer due at or before target, including timers
// scheduled by callbacks during this call, then sets the clock to target.
// Moving backwards is ignored.
func (l *Loop) AdvanceTo(target time.Duration) {
	if target < l.now {
		return
	}
	for len(l.queue) > 0 && !l.closed {
		next := l.queue[0]
		if next.at > target {
			break
		}
		heap.Pop(&l.queue)
		l.now = next.at
		next.state = timerFired
		if next.fn != nil {
			next.fn()
		}
	}
	if !l.closed {
		l.now = target
	}
}

// Close stops every pending timer. Later After calls return inert timers.
func (l *Loop) Close() {
	if l.closed {
		return
	}
	l.closed = true
	for _, t := range l.queue {
		t.state = timerStopped
		t.index = -1
	}
	l.queue = nil
}

type timerState uint8

const (
	timerPending timerState = iota
	timerFired
	timerStopped
)

// Timer is a cancellation handle for a scheduled callback.
type Timer struct {
	loop  *Loop
	at    time.Duration
	seq   uint64
	fn    func()
	index int
	state timerState
}

// Stop cancels the timer. It reports whether the call prevented the callback
// from running; stopping a fired, stopped or nil timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || t.state != timerPending {
		return false
	}
	t.state = timerStopped
	if t.index >= 0 {
		heap.Remove(&t.loop.queue, t.index)
	}
	return true
}

func (t *Timer) Pending() bool { return t != nil && t.state == timerPending }

// Deadline is the loop time at which the timer fires.
func (t *Timer) Deadline() time.Duration { return t.at }

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
