// Package overlay composes the staged reveal: one stage controller, the
// slider gesture recognizer, the particle manager and the auto-advance
// watcher, all sharing a single scheduler loop. Mount acquires every
// subscription and timer; Unmount releases them at one point.
package overlay

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/san-kum/reveal/internal/autoadvance"
	"github.com/san-kum/reveal/internal/config"
	"github.com/san-kum/reveal/internal/gesture"
	"github.com/san-kum/reveal/internal/motion"
	"github.com/san-kum/reveal/internal/particle"
	"github.com/san-kum/reveal/internal/sched"
	"github.com/san-kum/reveal/internal/stage"
)

type Options struct {
	Config  *config.Config
	Loop    *sched.Loop
	Rand    *rand.Rand
	Haptics Haptics
	Sharer  Sharer
	Audio   Audio
	Logf    func(format string, args ...any)
}

// Stats counts what happened during a session.
type Stats struct {
	Advances int
	Commits  int
	Cancels  int
	Taps     int
	Haptics  int
	Shares   int
}

type Overlay struct {
	cfg  *config.Config
	loop *sched.Loop
	logf func(format string, args ...any)

	ctrl      *stage.Controller
	slider    *gesture.Recognizer
	particles *particle.Manager
	auto      *autoadvance.Watcher

	haptics Haptics
	sharer  Sharer
	audio   Audio

	soundEnabled bool
	stats        Stats
	unwatch      func()
	unmounted    bool
}

// Mount validates the configuration and starts a session at stage 0.
func Mount(opts Options) (*Overlay, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mount overlay: %w", err)
	}
	loop := opts.Loop
	if loop == nil {
		loop = sched.NewLoop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}

	o := &Overlay{
		cfg:          cfg,
		loop:         loop,
		logf:         logf,
		haptics:      opts.Haptics,
		sharer:       opts.Sharer,
		audio:        opts.Audio,
		soundEnabled: true,
	}

	o.ctrl = stage.New(stage.Stage(cfg.Stages.Terminal))
	o.unwatch = o.ctrl.Subscribe(o.onStageChange)
	o.slider = gesture.New(loop, o.ctrl, gesture.Config{
		Max:         cfg.MaxDrag(),
		Threshold:   cfg.Slider.Threshold,
		Cutoff:      stage.Stage(cfg.Stages.SliderCutoff),
		Commit:      spring(cfg.Slider.Commit),
		Cancel:      spring(cfg.Slider.Cancel),
		Reset:       motion.Tween{Duration: cfg.Slider.ResetDuration, Ease: motion.EaseOut},
		CommitDelay: cfg.Slider.CommitDelay,
		Frame:       cfg.Timing.Frame,
	}, gesture.Hooks{
		OnComplete: o.ctrl.Advance,
		Haptic:     o.pulse,
	})
	o.particles = particle.New(loop, particle.Config{
		MinBatch: cfg.Particles.MinBatch,
		MaxBatch: cfg.Particles.MaxBatch,
		Jitter:   cfg.Particles.Jitter,
		Lifetime: cfg.Particles.Lifetime,
	}, rng)
	o.auto = autoadvance.New(loop, o.ctrl, stage.Stage(cfg.Stages.AutoStage), cfg.AutoAdvanceWait())

	return o, nil
}

func spring(c config.SpringConfig) motion.Spring {
	return motion.Spring{Stiffness: c.Stiffness, Damping: c.Damping, Mass: c.Mass}
}

// Unmount cancels every timer and subscription. No callback runs afterwards.
func (o *Overlay) Unmount() {
	if o.unmounted {
		return
	}
	o.unmounted = true
	o.auto.Close()
	o.particles.Close()
	o.slider.Close()
	o.unwatch()
	o.loop.Close()
}

func (o *Overlay) Mounted() bool { return !o.unmounted }

func (o *Overlay) onStageChange(prev, next stage.Stage) {
	o.stats.Advances++
	o.logf("stage %d -> %d", prev, next)
}

func (o *Overlay) pulse() {
	if o.haptics == nil {
		return
	}
	if err := o.haptics.Pulse(o.cfg.Slider.HapticPulse); err != nil {
		o.logf("haptic pulse: %v", err)
		return
	}
	o.stats.Haptics++
}

// Tap spawns feedback particles at each pointer position.
func (o *Overlay) Tap(points ...particle.Point) {
	if o.unmounted || len(points) == 0 {
		return
	}
	o.stats.Taps++
	o.particles.Spawn(points...)
}

func (o *Overlay) Grab() bool {
	if o.unmounted {
		return false
	}
	return o.slider.Grab()
}

func (o *Overlay) Drag(position float64) {
	if o.unmounted {
		return
	}
	o.slider.Drag(position)
}

// DragRatio drags to a fraction of the slider travel.
func (o *Overlay) DragRatio(ratio float64) {
	o.Drag(ratio * o.slider.Max())
}

func (o *Overlay) Release() gesture.Outcome {
	if o.unmounted {
		return gesture.OutcomeIgnored
	}
	out := o.slider.Release()
	switch out {
	case gesture.OutcomeCommit:
		o.stats.Commits++
	case gesture.OutcomeCancel:
		o.stats.Cancels++
	}
	return out
}

// Share hands the CTA link to the sharer. It only acts on the terminal
// stage; failures are logged and reported as false.
func (o *Overlay) Share() bool {
	if o.unmounted || o.sharer == nil || !o.ctrl.AtTerminal() {
		return false
	}
	err := o.sharer.Share(Share{
		Title: o.cfg.CTA.ShareTitle,
		Text:  o.cfg.CTA.ShareText,
		URL:   o.cfg.CTA.ShareURL,
	})
	if err != nil {
		o.logf("share: %v", err)
		return false
	}
	o.stats.Shares++
	return true
}

func (o *Overlay) ToggleSound() bool {
	o.soundEnabled = !o.soundEnabled
	if o.audio != nil {
		if err := o.audio.SetEnabled(o.soundEnabled); err != nil {
			o.logf("audio toggle: %v", err)
		}
	}
	return o.soundEnabled
}

func (o *Overlay) SoundEnabled() bool { return o.soundEnabled }

func (o *Overlay) Advance(d time.Duration) { o.loop.Advance(d) }

func (o *Overlay) AdvanceTo(t time.Duration) { o.loop.AdvanceTo(t) }

func (o *Overlay) Now() time.Duration { return o.loop.Now() }

func (o *Overlay) Stage() stage.Stage { return o.ctrl.Current() }

func (o *Overlay) Stats() Stats { return o.stats }

// Dragging reports whether a slider session is open.
func (o *Overlay) Dragging() bool { return o.slider.Dragging() }

// Position is the slider handle position in [0, MaxDrag].
func (o *Overlay) Position() float64 { return o.slider.Position() }

func (o *Overlay) Particles() []particle.Particle { return o.particles.Live() }

func (o *Overlay) AutoAdvancePending() bool { return o.auto.Pending() }
