package overlay_test

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reveal/internal/config"
	"github.com/san-kum/reveal/internal/gesture"
	"github.com/san-kum/reveal/internal/overlay"
	"github.com/san-kum/reveal/internal/particle"
	"github.com/san-kum/reveal/internal/stage"
)

type recorder struct {
	pulses  []time.Duration
	shares  []overlay.Share
	audio   []bool
	logs    []string
	failAll bool
}

func (r *recorder) Pulse(d time.Duration) error {
	if r.failAll {
		return errors.New("vibration unsupported")
	}
	r.pulses = append(r.pulses, d)
	return nil
}

func (r *recorder) Share(s overlay.Share) error {
	if r.failAll {
		return errors.New("share cancelled")
	}
	r.shares = append(r.shares, s)
	return nil
}

func (r *recorder) SetEnabled(enabled bool) error {
	if r.failAll {
		return errors.New("no audio device")
	}
	r.audio = append(r.audio, enabled)
	return nil
}

func (r *recorder) logf(format string, args ...any) {
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

var _ = Describe("Overlay", func() {
	var (
		cfg *config.Config
		rec *recorder
		o   *overlay.Overlay
	)

	mount := func() {
		var err error
		o, err = overlay.Mount(overlay.Options{
			Config:  cfg,
			Rand:    rand.New(rand.NewSource(1)),
			Haptics: rec,
			Sharer:  rec,
			Audio:   rec,
			Logf:    rec.logf,
		})
		Expect(err).NotTo(HaveOccurred())
	}

	swipe := func(ratio float64) gesture.Outcome {
		Expect(o.Grab()).To(BeTrue())
		o.DragRatio(ratio)
		return o.Release()
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		rec = &recorder{}
		mount()
	})

	AfterEach(func() {
		o.Unmount()
	})

	It("starts at stage 0 with the slider armed", func() {
		snap := o.Snapshot()
		Expect(snap.Stage).To(Equal(stage.Stage(0)))
		Expect(snap.SliderVisible).To(BeTrue())
		Expect(snap.SliderLabel).To(Equal("Slide"))
		Expect(snap.Label).To(Equal(cfg.Label(0)))
		Expect(snap.Position).To(BeZero())
		Expect(snap.Fill).To(BeNumerically("~", cfg.Slider.Thumb/cfg.Slider.Width, 1e-9))
		Expect(snap.CTAVisible).To(BeFalse())
		Expect(snap.SoundEnabled).To(BeTrue())
	})

	It("commits a swipe past the threshold and advances exactly once", func() {
		Expect(swipe(0.9)).To(Equal(gesture.OutcomeCommit))
		Expect(o.Stage()).To(Equal(stage.Stage(0)))

		o.Advance(3 * time.Second)

		Expect(o.Stage()).To(Equal(stage.Stage(1)))
		Expect(o.Position()).To(BeZero())
		Expect(rec.pulses).To(Equal([]time.Duration{cfg.Slider.HapticPulse}))
		Expect(o.Stats().Advances).To(Equal(1))
		Expect(o.Snapshot().SliderLabel).To(Equal("Continue"))
	})

	It("cancels a short swipe and keeps the stage", func() {
		for i := 0; i < 3; i++ {
			swipe(0.95)
			o.Advance(3 * time.Second)
		}
		Expect(o.Stage()).To(Equal(stage.Stage(3)))

		Expect(swipe(0.5)).To(Equal(gesture.OutcomeCancel))
		o.Advance(3 * time.Second)

		Expect(o.Stage()).To(Equal(stage.Stage(3)))
		Expect(o.Position()).To(BeZero())
		Expect(o.Stats().Cancels).To(Equal(1))
	})

	It("commits at the exact threshold and cancels just below it", func() {
		Expect(o.Grab()).To(BeTrue())
		o.Drag(cfg.Slider.Threshold*cfg.MaxDrag() - 1)
		Expect(o.Release()).To(Equal(gesture.OutcomeCancel))
		o.Advance(time.Second)

		Expect(o.Grab()).To(BeTrue())
		o.Drag(cfg.Slider.Threshold * cfg.MaxDrag())
		Expect(o.Release()).To(Equal(gesture.OutcomeCommit))
	})

	It("auto-advances from stage 4 to the terminal stage after the configured wait", func() {
		for o.Stage() < 4 {
			swipe(1)
			o.Advance(2 * time.Second)
		}
		Expect(o.Stage()).To(Equal(stage.Stage(4)))
		Expect(o.AutoAdvancePending()).To(BeTrue())
		Expect(o.Snapshot().SliderVisible).To(BeFalse())

		// The last commit settled somewhere inside the previous advance window.
		o.Advance(cfg.AutoAdvanceWait())
		Expect(o.Stage()).To(Equal(stage.Stage(5)))

		o.Advance(time.Minute)
		Expect(o.Stage()).To(Equal(stage.Stage(5)))
		Expect(o.Stats().Advances).To(Equal(5))

		snap := o.Snapshot()
		Expect(snap.CTAVisible).To(BeTrue())
		Expect(snap.Label).To(BeEmpty())
		Expect(snap.SliderLabel).To(BeEmpty())
	})

	It("waits the full base delay plus buffer before the timed advance", func() {
		for o.Stage() < 3 {
			swipe(1)
			o.Advance(2 * time.Second)
		}
		swipe(1)
		for o.Stage() < 4 {
			o.Advance(time.Millisecond)
		}
		entered := o.Now()

		o.AdvanceTo(entered + cfg.AutoAdvanceWait() - time.Millisecond)
		Expect(o.Stage()).To(Equal(stage.Stage(4)))
		o.AdvanceTo(entered + cfg.AutoAdvanceWait())
		Expect(o.Stage()).To(Equal(stage.Stage(5)))
	})

	It("ignores the slider once the cutoff stage is reached", func() {
		for o.Stage() < 4 {
			swipe(1)
			o.Advance(2 * time.Second)
		}
		Expect(o.Grab()).To(BeFalse())
		Expect(o.Release()).To(Equal(gesture.OutcomeIgnored))
	})

	It("spawns self-expiring particles independently of the stage", func() {
		o.Tap(particle.Point{X: 10, Y: 10}, particle.Point{X: 300, Y: 200})
		live := o.Particles()
		Expect(len(live)).To(BeNumerically(">=", 12))
		Expect(len(live)).To(BeNumerically("<=", 16))
		Expect(o.Stage()).To(Equal(stage.Stage(0)))

		o.Advance(cfg.Particles.Lifetime - time.Millisecond)
		Expect(o.Particles()).To(HaveLen(len(live)))
		o.Advance(time.Millisecond)
		Expect(o.Particles()).To(BeEmpty())
	})

	It("shares only on the terminal stage and swallows collaborator failures", func() {
		Expect(o.Share()).To(BeFalse())
		for o.Stage() < 4 {
			swipe(1)
			o.Advance(2 * time.Second)
		}
		o.Advance(cfg.AutoAdvanceWait())
		Expect(o.Share()).To(BeTrue())
		Expect(rec.shares).To(HaveLen(1))
		Expect(rec.shares[0].URL).To(Equal(cfg.CTA.ShareURL))

		rec.failAll = true
		Expect(o.Share()).To(BeFalse())
		Expect(o.Stage()).To(Equal(stage.Stage(5)))
		Expect(rec.logs).To(ContainElement(ContainSubstring("share cancelled")))
	})

	It("keeps advancing when haptics are unsupported", func() {
		rec.failAll = true
		swipe(1)
		o.Advance(2 * time.Second)
		Expect(o.Stage()).To(Equal(stage.Stage(1)))
		Expect(o.Stats().Haptics).To(BeZero())
		Expect(rec.logs).To(ContainElement(ContainSubstring("vibration unsupported")))
	})

	It("toggles sound without touching the stage", func() {
		Expect(o.ToggleSound()).To(BeFalse())
		Expect(o.ToggleSound()).To(BeTrue())
		Expect(rec.audio).To(Equal([]bool{false, true}))
		Expect(o.Stage()).To(Equal(stage.Stage(0)))
	})

	It("fires nothing after unmount", func() {
		swipe(1)
		o.Tap(particle.Point{X: 1, Y: 1})
		o.Unmount()
		o.Unmount()

		o.Advance(time.Minute)
		Expect(o.Stage()).To(Equal(stage.Stage(0)))
		Expect(o.Mounted()).To(BeFalse())
		Expect(o.Grab()).To(BeFalse())
		Expect(o.Particles()).To(BeEmpty())
	})

	It("accepts plain functions as collaborators", func() {
		o.Unmount()
		var pulses []time.Duration
		var shared []string
		var err error
		o, err = overlay.Mount(overlay.Options{
			Config:  cfg,
			Rand:    rand.New(rand.NewSource(1)),
			Haptics: overlay.HapticsFunc(func(d time.Duration) error { pulses = append(pulses, d); return nil }),
			Sharer:  overlay.SharerFunc(func(s overlay.Share) error { shared = append(shared, s.URL); return nil }),
			Logf:    rec.logf,
		})
		Expect(err).NotTo(HaveOccurred())

		for o.Stage() < 4 {
			swipe(1)
			o.Advance(2 * time.Second)
		}
		o.Advance(cfg.AutoAdvanceWait())
		Expect(o.Share()).To(BeTrue())

		Expect(pulses).To(HaveLen(4))
		Expect(shared).To(Equal([]string{cfg.CTA.ShareURL}))
	})

	Context("with an invalid configuration", func() {
		It("refuses to mount", func() {
			bad := config.DefaultConfig()
			bad.Particles.Lifetime = 0
			_, err := overlay.Mount(overlay.Options{Config: bad})
			Expect(err).To(MatchError(config.ErrInvalid))
		})
	})
})
