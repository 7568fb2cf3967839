package scenario

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/reveal/internal/config"
	"github.com/san-kum/reveal/internal/overlay"
	"github.com/san-kum/reveal/internal/particle"
	"github.com/san-kum/reveal/internal/sched"
	"github.com/san-kum/reveal/internal/stage"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSample = 50 * time.Millisecond
	// Time allowed after the last step for settles and timers to play out.
	DefaultTail = 8 * time.Second
)

var ErrUnknownAction = errors.New("scenario: unknown action")

type Action string

const (
	ActionTap     Action = "tap"
	ActionGrab    Action = "grab"
	ActionDrag    Action = "drag"
	ActionRelease Action = "release"
	ActionSwipe   Action = "swipe"
	ActionShare   Action = "share"
	ActionSound   Action = "sound"
)

// Scenario is a scripted sequence of timed inputs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Preset      string        `yaml:"preset"`
	Duration    time.Duration `yaml:"duration"`
	Sample      time.Duration `yaml:"sample"`
	Steps       []Step        `yaml:"steps"`
}

// Step is one input at an offset from the start of the run.
type Step struct {
	At       time.Duration `yaml:"at"`
	Action   Action        `yaml:"action"`
	Points   [][2]float64  `yaml:"points"`
	Position *float64      `yaml:"position"`
	Ratio    *float64      `yaml:"ratio"`
}

// Sample is the observable state at one instant.
type Sample struct {
	Time      time.Duration
	Stage     stage.Stage
	Position  float64
	Particles int
	Sound     bool
}

type Result struct {
	Name       string
	Samples    []Sample
	Stats      overlay.Stats
	FinalStage stage.Stage
	Elapsed    time.Duration
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		if step.At < 0 {
			return fmt.Errorf("step %d: negative offset %v", i+1, step.At)
		}
		switch step.Action {
		case ActionTap:
			if len(step.Points) == 0 {
				return fmt.Errorf("step %d: tap needs at least one point", i+1)
			}
		case ActionDrag:
			if step.Position == nil && step.Ratio == nil {
				return fmt.Errorf("step %d: drag needs position or ratio", i+1)
			}
		case ActionGrab, ActionRelease, ActionSwipe, ActionShare, ActionSound:
		default:
			return fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, step.Action)
		}
	}
	return nil
}

// End is the run length: Duration if set, otherwise the last step plus DefaultTail.
func (s *Scenario) End() time.Duration {
	if s.Duration > 0 {
		return s.Duration
	}
	var last time.Duration
	for _, step := range s.Steps {
		if step.At > last {
			last = step.At
		}
	}
	return last + DefaultTail
}

// Run plays the scenario against a fresh overlay on virtual time. A nil cfg
// is resolved from the scenario's preset (or the defaults) with REVEAL_*
// overrides applied.
func Run(ctx context.Context, s *Scenario, cfg *config.Config, opts overlay.Options) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		c, err := config.Resolve("", s.Preset, 0)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	loop := sched.NewLoop()
	opts.Config = cfg
	opts.Loop = loop
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(cfg.Seed))
	}
	o, err := overlay.Mount(opts)
	if err != nil {
		return nil, err
	}
	defer o.Unmount()

	for _, step := range s.Steps {
		step := step
		loop.After(step.At, func() { apply(o, step) })
	}

	sample := s.Sample
	if sample <= 0 {
		sample = DefaultSample
	}
	end := s.End()
	result := &Result{Name: s.Name, Samples: make([]Sample, 0, int(end/sample)+1)}

	for t := time.Duration(0); ; t += sample {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		if t > end {
			t = end
		}
		o.AdvanceTo(t)
		result.Samples = append(result.Samples, Sample{
			Time:      t,
			Stage:     o.Stage(),
			Position:  o.Position(),
			Particles: len(o.Particles()),
			Sound:     o.SoundEnabled(),
		})
		if t >= end {
			break
		}
	}

	result.Stats = o.Stats()
	result.FinalStage = o.Stage()
	result.Elapsed = o.Now()
	return result, nil
}

func apply(o *overlay.Overlay, step Step) {
	switch step.Action {
	case ActionTap:
		points := make([]particle.Point, len(step.Points))
		for i, p := range step.Points {
			points[i] = particle.Point{X: p[0], Y: p[1]}
		}
		o.Tap(points...)
	case ActionGrab:
		o.Grab()
	case ActionDrag:
		drag(o, step)
	case ActionRelease:
		o.Release()
	case ActionSwipe:
		o.Grab()
		if step.Position == nil && step.Ratio == nil {
			o.DragRatio(1)
		} else {
			drag(o, step)
		}
		o.Release()
	case ActionShare:
		o.Share()
	case ActionSound:
		o.ToggleSound()
	}
}

func drag(o *overlay.Overlay, step Step) {
	if step.Ratio != nil {
		o.DragRatio(*step.Ratio)
		return
	}
	o.Drag(*step.Position)
}
