package overlay

import (
	"time"

	"github.com/san-kum/reveal/internal/particle"
	"github.com/san-kum/reveal/internal/stage"
)

// Snapshot is everything the presentation layer needs for one frame.
type Snapshot struct {
	Time     time.Duration
	Stage    stage.Stage
	Terminal stage.Stage
	Label    string

	SliderVisible bool
	SliderLabel   string
	Position      float64
	MaxDrag       float64
	// Fill is the lit fraction of the track, thumb included.
	Fill     float64
	Dragging bool
	Settling bool

	Particles    []particle.Particle
	SoundEnabled bool
	CTAVisible   bool
	AutoPending  bool
}

func (o *Overlay) Snapshot() Snapshot {
	s := Snapshot{
		Time:          o.loop.Now(),
		Stage:         o.ctrl.Current(),
		Terminal:      o.ctrl.Terminal(),
		SliderVisible: o.slider.Active(),
		Position:      o.slider.Position(),
		MaxDrag:       o.slider.Max(),
		Dragging:      o.slider.Dragging(),
		Settling:      o.slider.Settling(),
		Particles:     o.particles.Live(),
		SoundEnabled:  o.soundEnabled,
		CTAVisible:    o.ctrl.AtTerminal(),
		AutoPending:   o.auto.Pending(),
	}
	if !s.CTAVisible {
		s.Label = o.cfg.Label(int(s.Stage))
	}
	if s.SliderVisible {
		s.SliderLabel = "Continue"
		if s.Stage == 0 {
			s.SliderLabel = "Slide"
		}
	}
	width := o.cfg.Slider.Width
	s.Fill = (o.cfg.Slider.Thumb + s.Position) / width
	return s
}
