package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTerminal          = 5
	DefaultSliderCutoff      = 4
	DefaultSliderWidth       = 180.0
	DefaultThumbSize         = 40.0
	DefaultThreshold         = 0.8
	DefaultCommitDelay       = 150 * time.Millisecond
	DefaultHapticPulse       = 10 * time.Millisecond
	DefaultResetDuration     = 300 * time.Millisecond
	DefaultAutoAdvanceDelay  = 2 * time.Second
	DefaultAutoAdvanceBuffer = 3 * time.Second
	DefaultFrame             = time.Second / 60
	DefaultParticleLifetime  = 800 * time.Millisecond
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Seed      int64          `yaml:"seed" toml:"seed" env:"REVEAL_SEED"`
	Stages    StageConfig    `yaml:"stages" toml:"stages"`
	Slider    SliderConfig   `yaml:"slider" toml:"slider"`
	Particles ParticleConfig `yaml:"particles" toml:"particles"`
	Timing    TimingConfig   `yaml:"timing" toml:"timing"`
	CTA       CTAConfig      `yaml:"cta" toml:"cta"`
}

type StageConfig struct {
	Terminal     int      `yaml:"terminal" toml:"terminal"`
	SliderCutoff int      `yaml:"slider_cutoff" toml:"slider_cutoff"`
	AutoStage    int      `yaml:"auto_stage" toml:"auto_stage"`
	Labels       []string `yaml:"labels" toml:"labels"`
}

type SpringConfig struct {
	Stiffness float64 `yaml:"stiffness" toml:"stiffness"`
	Damping   float64 `yaml:"damping" toml:"damping"`
	Mass      float64 `yaml:"mass" toml:"mass"`
}

type SliderConfig struct {
	Width         float64       `yaml:"width" toml:"width"`
	Thumb         float64       `yaml:"thumb" toml:"thumb"`
	Threshold     float64       `yaml:"threshold" toml:"threshold" env:"REVEAL_THRESHOLD"`
	Commit        SpringConfig  `yaml:"commit" toml:"commit"`
	Cancel        SpringConfig  `yaml:"cancel" toml:"cancel"`
	ResetDuration time.Duration `yaml:"reset_duration" toml:"reset_duration"`
	CommitDelay   time.Duration `yaml:"commit_delay" toml:"commit_delay" env:"REVEAL_COMMIT_DELAY"`
	HapticPulse   time.Duration `yaml:"haptic_pulse" toml:"haptic_pulse"`
}

type ParticleConfig struct {
	MinBatch int           `yaml:"min_batch" toml:"min_batch"`
	MaxBatch int           `yaml:"max_batch" toml:"max_batch"`
	Jitter   float64       `yaml:"jitter" toml:"jitter"`
	Lifetime time.Duration `yaml:"lifetime" toml:"lifetime" env:"REVEAL_PARTICLE_LIFETIME"`
}

// TimingConfig keeps the auto-advance wait as two named parts: the base
// delay and the buffer that lets the concurrent reveal sequence finish.
type TimingConfig struct {
	AutoAdvanceDelay  time.Duration `yaml:"auto_advance_delay" toml:"auto_advance_delay" env:"REVEAL_AUTO_ADVANCE_DELAY"`
	AutoAdvanceBuffer time.Duration `yaml:"auto_advance_buffer" toml:"auto_advance_buffer" env:"REVEAL_AUTO_ADVANCE_BUFFER"`
	Frame             time.Duration `yaml:"frame" toml:"frame"`
}

type Event struct {
	Name     string `yaml:"name" toml:"name"`
	Location string `yaml:"location" toml:"location"`
	Dates    string `yaml:"dates" toml:"dates"`
}

type CTAConfig struct {
	Brand      string  `yaml:"brand" toml:"brand"`
	Edition    string  `yaml:"edition" toml:"edition"`
	Title      string  `yaml:"title" toml:"title"`
	Events     []Event `yaml:"events" toml:"events"`
	Tagline    string  `yaml:"tagline" toml:"tagline"`
	Statement  string  `yaml:"statement" toml:"statement"`
	ButtonText string  `yaml:"button_text" toml:"button_text"`
	ButtonURL  string  `yaml:"button_url" toml:"button_url" env:"REVEAL_BUTTON_URL"`
	ShareTitle string  `yaml:"share_title" toml:"share_title"`
	ShareText  string  `yaml:"share_text" toml:"share_text"`
	ShareURL   string  `yaml:"share_url" toml:"share_url" env:"REVEAL_SHARE_URL"`
}

func DefaultConfig() *Config {
	return &Config{
		Stages: StageConfig{
			Terminal:     DefaultTerminal,
			SliderCutoff: DefaultSliderCutoff,
			AutoStage:    DefaultTerminal - 1,
			Labels: []string{
				"BEGIN THE CLIMB",
				"FIND YOUR FOOTING",
				"PUSH THROUGH",
				"REACH THE PEAK",
				"CELEBRATE",
			},
		},
		Slider: SliderConfig{
			Width:         DefaultSliderWidth,
			Thumb:         DefaultThumbSize,
			Threshold:     DefaultThreshold,
			Commit:        SpringConfig{Stiffness: 400, Damping: 30, Mass: 1},
			Cancel:        SpringConfig{Stiffness: 500, Damping: 30, Mass: 1},
			ResetDuration: DefaultResetDuration,
			CommitDelay:   DefaultCommitDelay,
			HapticPulse:   DefaultHapticPulse,
		},
		Particles: ParticleConfig{
			MinBatch: 6,
			MaxBatch: 8,
			Jitter:   10,
			Lifetime: DefaultParticleLifetime,
		},
		Timing: TimingConfig{
			AutoAdvanceDelay:  DefaultAutoAdvanceDelay,
			AutoAdvanceBuffer: DefaultAutoAdvanceBuffer,
			Frame:             DefaultFrame,
		},
		CTA: CTAConfig{
			Brand:   "FLUX REAL",
			Edition: "H1 2026",
			Title:   "Conversational AI Agents & The Future of UX",
			Events: []Event{
				{Name: "Design Summit", Location: "Lisbon", Dates: "MAR 12-14"},
				{Name: "Agents Week", Location: "Berlin", Dates: "MAY 20-22"},
			},
			Tagline:    "New year. New peaks.",
			Statement:  "See you there.",
			ButtonText: "Save your seat",
			ButtonURL:  "https://example.com/events",
			ShareTitle: "Flux Real 2026",
			ShareText:  "Check out this interactive New Year experience!",
			ShareURL:   "https://example.com",
		},
	}
}

// MaxDrag is how far the thumb travels inside the track.
func (c *Config) MaxDrag() float64 { return c.Slider.Width - c.Slider.Thumb }

// AutoAdvanceWait is the full delay before the timed advance fires.
func (c *Config) AutoAdvanceWait() time.Duration {
	return c.Timing.AutoAdvanceDelay + c.Timing.AutoAdvanceBuffer
}

// Load reads a yaml or toml file on top of DefaultConfig, then applies
// REVEAL_* environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve builds the effective configuration: the file at path if given,
// else the named preset, else the defaults. REVEAL_* overrides apply in every
// case and a non-zero seed replaces the configured one.
func Resolve(path, preset string, seed int64) (*Config, error) {
	var cfg *Config
	switch {
	case path != "":
		c, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset: %s (available: %v)", ErrInvalid, preset, ListPresets())
		}
		if err := ApplyEnv(cfg); err != nil {
			return nil, err
		}
	default:
		cfg = DefaultConfig()
		if err := ApplyEnv(cfg); err != nil {
			return nil, err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg fields from REVEAL_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	switch {
	case c.Stages.Terminal < 1:
		return fmt.Errorf("%w: terminal stage must be positive, got %d", ErrInvalid, c.Stages.Terminal)
	case c.Stages.AutoStage < 0 || c.Stages.AutoStage > c.Stages.Terminal:
		return fmt.Errorf("%w: auto stage %d outside [0,%d]", ErrInvalid, c.Stages.AutoStage, c.Stages.Terminal)
	case c.Stages.SliderCutoff < 1 || c.Stages.SliderCutoff > c.Stages.Terminal:
		return fmt.Errorf("%w: slider cutoff %d outside [1,%d]", ErrInvalid, c.Stages.SliderCutoff, c.Stages.Terminal)
	case c.Slider.Width <= 0 || c.Slider.Thumb <= 0 || c.Slider.Thumb >= c.Slider.Width:
		return fmt.Errorf("%w: thumb %.1f must fit inside track %.1f", ErrInvalid, c.Slider.Thumb, c.Slider.Width)
	case c.Slider.Threshold <= 0 || c.Slider.Threshold > 1:
		return fmt.Errorf("%w: threshold must be in (0,1], got %f", ErrInvalid, c.Slider.Threshold)
	case c.Slider.Commit.Stiffness <= 0 || c.Slider.Cancel.Stiffness <= 0:
		return fmt.Errorf("%w: spring stiffness must be positive", ErrInvalid)
	case c.Slider.CommitDelay < 0 || c.Slider.ResetDuration < 0:
		return fmt.Errorf("%w: slider durations must not be negative", ErrInvalid)
	case c.Particles.MinBatch < 1 || c.Particles.MaxBatch < c.Particles.MinBatch:
		return fmt.Errorf("%w: particle batch range [%d,%d]", ErrInvalid, c.Particles.MinBatch, c.Particles.MaxBatch)
	case c.Particles.Jitter < 0:
		return fmt.Errorf("%w: jitter must not be negative, got %f", ErrInvalid, c.Particles.Jitter)
	case c.Particles.Lifetime <= 0:
		return fmt.Errorf("%w: particle lifetime must be positive, got %v", ErrInvalid, c.Particles.Lifetime)
	case c.Timing.AutoAdvanceDelay < 0 || c.Timing.AutoAdvanceBuffer < 0:
		return fmt.Errorf("%w: auto-advance delays must not be negative", ErrInvalid)
	case c.Timing.Frame <= 0:
		return fmt.Errorf("%w: frame must be positive, got %v", ErrInvalid, c.Timing.Frame)
	}
	return nil
}

// Label returns the caption for stage s, or "" when none is configured.
func (c *Config) Label(s int) string {
	if s < 0 || s >= len(c.Stages.Labels) {
		return ""
	}
	return c.Stages.Labels[s]
}
