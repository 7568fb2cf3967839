package config

import (
	"sort"
	"time"
)

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"quick": func() *Config {
		cfg := DefaultConfig()
		cfg.Slider.CommitDelay = 50 * time.Millisecond
		cfg.Slider.ResetDuration = 150 * time.Millisecond
		cfg.Timing.AutoAdvanceDelay = 500 * time.Millisecond
		cfg.Timing.AutoAdvanceBuffer = 500 * time.Millisecond
		return cfg
	},
	"slowmo": func() *Config {
		cfg := DefaultConfig()
		cfg.Slider.Commit = SpringConfig{Stiffness: 100, Damping: 12, Mass: 1}
		cfg.Slider.Cancel = SpringConfig{Stiffness: 120, Damping: 15, Mass: 1}
		cfg.Slider.ResetDuration = time.Second
		cfg.Particles.Lifetime = 2 * time.Second
		return cfg
	},
	"touch": func() *Config {
		cfg := DefaultConfig()
		cfg.Slider.Threshold = 0.7
		cfg.Particles.MinBatch = 8
		cfg.Particles.MaxBatch = 12
		cfg.Particles.Jitter = 16
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
