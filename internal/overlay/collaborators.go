package overlay

import "time"

// Haptics delivers a short vibration. Implementations may return an error
// when unsupported; the overlay logs and ignores it.
type Haptics interface {
	Pulse(d time.Duration) error
}

// Share is the payload handed to a Sharer.
type Share struct {
	Title string
	Text  string
	URL   string
}

type Sharer interface {
	Share(s Share) error
}

// Audio mirrors the sound toggle to an output device.
type Audio interface {
	SetEnabled(enabled bool) error
}

type HapticsFunc func(d time.Duration) error

func (f HapticsFunc) Pulse(d time.Duration) error { return f(d) }

type SharerFunc func(s Share) error

func (f SharerFunc) Share(s Share) error { return f(s) }
