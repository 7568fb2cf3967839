package tui

import (
	"errors"
	"time"

	"github.com/atotto/clipboard"

	"github.com/san-kum/reveal/internal/overlay"
)

// minFlash keeps a haptic pulse visible for a few frames.
const minFlash = 120 * time.Millisecond

// flash stands in for a vibration motor: a pulse lights the slider border.
type flash struct {
	now    func() time.Duration
	until  time.Duration
	pulses int
}

func (f *flash) Pulse(d time.Duration) error {
	if d < minFlash {
		d = minFlash
	}
	f.until = f.now() + d
	f.pulses++
	return nil
}

func (f *flash) active() bool { return f.pulses > 0 && f.now() < f.until }

var errNoClipboard = errors.New("clipboard unavailable")

// clipboardSharer copies the share text and link to the system clipboard.
type clipboardSharer struct {
	write func(string) error
}

func newClipboardSharer(write func(string) error) clipboardSharer {
	if write == nil {
		write = clipboard.WriteAll
		if clipboard.Unsupported {
			write = func(string) error { return errNoClipboard }
		}
	}
	return clipboardSharer{write: write}
}

func (c clipboardSharer) Share(s overlay.Share) error {
	text := s.URL
	if s.Text != "" {
		text = s.Text + " " + s.URL
	}
	return c.write(text)
}
