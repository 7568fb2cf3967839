package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/reveal/internal/config"
	"github.com/san-kum/reveal/internal/stage"
)

type harness struct {
	t      *testing.T
	m      *Model
	t0     time.Time
	clock  time.Duration
	copied []string
	fail   bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, t0: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m, err := New(Options{
		Config: config.DefaultConfig(),
		Clipboard: func(s string) error {
			if h.fail {
				return errors.New("no clipboard")
			}
			h.copied = append(h.copied, s)
			return nil
		},
		Logf: func(string, ...any) {},
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	h.m = m
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(frameMsg(h.t0))
	t.Cleanup(func() { m.Overlay().Unmount() })
	return h
}

func (h *harness) wait(d time.Duration) {
	h.clock += d
	h.m.Update(frameMsg(h.t0.Add(h.clock)))
}

func (h *harness) key(k tea.KeyMsg) tea.Cmd {
	_, cmd := h.m.Update(k)
	return cmd
}

func (h *harness) mouse(action tea.MouseAction, x, y int) {
	h.m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func (h *harness) keyboardSwipe() {
	for i := 0; i < 9; i++ {
		h.key(tea.KeyMsg{Type: tea.KeyRight})
	}
	h.key(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestMouseSwipeAdvancesStage(t *testing.T) {
	h := newHarness(t)
	l := h.m.layout()
	x := l.left + 2

	h.mouse(tea.MouseActionPress, x, l.sliderRow)
	if !h.m.Overlay().Dragging() {
		t.Fatal("expected press on the thumb to grab the slider")
	}
	h.mouse(tea.MouseActionMotion, x+l.cols, l.sliderRow)
	if got := h.m.Overlay().Position(); got != h.m.cfg.MaxDrag() {
		t.Errorf("expected position clamped to %f, got %f", h.m.cfg.MaxDrag(), got)
	}
	h.mouse(tea.MouseActionRelease, x+l.cols, l.sliderRow)

	h.wait(2 * time.Second)
	if got := h.m.Overlay().Stage(); got != stage.Stage(1) {
		t.Errorf("expected stage 1, got %d", got)
	}
	if h.m.flash.pulses != 1 {
		t.Errorf("expected 1 haptic flash, got %d", h.m.flash.pulses)
	}
}

func TestShortMouseDragCancels(t *testing.T) {
	h := newHarness(t)
	l := h.m.layout()
	x := l.left + 2

	h.mouse(tea.MouseActionPress, x, l.sliderRow)
	h.mouse(tea.MouseActionMotion, x+5, l.sliderRow)
	h.mouse(tea.MouseActionRelease, x+5, l.sliderRow)

	h.wait(2 * time.Second)
	if got := h.m.Overlay().Stage(); got != 0 {
		t.Errorf("expected stage 0, got %d", got)
	}
	if got := h.m.Overlay().Position(); got != 0 {
		t.Errorf("expected slider back at 0, got %f", got)
	}
}

func TestKeyboardSwipe(t *testing.T) {
	h := newHarness(t)
	h.keyboardSwipe()
	h.wait(2 * time.Second)
	if got := h.m.Overlay().Stage(); got != 1 {
		t.Errorf("expected stage 1, got %d", got)
	}
}

func TestClickSpawnsExpiringParticles(t *testing.T) {
	h := newHarness(t)

	h.mouse(tea.MouseActionPress, 5, 3)
	h.mouse(tea.MouseActionRelease, 5, 3)

	n := len(h.m.Overlay().Particles())
	if n < 6 || n > 8 {
		t.Errorf("expected 6..8 particles, got %d", n)
	}
	if h.m.Overlay().Dragging() {
		t.Error("click away from the thumb should not grab the slider")
	}
	// Particles render as non-blank braille cells.
	found := false
	for _, r := range h.m.View() {
		if r > blank && r <= blank+0xff {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected particles in the view")
	}

	h.wait(time.Second)
	if got := len(h.m.Overlay().Particles()); got != 0 {
		t.Errorf("expected particles to expire, got %d", got)
	}
}

func TestShareAtTerminalStage(t *testing.T) {
	h := newHarness(t)

	h.key(runes("s"))
	if len(h.copied) != 0 {
		t.Error("share before the reveal should do nothing")
	}

	for h.m.Overlay().Stage() < 4 {
		h.keyboardSwipe()
		h.wait(2 * time.Second)
	}
	h.wait(h.m.cfg.AutoAdvanceWait())
	if got := h.m.Overlay().Stage(); got != 5 {
		t.Fatalf("expected stage 5, got %d", got)
	}
	if !strings.Contains(h.m.View(), h.m.cfg.CTA.ButtonText) {
		t.Error("expected the call to action in the view")
	}

	h.key(runes("s"))
	if len(h.copied) != 1 || !strings.Contains(h.copied[0], h.m.cfg.CTA.ShareURL) {
		t.Errorf("expected share link copied, got %v", h.copied)
	}
	if h.m.toast != "link copied" {
		t.Errorf("expected toast 'link copied', got '%s'", h.m.toast)
	}

	h.fail = true
	h.key(runes("s"))
	if h.m.toast != "sharing unavailable" {
		t.Errorf("expected toast 'sharing unavailable', got '%s'", h.m.toast)
	}
	if got := h.m.Overlay().Stage(); got != 5 {
		t.Errorf("expected stage 5 after failed share, got %d", got)
	}
}

func TestSoundToggle(t *testing.T) {
	h := newHarness(t)
	h.key(runes("m"))
	if h.m.Overlay().SoundEnabled() {
		t.Error("expected sound off")
	}
	if !strings.Contains(h.m.View(), "♪ off") {
		t.Error("expected status to show sound off")
	}
}

func TestViewShowsStageLabel(t *testing.T) {
	h := newHarness(t)
	if !strings.Contains(h.m.View(), h.m.cfg.Label(0)) {
		t.Errorf("expected label %q in view", h.m.cfg.Label(0))
	}
}

func TestQuitUnmounts(t *testing.T) {
	h := newHarness(t)
	if cmd := h.key(runes("q")); cmd == nil {
		t.Error("expected quit command")
	}
	if h.m.Overlay().Mounted() {
		t.Error("expected overlay unmounted")
	}
	if h.m.View() != "" {
		t.Error("expected empty view after quit")
	}
}
