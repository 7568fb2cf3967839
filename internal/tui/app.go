package tui

import (
	"math"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/reveal/internal/config"
	"github.com/san-kum/reveal/internal/overlay"
	"github.com/san-kum/reveal/internal/particle"
	"github.com/san-kum/reveal/internal/sched"
)

// One terminal cell spans unitX by unitY overlay units.
const (
	unitX = 8.0
	unitY = 16.0
)

const (
	nudgeRatio = 0.1
	toastTime  = 2 * time.Second
)

type Options struct {
	Config *config.Config
	Theme  string
	// Clipboard replaces the system clipboard writer.
	Clipboard func(string) error
	Logf      func(format string, args ...any)
}

type Model struct {
	cfg    *config.Config
	ov     *overlay.Overlay
	flash  *flash
	styles styles
	theme  Theme

	start time.Time

	mouseDown bool
	grabbed   bool
	grabCol   int
	grabPos   float64

	toast      string
	toastUntil time.Duration

	width    int
	height   int
	quitting bool
}

type frameMsg time.Time

func frame(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func New(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	loop := sched.NewLoop()
	fl := &flash{now: loop.Now}
	ov, err := overlay.Mount(overlay.Options{
		Config:  cfg,
		Loop:    loop,
		Rand:    rand.New(rand.NewSource(cfg.Seed)),
		Haptics: fl,
		Sharer:  newClipboardSharer(opts.Clipboard),
		Logf:    opts.Logf,
	})
	if err != nil {
		return nil, err
	}
	theme := GetTheme(opts.Theme)
	return &Model{
		cfg:    cfg,
		ov:     ov,
		flash:  fl,
		theme:  theme,
		styles: newStyles(theme),
		width:  80,
		height: 24,
	}, nil
}

// Run starts the interactive program and blocks until it quits.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.ov.Unmount()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func (m *Model) Overlay() *overlay.Overlay { return m.ov }

func (m *Model) Init() tea.Cmd { return frame(m.cfg.Timing.Frame) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		if m.quitting {
			return m, nil
		}
		t := time.Time(msg)
		if m.start.IsZero() {
			m.start = t
		}
		m.ov.AdvanceTo(t.Sub(m.start))
		return m, frame(m.cfg.Timing.Frame)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.ov.Unmount()
		return m, tea.Quit
	case "right", "l":
		m.nudge(nudgeRatio)
	case "left", "h":
		m.nudge(-nudgeRatio)
	case "enter", " ":
		if m.ov.Dragging() {
			m.grabbed = false
			m.ov.Release()
		}
	case "m":
		if m.ov.ToggleSound() {
			m.say("sound on")
		} else {
			m.say("sound off")
		}
	case "s":
		m.share()
	case "t":
		l := m.layout()
		m.ov.Tap(cellPoint(m.width/2, l.labelRow))
	}
	return m, nil
}

func (m *Model) nudge(ratio float64) {
	if !m.ov.Dragging() && !m.ov.Grab() {
		return
	}
	m.ov.Drag(m.ov.Position() + ratio*m.cfg.MaxDrag())
}

func (m *Model) share() {
	if !m.ov.Snapshot().CTAVisible {
		return
	}
	if m.ov.Share() {
		m.say("link copied")
	} else {
		m.say("sharing unavailable")
	}
}

func (m *Model) say(s string) {
	m.toast = s
	m.toastUntil = m.ov.Now() + toastTime
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.mouseDown = true
		m.ov.Tap(cellPoint(msg.X, msg.Y))
		if m.onThumb(msg.X, msg.Y) && m.ov.Grab() {
			m.grabbed = true
			m.grabCol = msg.X
			m.grabPos = m.ov.Position()
		}
	case tea.MouseActionMotion:
		if m.mouseDown && m.grabbed && m.ov.Dragging() {
			m.ov.Drag(m.grabPos + float64(msg.X-m.grabCol)*unitX)
		}
	case tea.MouseActionRelease:
		m.mouseDown = false
		if m.grabbed {
			m.grabbed = false
			m.ov.Release()
		}
	}
}

func cellPoint(col, row int) particle.Point {
	return particle.Point{
		X: (float64(col) + 0.5) * unitX,
		Y: (float64(row) + 0.5) * unitY,
	}
}

// layout places the label and slider in cell coordinates. The slider track
// starts at column left; its borders sit one row above and below.
type layout struct {
	labelRow  int
	sliderRow int
	left      int
	cols      int
	thumbCols int
}

func (m *Model) layout() layout {
	cols := int(m.cfg.Slider.Width / unitX)
	thumb := int(math.Round(m.cfg.Slider.Thumb / unitX))
	if thumb < 1 {
		thumb = 1
	}
	mid := m.height / 2
	return layout{
		labelRow:  mid - 3,
		sliderRow: mid,
		left:      (m.width - cols) / 2,
		cols:      cols,
		thumbCols: thumb,
	}
}

func (l layout) thumbStart(position float64) int {
	start := int(position / unitX)
	if start > l.cols-l.thumbCols {
		start = l.cols - l.thumbCols
	}
	return start
}

// onThumb allows one cell of slack around the thumb.
func (m *Model) onThumb(col, row int) bool {
	l := m.layout()
	if row < l.sliderRow-1 || row > l.sliderRow+1 {
		return false
	}
	start := l.left + l.thumbStart(m.ov.Position())
	return col >= start-1 && col <= start+l.thumbCols
}
