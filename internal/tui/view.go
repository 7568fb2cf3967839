package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/reveal/internal/overlay"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		return ""
	}
	snap := m.ov.Snapshot()

	field := m.particleField(snap)
	rows := make([]string, h)
	for i := range rows {
		rows[i] = field.row(i, m.cfg.Particles.Lifetime, m.styles.sparks)
	}
	put := func(row int, s string) {
		if row >= 0 && row < h {
			rows[row] = s
		}
	}
	center := func(row int, s string) {
		put(row, lipgloss.PlaceHorizontal(w, lipgloss.Center, s))
	}

	l := m.layout()
	if snap.CTAVisible {
		for i, line := range m.ctaLines(w) {
			center(l.labelRow-3+i, line)
		}
	} else {
		center(l.labelRow, m.styles.label.Render(snap.Label))
	}
	if snap.SliderVisible {
		top, track, bottom := m.slider(snap, l)
		put(l.sliderRow-1, top)
		put(l.sliderRow, track)
		put(l.sliderRow+1, bottom)
	}

	put(h-2, m.status(snap))
	put(h-1, m.styles.muted.Render(" drag or ←/→ slide · enter release · click sparks · m sound · s share · q quit"))
	return strings.Join(rows, "\n")
}

func (m *Model) particleField(snap overlay.Snapshot) *canvas {
	c := newCanvas(m.width, m.height)
	for _, p := range snap.Particles {
		// Two braille dots per column, four per row.
		x := int(math.Floor(p.X / (unitX / 2)))
		y := int(math.Floor(p.Y / (unitY / 4)))
		c.set(x, y, snap.Time-p.CreatedAt)
	}
	return c
}

func (m *Model) slider(snap overlay.Snapshot, l layout) (string, string, string) {
	border := m.styles.border
	switch {
	case m.flash.active():
		border = m.styles.flash
	case snap.Settling && m.ov.Position() >= snap.MaxDrag:
		border = m.styles.done
	}
	pad := ""
	if l.left > 1 {
		pad = strings.Repeat(" ", l.left-1)
	}
	line := strings.Repeat("─", l.cols)
	top := pad + border.Render("╭"+line+"╮")
	bottom := pad + border.Render("╰"+line+"╯")

	start := l.thumbStart(snap.Position)
	fillEnd := int(math.Round(snap.Fill * float64(l.cols)))
	label := []rune(snap.SliderLabel)
	free := l.cols - start - l.thumbCols
	labelStart := start + l.thumbCols + (free-len(label))/2
	if len(label) > free {
		label = nil
	}

	var b strings.Builder
	b.WriteString(pad)
	b.WriteString(border.Render("│"))
	for c := 0; c < l.cols; c++ {
		switch {
		case c >= start && c < start+l.thumbCols:
			b.WriteString(m.styles.thumb.Render("█"))
		case c < fillEnd:
			b.WriteString(m.styles.fill.Render("▒"))
		case c >= labelStart && c-labelStart < len(label):
			b.WriteString(m.styles.muted.Render(string(label[c-labelStart])))
		default:
			b.WriteByte(' ')
		}
	}
	b.WriteString(border.Render("│"))
	return top, b.String(), bottom
}

func (m *Model) ctaLines(w int) []string {
	cta := m.cfg.CTA
	width := w - 4
	if width > 60 {
		width = 60
	}
	lines := []string{
		m.styles.muted.Render(cta.Brand + " · " + cta.Edition),
		"",
	}
	title := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Inherit(m.styles.title).Render(cta.Title)
	lines = append(lines, strings.Split(title, "\n")...)
	lines = append(lines, "")
	for _, ev := range cta.Events {
		lines = append(lines, m.styles.text.Render(fmt.Sprintf("%s · %s · %s", ev.Name, ev.Location, ev.Dates)))
	}
	lines = append(lines, "", m.styles.label.Render(cta.Tagline), m.styles.muted.Render(cta.Statement), "")
	lines = append(lines, m.styles.button.Render(cta.ButtonText), m.styles.muted.Render(cta.ButtonURL))
	return lines
}

func (m *Model) status(snap overlay.Snapshot) string {
	sound := "♪ on"
	if !snap.SoundEnabled {
		sound = "♪ off"
	}
	parts := []string{
		fmt.Sprintf(" stage %d/%d", snap.Stage, snap.Terminal),
		sound,
	}
	if snap.AutoPending {
		parts = append(parts, "revealing…")
	}
	out := m.styles.muted.Render(strings.Join(parts, "   "))
	if m.toast != "" && snap.Time < m.toastUntil {
		out += "   " + m.styles.toast.Render(m.toast)
	}
	return out
}
