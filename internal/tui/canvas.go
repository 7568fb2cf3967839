package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// canvas is a braille dot field. Each cell remembers the age of the
// youngest particle drawn into it so it can be shaded.
type canvas struct {
	width, height int
	grid          [][]rune
	age           [][]time.Duration
}

func newCanvas(w, h int) *canvas {
	c := &canvas{
		width:  w,
		height: h,
		grid:   make([][]rune, h),
		age:    make([][]time.Duration, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		c.age[i] = make([]time.Duration, w)
		for j := range c.grid[i] {
			c.grid[i][j] = blank
		}
	}
	return c
}

// set lights dot (x, y). The canvas is (width*2) x (height*4) dots.
func (c *canvas) set(x, y int, age time.Duration) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.width || row >= c.height {
		return
	}
	if c.grid[row][col] == blank || age < c.age[row][col] {
		c.age[row][col] = age
	}
	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// row renders one line, shading each lit cell by the fraction of lifetime
// its youngest particle has used.
func (c *canvas) row(i int, lifetime time.Duration, shades [3]lipgloss.Style) string {
	var b strings.Builder
	for j, r := range c.grid[i] {
		if r == blank {
			b.WriteByte(' ')
			continue
		}
		shade := 0
		if lifetime > 0 {
			shade = int(3 * c.age[i][j] / lifetime)
		}
		if shade > 2 {
			shade = 2
		}
		b.WriteString(shades[shade].Render(string(r)))
	}
	return b.String()
}
