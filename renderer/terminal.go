package renderer

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/starfield/surface"
)

// Logical pixels covered by one terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	alpha  float32
	radius float32
}

// TerminalCanvas draws particles as glyphs on a tcell screen. Each cell
// shows the brightest particle that landed in it.
type TerminalCanvas struct {
	screen     tcell.Screen
	background tcell.Style
	cols, rows int
	cells      []cell
}

// NewTerminalCanvas creates a canvas over an initialized screen. The
// screen stays owned by the caller.
func NewTerminalCanvas(screen tcell.Screen, bg color.RGBA) *TerminalCanvas {
	return &TerminalCanvas{
		screen: screen,
		background: tcell.StyleDefault.
			Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B))),
	}
}

// CellsToLogical converts a terminal size to logical pixels.
func CellsToLogical(cols, rows int) (width, height float32) {
	return float32(cols * CellWidth), float32(rows * CellHeight)
}

// Resize recomputes the cell grid for a new surface state.
func (c *TerminalCanvas) Resize(st surface.State) error {
	c.cols = int(st.Width) / CellWidth
	c.rows = int(st.Height) / CellHeight
	n := c.cols * c.rows
	if cap(c.cells) < n {
		c.cells = make([]cell, n)
	}
	c.cells = c.cells[:n]
	return nil
}

// BeginFrame clears the cell buffer.
func (c *TerminalCanvas) BeginFrame() {
	clear(c.cells)
}

// DrawParticle records a particle in the cell under (x, y).
func (c *TerminalCanvas) DrawParticle(x, y, radius, alpha float32) {
	if x < 0 || y < 0 {
		return
	}
	col := int(x) / CellWidth
	row := int(y) / CellHeight
	if col >= c.cols || row >= c.rows {
		return
	}
	i := row*c.cols + col
	if alpha > c.cells[i].alpha {
		c.cells[i] = cell{alpha: alpha, radius: radius}
	}
}

// EndFrame writes the cell buffer to the screen and shows it.
func (c *TerminalCanvas) EndFrame() {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			ce := c.cells[row*c.cols+col]
			if ce.alpha <= 0 {
				c.screen.SetContent(col, row, ' ', nil, c.background)
				continue
			}
			c.screen.SetContent(col, row, Glyph(ce.radius), nil, c.background.Foreground(Grey(ce.alpha)))
		}
	}
	c.screen.Show()
}

// Close clears the area the canvas drew on.
func (c *TerminalCanvas) Close() error {
	c.screen.Clear()
	return nil
}

// Glyph picks a character for a particle radius.
func Glyph(radius float32) rune {
	switch {
	case radius < 1.2:
		return '·'
	case radius < 2.2:
		return '+'
	default:
		return '*'
	}
}

// Grey maps alpha to a foreground grey level.
func Grey(alpha float32) tcell.Color {
	if alpha > 1 {
		alpha = 1
	}
	level := int32(80 + alpha*175)
	return tcell.NewRGBColor(level, level, level)
}
