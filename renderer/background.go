package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Background draws the vertical sky gradient behind the particles.
type Background struct {
	top, bottom rl.Color
}

// NewBackground creates a gradient from top to bottom.
func NewBackground(top, bottom color.RGBA) *Background {
	return &Background{
		top:    rl.NewColor(top.R, top.G, top.B, top.A),
		bottom: rl.NewColor(bottom.R, bottom.G, bottom.B, bottom.A),
	}
}

// Draw fills the given logical area.
func (b *Background) Draw(width, height int32) {
	rl.DrawRectangleGradientV(0, 0, width, height, b.top, b.bottom)
}
