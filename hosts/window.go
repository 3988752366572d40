package hosts

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfield/input"
)

// WindowViewport reports the raylib window size in logical pixels.
func WindowViewport() input.Viewport {
	return input.Viewport{
		Width:  float32(rl.GetScreenWidth()),
		Height: float32(rl.GetScreenHeight()),
		DPR:    rl.GetWindowScaleDPI().X,
	}
}

// WindowPoller turns raylib window state into backdrop events. Call Poll
// once per loop iteration, before pumping frames.
type WindowPoller struct {
	viewport  input.Viewport
	pointer   rl.Vector2
	inside    bool
	minimized bool
}

// NewWindowPoller starts from the current window state so the first Poll
// does not report a resize the backdrop already knows about.
func NewWindowPoller() *WindowPoller {
	return &WindowPoller{viewport: WindowViewport()}
}

// Poll forwards changes since the last call.
func (p *WindowPoller) Poll(t Target) {
	if vp := WindowViewport(); vp != p.viewport {
		p.viewport = vp
		t.Resize(vp.Width, vp.Height, vp.DPR)
	}

	if minimized := rl.IsWindowMinimized(); minimized != p.minimized {
		p.minimized = minimized
		t.SetVisible(!minimized)
	}

	if !rl.IsCursorOnScreen() {
		if p.inside {
			p.inside = false
			t.PointerLeave()
		}
		return
	}
	pos := rl.GetMousePosition()
	if !p.inside || pos != p.pointer {
		p.inside = true
		p.pointer = pos
		t.PointerMove(pos.X, pos.Y)
	}
}
