package backdrop

import "github.com/pthm-cable/starfield/input"

// PointerMove records the pointer position in logical coordinates.
func (b *Backdrop) PointerMove(x, y float32) {
	if !b.mounted.Load() {
		return
	}
	b.inbox.MovePointer(x, y)
}

// PointerLeave marks the pointer as gone from the surface.
func (b *Backdrop) PointerLeave() {
	if !b.mounted.Load() {
		return
	}
	b.inbox.LeavePointer()
}

// Resize records a new viewport. The next frame applies it.
func (b *Backdrop) Resize(width, height, dpr float32) {
	if !b.mounted.Load() {
		return
	}
	b.inbox.PostViewport(input.Viewport{Width: width, Height: height, DPR: dpr})

	if b.reduced {
		b.requestStatic()
		return
	}
	// Wakes a backdrop paused on a degenerate surface
	b.start()
}

// SetVisible pauses the animation while the surface is hidden.
func (b *Backdrop) SetVisible(visible bool) {
	if !b.mounted.Load() || b.visible.Swap(visible) == visible {
		return
	}
	if !visible {
		b.sched.Stop()
		b.logger.Debug("surface hidden, paused")
		return
	}
	b.logger.Debug("surface visible, resuming")
	b.start()
}
