// Package hosts drives a backdrop from a concrete environment: a raylib
// window, a terminal, or a synthetic clock.
package hosts

// Target receives host events. *backdrop.Backdrop implements it.
type Target interface {
	PointerMove(x, y float32)
	PointerLeave()
	Resize(width, height, dpr float32)
	SetVisible(visible bool)
}
