// Package input carries host events to the frame loop.
//
// Hosts write pointer and viewport updates from whatever goroutine delivers
// them; the frame loop reads them once at the start of each frame. Writes are
// last-writer-wins: a burst of pointer moves between two frames collapses to
// the final position, and only the newest viewport size is applied.
package input

import (
	"math"
	"sync/atomic"
)

// Off-surface parking spot for an inactive pointer.
const (
	OffSurfaceX = -1000
	OffSurfaceY = -1000
)

// PointerState is the pointer as the simulation sees it.
type PointerState struct {
	X, Y   float32
	Active bool
}

// Inactive is the state after the pointer leaves the tracked area.
var Inactive = PointerState{X: OffSurfaceX, Y: OffSurfaceY}

// Viewport is a size report from the host.
type Viewport struct {
	Width, Height float32 // logical pixels
	DPR           float32 // device pixel ratio
}

// Degenerate reports whether the viewport has no drawable area.
func (v Viewport) Degenerate() bool {
	return !(v.Width > 0) || !(v.Height > 0) ||
		math.IsInf(float64(v.Width), 0) || math.IsInf(float64(v.Height), 0)
}

// Inbox holds the latest pointer state and any viewport not yet applied.
// The zero value is ready to use with an inactive pointer.
type Inbox struct {
	pointer  atomic.Pointer[PointerState]
	viewport atomic.Pointer[Viewport]
}

// MovePointer records a pointer position and marks it active.
func (in *Inbox) MovePointer(x, y float32) {
	in.pointer.Store(&PointerState{X: x, Y: y, Active: true})
}

// LeavePointer marks the pointer inactive and parks it off-surface.
func (in *Inbox) LeavePointer() {
	p := Inactive
	in.pointer.Store(&p)
}

// Pointer returns the most recent pointer state.
func (in *Inbox) Pointer() PointerState {
	if p := in.pointer.Load(); p != nil {
		return *p
	}
	return Inactive
}

// PostViewport replaces any pending viewport with v.
func (in *Inbox) PostViewport(v Viewport) {
	in.viewport.Store(&v)
}

// TakeViewport returns the pending viewport, if any, and clears it.
func (in *Inbox) TakeViewport() (Viewport, bool) {
	v := in.viewport.Swap(nil)
	if v == nil {
		return Viewport{}, false
	}
	return *v, true
}

// Reset drops pending updates and deactivates the pointer.
func (in *Inbox) Reset() {
	in.viewport.Store(nil)
	in.LeavePointer()
}
