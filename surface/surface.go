// Package surface tracks the drawing surface geometry.
//
// Simulation and drawing work in logical pixels. The backing store is the
// logical size multiplied by the device pixel ratio, and the transform maps
// logical coordinates onto it so output stays crisp on dense displays.
package surface

import "math"

// Default bounds for the device pixel ratio.
const (
	MinDPR     = 1.0
	DefaultDPR = 2.0 // ceiling when none is configured
)

// State is a snapshot of the surface geometry.
type State struct {
	Width, Height float32 // logical pixels
	DPR           float32

	// Backing store size in physical pixels
	BackingWidth, BackingHeight int32
}

// Degenerate reports whether the surface has no drawable area.
func (s State) Degenerate() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Transform returns the logical-to-backing transform for this state.
func (s State) Transform() Transform {
	return Transform{Scale: s.DPR}
}

// Contains reports whether a logical point lies on the surface.
func (s State) Contains(x, y float32) bool {
	return x >= 0 && x <= s.Width && y >= 0 && y <= s.Height
}

// Transform maps logical coordinates to backing-store coordinates.
type Transform struct {
	Scale float32
}

// ToBacking converts logical coordinates to backing-store pixels.
func (t Transform) ToBacking(x, y float32) (bx, by float32) {
	return x * t.Scale, y * t.Scale
}

// ToLogical converts backing-store pixels to logical coordinates.
func (t Transform) ToLogical(bx, by float32) (x, y float32) {
	if t.Scale == 0 {
		return bx, by
	}
	return bx / t.Scale, by / t.Scale
}

// Surface owns the current geometry of one mounted drawing surface.
type Surface struct {
	state  State
	maxDPR float32
}

// New creates an empty surface whose pixel ratio is capped at maxDPR.
func New(maxDPR float32) *Surface {
	if !(maxDPR >= MinDPR) {
		maxDPR = DefaultDPR
	}
	return &Surface{
		state:  State{DPR: MinDPR},
		maxDPR: maxDPR,
	}
}

// State returns the current geometry.
func (s *Surface) State() State {
	return s.state
}

// MaxDPR returns the pixel ratio ceiling.
func (s *Surface) MaxDPR() float32 {
	return s.maxDPR
}

// Resize recomputes the backing store for a new logical size and pixel
// ratio. Invalid sizes become zero and the ratio is clamped to
// [MinDPR, maxDPR]. Returns whether anything changed.
func (s *Surface) Resize(width, height, dpr float32) bool {
	next := State{
		Width:  sanitizeExtent(width),
		Height: sanitizeExtent(height),
		DPR:    ClampDPR(dpr, s.maxDPR),
	}
	next.BackingWidth = int32(math.Floor(float64(next.Width * next.DPR)))
	next.BackingHeight = int32(math.Floor(float64(next.Height * next.DPR)))

	if next == s.state {
		return false
	}
	s.state = next
	return true
}

// ClampDPR restricts a reported pixel ratio to [MinDPR, max].
// Missing or invalid ratios count as MinDPR.
func ClampDPR(dpr, max float32) float32 {
	if !(dpr >= MinDPR) || math.IsInf(float64(dpr), 0) {
		return MinDPR
	}
	if dpr > max {
		return max
	}
	return dpr
}

// sanitizeExtent maps NaN, infinite and negative extents to zero.
func sanitizeExtent(v float32) float32 {
	if !(v > 0) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}
