package systems

import "fmt"

// Bounds represents the simulation bounds in logical pixels.
type Bounds struct {
	Width, Height float32
}

// Empty reports whether the bounds have no area.
func (b Bounds) Empty() bool {
	return !(b.Width > 0) || !(b.Height > 0)
}

// BoundaryPolicy selects what happens when a particle leaves the bounds.
type BoundaryPolicy uint8

const (
	// Reflect clamps to the edge and bounces the velocity inward.
	Reflect BoundaryPolicy = iota
	// Wrap reinserts particles that fall past the bottom above the top edge.
	Wrap
)

func (p BoundaryPolicy) String() string {
	switch p {
	case Reflect:
		return "reflect"
	case Wrap:
		return "wrap"
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", uint8(p))
}

// ParseBoundaryPolicy converts a config value to a policy.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch s {
	case "reflect":
		return Reflect, nil
	case "wrap":
		return Wrap, nil
	}
	return Reflect, fmt.Errorf("unknown boundary policy %q", s)
}

// Boundary is the edge handling applied after each integration step.
type Boundary struct {
	Policy        BoundaryPolicy
	ReentryJitter float32 // wrap only: extra height above the top on reinsertion
}

// ceiling is the highest a wrapped particle of radius r may rise.
func (b Boundary) ceiling(r float32) float32 {
	return -(r + b.ReentryJitter)
}
