package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/input"
)

// ForceMode is the direction of the pointer force.
type ForceMode uint8

const (
	Attract ForceMode = iota
	Repel
)

func (m ForceMode) String() string {
	switch m {
	case Attract:
		return "attract"
	case Repel:
		return "repel"
	}
	return fmt.Sprintf("ForceMode(%d)", uint8(m))
}

// Sign returns +1 for attract and -1 for repel.
func (m ForceMode) Sign() float32 {
	if m == Repel {
		return -1
	}
	return 1
}

// ParseForceMode converts a config value to a force mode.
func ParseForceMode(s string) (ForceMode, error) {
	switch s {
	case "attract":
		return Attract, nil
	case "repel":
		return Repel, nil
	}
	return Attract, fmt.Errorf("unknown force mode %q", s)
}

// ForceModel holds the pointer force and velocity settling parameters.
// Velocities are in px/s; Strength and StallKick are added once per frame.
type ForceModel struct {
	Radius     float32
	Strength   float32
	Mode       ForceMode
	Damping    float32 // per-frame decay toward drift, in (0, 1)
	StallSpeed float32
	StallKick  float32
	MaxSpeed   float32 // hard bound, 0 disables
}

// Accel returns the velocity change the pointer applies to a particle at
// (x, y). Zero when the pointer is inactive, out of range, or exactly on
// the particle.
func (m ForceModel) Accel(x, y float32, p input.PointerState) (ax, ay float32) {
	if !p.Active || m.Radius <= 0 {
		return 0, 0
	}
	dx := p.X - x
	dy := p.Y - y
	distSq := distanceSq(x, y, p.X, p.Y)
	if distSq == 0 || distSq >= m.Radius*m.Radius {
		return 0, 0
	}
	dist := float32(math.Sqrt(float64(distSq)))
	falloff := (m.Radius - dist) / m.Radius
	scale := falloff * m.Strength * m.Mode.Sign() / dist
	return dx * scale, dy * scale
}

// Settle damps a velocity toward its drift, kicks it if it has stalled and
// clamps it to MaxSpeed.
func (m ForceModel) Settle(vel *components.Velocity, drift components.Drift, rng *rand.Rand) {
	vel.X = drift.X + (vel.X-drift.X)*m.Damping
	vel.Y = drift.Y + (vel.Y-drift.Y)*m.Damping

	speedSq := vel.X*vel.X + vel.Y*vel.Y
	if m.StallKick > 0 && speedSq < m.StallSpeed*m.StallSpeed {
		vel.X += (rng.Float32() - 0.5) * m.StallKick
		vel.Y += (rng.Float32() - 0.5) * m.StallKick
		speedSq = vel.X*vel.X + vel.Y*vel.Y
	}

	if m.MaxSpeed > 0 && speedSq > m.MaxSpeed*m.MaxSpeed {
		scale := m.MaxSpeed / float32(math.Sqrt(float64(speedSq)))
		vel.X *= scale
		vel.Y *= scale
	}
}

// ForceSystem applies a ForceModel to every particle in a field.
type ForceSystem struct {
	model  ForceModel
	rng    *rand.Rand
	filter *ecs.Filter3[components.Position, components.Velocity, components.Drift]
}

// NewForceSystem creates a force system over the field's particles.
func NewForceSystem(f *Field, model ForceModel) *ForceSystem {
	return &ForceSystem{
		model:  model,
		rng:    f.Rand(),
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Drift](f.World()),
	}
}

// Model returns the force parameters.
func (s *ForceSystem) Model() ForceModel {
	return s.model
}

// Apply adds the pointer force to every particle and settles its velocity.
// Positions are not touched.
func (s *ForceSystem) Apply(p input.PointerState) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, drift := query.Get()
		ax, ay := s.model.Accel(pos.X, pos.Y, p)
		vel.X += ax
		vel.Y += ay
		s.model.Settle(vel, *drift, s.rng)
	}
}
