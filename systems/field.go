// Package systems contains the particle simulation.
package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfield/components"
)

// SeedSpec describes how new particles are drawn.
type SeedSpec struct {
	SizeMin, SizeMax float32
	Opacity          float32 // fixed alpha, or the ceiling when RandomOpacity
	RandomOpacity    bool
	Speed            float32 // px/s
	Policy           BoundaryPolicy
}

// Particle is a copy of one particle's state.
type Particle struct {
	X, Y   float32
	VX, VY float32
	DX, DY float32
	Radius float32
	Alpha  float32
}

// Field is the particle pool. Particles are ECS entities that live from Seed
// until Discard; Integrate and Clamp mutate them in place.
type Field struct {
	world  *ecs.World
	rng    *rand.Rand
	mapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Drift,
		components.Appearance,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Drift,
		components.Appearance,
	]
	entities []ecs.Entity
}

// NewField creates an empty particle pool with its own ECS world.
func NewField(seed int64) *Field {
	world := ecs.NewWorld()
	return &Field{
		world: world,
		rng:   rand.New(rand.NewSource(seed)),
		mapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Drift,
			components.Appearance,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Drift,
			components.Appearance,
		](world),
	}
}

// World returns the ECS world the particles live in.
func (f *Field) World() *ecs.World {
	return f.world
}

// Rand returns the field's random source.
func (f *Field) Rand() *rand.Rand {
	return f.rng
}

// Len returns the number of live particles.
func (f *Field) Len() int {
	return len(f.entities)
}

// Seed creates count particles inside bounds and returns how many were made.
// Nothing is created for empty bounds.
func (f *Field) Seed(count int, b Bounds, spec SeedSpec) int {
	if count <= 0 || b.Empty() {
		return 0
	}
	if f.entities == nil {
		f.entities = make([]ecs.Entity, 0, count)
	}

	for i := 0; i < count; i++ {
		pos := components.Position{
			X: f.rng.Float32() * b.Width,
			Y: f.rng.Float32() * b.Height,
		}

		var vel components.Velocity
		var drift components.Drift
		switch spec.Policy {
		case Wrap:
			drift.Y = spec.Speed * randRange(f.rng, 0.5, 1.5)
			vel = components.Velocity(drift)
		default:
			angle := f.rng.Float64() * 2 * math.Pi
			speed := spec.Speed * randRange(f.rng, 0.5, 1)
			vel.X = float32(math.Cos(angle)) * speed
			vel.Y = float32(math.Sin(angle)) * speed
		}

		app := components.Appearance{
			Radius: randRange(f.rng, spec.SizeMin, spec.SizeMax),
			Alpha:  spec.Opacity,
		}
		if spec.RandomOpacity {
			app.Alpha = spec.Opacity * randRange(f.rng, 0.4, 1)
		}

		f.entities = append(f.entities, f.mapper.NewEntity(&pos, &vel, &drift, &app))
	}
	return count
}

// Integrate advances every particle by dt seconds and applies the boundary.
func (f *Field) Integrate(dt float32, b Bounds, edge Boundary) {
	query := f.filter.Query()
	for query.Next() {
		pos, vel, drift, app := query.Get()
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		switch edge.Policy {
		case Wrap:
			f.wrap(pos, vel, drift, app.Radius, b, edge)
		default:
			reflect(pos, vel, b)
		}
	}
}

func reflect(pos *components.Position, vel *components.Velocity, b Bounds) {
	if pos.X < 0 {
		pos.X = 0
		vel.X = absf(vel.X)
	} else if pos.X > b.Width {
		pos.X = b.Width
		vel.X = -absf(vel.X)
	}
	if pos.Y < 0 {
		pos.Y = 0
		vel.Y = absf(vel.Y)
	} else if pos.Y > b.Height {
		pos.Y = b.Height
		vel.Y = -absf(vel.Y)
	}
}

func (f *Field) wrap(pos *components.Position, vel *components.Velocity, drift *components.Drift, r float32, b Bounds, edge Boundary) {
	pos.X = wrapf(pos.X, b.Width)

	if pos.Y-r > b.Height {
		pos.Y = -r - f.rng.Float32()*edge.ReentryJitter
		pos.X = f.rng.Float32() * b.Width
		*vel = components.Velocity(*drift)
		return
	}
	if top := edge.ceiling(r); pos.Y < top {
		pos.Y = top
	}
}

// Clamp moves every particle into new bounds without recreating any.
func (f *Field) Clamp(b Bounds, edge Boundary) {
	if b.Empty() {
		return
	}
	query := f.filter.Query()
	for query.Next() {
		pos, _, _, app := query.Get()
		pos.X = clampFloat(pos.X, 0, b.Width)
		switch edge.Policy {
		case Wrap:
			pos.Y = clampFloat(pos.Y, edge.ceiling(app.Radius), b.Height)
		default:
			pos.Y = clampFloat(pos.Y, 0, b.Height)
		}
	}
}

// Each calls fn with the drawing parameters of every particle.
func (f *Field) Each(fn func(x, y, radius, alpha float32)) {
	query := f.filter.Query()
	for query.Next() {
		pos, _, _, app := query.Get()
		fn(pos.X, pos.Y, app.Radius, app.Alpha)
	}
}

// Snapshot appends a copy of every particle to dst.
func (f *Field) Snapshot(dst []Particle) []Particle {
	query := f.filter.Query()
	for query.Next() {
		pos, vel, drift, app := query.Get()
		dst = append(dst, Particle{
			X: pos.X, Y: pos.Y,
			VX: vel.X, VY: vel.Y,
			DX: drift.X, DY: drift.Y,
			Radius: app.Radius,
			Alpha:  app.Alpha,
		})
	}
	return dst
}

// Speeds appends every particle's speed to dst.
func (f *Field) Speeds(dst []float64) []float64 {
	query := f.filter.Query()
	for query.Next() {
		_, vel, _, _ := query.Get()
		dst = append(dst, math.Sqrt(float64(vel.X*vel.X+vel.Y*vel.Y)))
	}
	return dst
}

// Discard removes every particle.
func (f *Field) Discard() {
	for _, e := range f.entities {
		f.world.RemoveEntity(e)
	}
	f.entities = f.entities[:0]
}
