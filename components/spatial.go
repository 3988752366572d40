// Package components defines ECS components for the particle pool.
package components

// Position is a particle's location in surface logical pixels.
type Position struct {
	X, Y float32
}

// Velocity is a particle's velocity in logical pixels per second.
type Velocity struct {
	X, Y float32
}

// Drift is the resting velocity damping relaxes toward.
// Zero for particles that settle; the fall velocity for falling particles.
type Drift struct {
	X, Y float32
}
