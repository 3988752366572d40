package systems

import "github.com/pthm-cable/starfield/config"

// Params groups everything the simulation reads from configuration.
type Params struct {
	Count    int
	Seed     SeedSpec
	Force    ForceModel
	Boundary Boundary
}

// ParamsFromConfig converts a sanitized config into simulation parameters.
// Unknown enum values fall back to attract and reflect.
func ParamsFromConfig(cfg *config.Config) Params {
	policy, _ := ParseBoundaryPolicy(cfg.Boundary.Policy)
	mode, _ := ParseForceMode(cfg.Pointer.ForceMode)

	return Params{
		Count: cfg.Particles.Count,
		Seed: SeedSpec{
			SizeMin:       float32(cfg.Particles.SizeMin),
			SizeMax:       float32(cfg.Particles.SizeMax),
			Opacity:       float32(cfg.Particles.Opacity),
			RandomOpacity: cfg.Particles.OpacityMode == config.OpacityRandom,
			Speed:         float32(cfg.Particles.MovementSpeed),
			Policy:        policy,
		},
		Force: ForceModel{
			Radius:     float32(cfg.Pointer.InfluenceRadius),
			Strength:   float32(cfg.Pointer.ForceStrength),
			Mode:       mode,
			Damping:    float32(cfg.Physics.Damping),
			StallSpeed: float32(cfg.Physics.StallSpeed),
			StallKick:  float32(cfg.Physics.StallKick),
			MaxSpeed:   cfg.Derived.MaxSpeed,
		},
		Boundary: Boundary{
			Policy:        policy,
			ReentryJitter: float32(cfg.Boundary.ReentryJitter),
		},
	}
}
