package config

import (
	"fmt"
	"math"
	"sync"

	"gopkg.in/yaml.v3"
)

// Adjustment records one configuration value that Sanitize replaced.
type Adjustment struct {
	Field string
	Got   any
	Used  any
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s: %v -> %v", a.Field, a.Got, a.Used)
}

// rawDefaults is the embedded defaults file without sanitization.
var rawDefaults = sync.OnceValue(func() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return c
})

// Sanitize replaces out-of-range or unknown values with the documented
// defaults and returns what it changed. It never fails.
func (c *Config) Sanitize() []Adjustment {
	d := rawDefaults()
	var adj []Adjustment

	fixFloat := func(field string, v *float64, def float64, valid func(float64) bool) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) || !valid(*v) {
			adj = append(adj, Adjustment{Field: field, Got: *v, Used: def})
			*v = def
		}
	}
	fixInt := func(field string, v *int, def int, valid func(int) bool) {
		if !valid(*v) {
			adj = append(adj, Adjustment{Field: field, Got: *v, Used: def})
			*v = def
		}
	}
	fixEnum := func(field string, v *string, def string, allowed ...string) {
		for _, a := range allowed {
			if *v == a {
				return
			}
		}
		adj = append(adj, Adjustment{Field: field, Got: *v, Used: def})
		*v = def
	}
	positive := func(v float64) bool { return v > 0 }
	nonNegative := func(v float64) bool { return v >= 0 }

	// Screen
	fixInt("screen.width", &c.Screen.Width, d.Screen.Width, func(v int) bool { return v > 0 })
	fixInt("screen.height", &c.Screen.Height, d.Screen.Height, func(v int) bool { return v > 0 })
	fixInt("screen.target_fps", &c.Screen.TargetFPS, d.Screen.TargetFPS, func(v int) bool { return v > 0 })

	// Surface
	if c.Surface.MaxDPR < 1 || math.IsNaN(c.Surface.MaxDPR) {
		adj = append(adj, Adjustment{Field: "surface.max_dpr", Got: c.Surface.MaxDPR, Used: 1.0})
		c.Surface.MaxDPR = 1
	}
	if _, err := ParseHexColor(c.Surface.BackgroundTop); err != nil {
		adj = append(adj, Adjustment{Field: "surface.background_top", Got: c.Surface.BackgroundTop, Used: d.Surface.BackgroundTop})
		c.Surface.BackgroundTop = d.Surface.BackgroundTop
	}
	if _, err := ParseHexColor(c.Surface.BackgroundBottom); err != nil {
		adj = append(adj, Adjustment{Field: "surface.background_bottom", Got: c.Surface.BackgroundBottom, Used: d.Surface.BackgroundBottom})
		c.Surface.BackgroundBottom = d.Surface.BackgroundBottom
	}

	// Particles
	if c.Particles.Count < 0 {
		adj = append(adj, Adjustment{Field: "particles.count", Got: c.Particles.Count, Used: 0})
		c.Particles.Count = 0
	} else if c.Particles.Count > MaxParticleCount {
		adj = append(adj, Adjustment{Field: "particles.count", Got: c.Particles.Count, Used: MaxParticleCount})
		c.Particles.Count = MaxParticleCount
	}
	fixFloat("particles.size_min", &c.Particles.SizeMin, d.Particles.SizeMin, positive)
	fixFloat("particles.size_max", &c.Particles.SizeMax, d.Particles.SizeMax, positive)
	if c.Particles.SizeMin > c.Particles.SizeMax {
		adj = append(adj, Adjustment{
			Field: "particles.size_min/size_max",
			Got:   [2]float64{c.Particles.SizeMin, c.Particles.SizeMax},
			Used:  [2]float64{c.Particles.SizeMax, c.Particles.SizeMin},
		})
		c.Particles.SizeMin, c.Particles.SizeMax = c.Particles.SizeMax, c.Particles.SizeMin
	}
	fixFloat("particles.opacity", &c.Particles.Opacity, d.Particles.Opacity, positive)
	if c.Particles.Opacity > 1 {
		adj = append(adj, Adjustment{Field: "particles.opacity", Got: c.Particles.Opacity, Used: 1.0})
		c.Particles.Opacity = 1
	}
	fixEnum("particles.opacity_mode", &c.Particles.OpacityMode, OpacityFixed, OpacityFixed, OpacityRandom)
	fixFloat("particles.movement_speed", &c.Particles.MovementSpeed, d.Particles.MovementSpeed, nonNegative)

	// Pointer
	fixFloat("pointer.influence_radius", &c.Pointer.InfluenceRadius, d.Pointer.InfluenceRadius, positive)
	fixEnum("pointer.force_mode", &c.Pointer.ForceMode, ForceAttract, ForceAttract, ForceRepel)
	fixFloat("pointer.force_strength", &c.Pointer.ForceStrength, d.Pointer.ForceStrength, nonNegative)

	// Boundary
	fixEnum("boundary.policy", &c.Boundary.Policy, BoundaryReflect, BoundaryReflect, BoundaryWrap)
	fixFloat("boundary.reentry_jitter", &c.Boundary.ReentryJitter, d.Boundary.ReentryJitter, nonNegative)

	// Physics
	fixFloat("physics.damping", &c.Physics.Damping, d.Physics.Damping, func(v float64) bool { return v > 0 && v < 1 })
	fixFloat("physics.stall_speed", &c.Physics.StallSpeed, d.Physics.StallSpeed, nonNegative)
	fixFloat("physics.stall_kick", &c.Physics.StallKick, d.Physics.StallKick, nonNegative)
	fixFloat("physics.max_dt", &c.Physics.MaxDT, d.Physics.MaxDT, func(v float64) bool { return v > 0 && v <= 1 })

	// Telemetry
	fixFloat("telemetry.stats_window", &c.Telemetry.StatsWindow, d.Telemetry.StatsWindow, positive)
	fixInt("telemetry.perf_collector_window", &c.Telemetry.PerfCollectorWindow, d.Telemetry.PerfCollectorWindow, func(v int) bool { return v >= 1 })
	fixFloat("telemetry.log_interval", &c.Telemetry.LogInterval, d.Telemetry.LogInterval, positive)

	// Logging
	fixEnum("logging.level", &c.Logging.Level, d.Logging.Level, "debug", "info", "warn", "error")

	return adj
}
