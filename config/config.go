// Package config provides configuration loading and access for the starfield.
package config

import (
	"embed"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed presets/*.yaml
var presetFS embed.FS

// Force modes.
const (
	ForceAttract = "attract"
	ForceRepel   = "repel"
)

// Boundary policies.
const (
	BoundaryReflect = "reflect"
	BoundaryWrap    = "wrap"
)

// Opacity modes.
const (
	OpacityFixed  = "fixed"
	OpacityRandom = "random"
)

// MaxParticleCount caps particles.count.
const MaxParticleCount = 5000

// Config holds all starfield configuration parameters.
type Config struct {
	Screen        ScreenConfig        `yaml:"screen"`
	Surface       SurfaceConfig       `yaml:"surface"`
	Particles     ParticlesConfig     `yaml:"particles"`
	Pointer       PointerConfig       `yaml:"pointer"`
	Boundary      BoundaryConfig      `yaml:"boundary"`
	Physics       PhysicsConfig       `yaml:"physics"`
	Accessibility AccessibilityConfig `yaml:"accessibility"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the native host.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// SurfaceConfig holds drawing surface settings.
type SurfaceConfig struct {
	MaxDPR           float64 `yaml:"max_dpr"`           // Device pixel ratio ceiling (floor is always 1)
	BackgroundTop    string  `yaml:"background_top"`    // Hex color at the top of the gradient
	BackgroundBottom string  `yaml:"background_bottom"` // Hex color at the bottom of the gradient
}

// ParticlesConfig holds particle seeding parameters.
type ParticlesConfig struct {
	Count         int     `yaml:"count"`
	SizeMin       float64 `yaml:"size_min"`
	SizeMax       float64 `yaml:"size_max"`
	Opacity       float64 `yaml:"opacity"`        // Fixed alpha, or the ceiling in random mode
	OpacityMode   string  `yaml:"opacity_mode"`   // fixed | random
	MovementSpeed float64 `yaml:"movement_speed"` // Seed velocity magnitude in px/s
}

// PointerConfig holds the pointer force field parameters.
type PointerConfig struct {
	InfluenceRadius float64 `yaml:"influence_radius"`
	ForceMode       string  `yaml:"force_mode"`     // attract | repel
	ForceStrength   float64 `yaml:"force_strength"` // px/s added per frame at full falloff
}

// BoundaryConfig holds edge handling parameters.
type BoundaryConfig struct {
	Policy        string  `yaml:"policy"`         // reflect | wrap
	ReentryJitter float64 `yaml:"reentry_jitter"` // Max extra height above the top edge on wrap reinsertion
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	Damping    float64 `yaml:"damping"`     // Per-frame velocity decay toward drift, in (0, 1)
	StallSpeed float64 `yaml:"stall_speed"` // Below this speed a particle gets a random kick
	StallKick  float64 `yaml:"stall_kick"`  // Full width of the random kick per axis
	MaxDT      float64 `yaml:"max_dt"`      // Largest integration step in seconds
}

// AccessibilityConfig holds motion preferences.
type AccessibilityConfig struct {
	ReducedMotion bool `yaml:"reduced_motion"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of simulated time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames averaged by the perf collector
	LogInterval         float64 `yaml:"log_interval"`          // Minimum seconds between perf log lines
}

// LoggingConfig holds log sink settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxDT            time.Duration // Physics.MaxDT as a duration
	LogInterval      time.Duration // Telemetry.LogInterval as a duration
	ForceSign        float32       // +1 attract, -1 repel
	MaxSpeed         float32       // Hard velocity bound
	BackgroundTop    color.RGBA
	BackgroundBottom color.RGBA
	Adjustments      []Adjustment // Values replaced by Sanitize
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := LoadPreset("", "")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	return LoadPreset("", path)
}

// LoadPreset layers embedded defaults, the named preset and the user file,
// in that order. Empty preset and path are skipped.
func LoadPreset(preset, path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if preset != "" {
		data, err := presetFS.ReadFile("presets/" + preset + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(Presets(), ", "))
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing preset %q: %w", preset, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Derived.Adjustments = cfg.Sanitize()
	cfg.computeDerived()

	return cfg, nil
}

// Presets lists the embedded preset names.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}

// Clone returns an independent copy with derived values recomputed.
func (c *Config) Clone() *Config {
	out := *c
	out.Derived = DerivedConfig{}
	out.computeDerived()
	return &out
}

// Refresh sanitizes the config in place and recomputes derived values.
// Use after editing fields of a loaded config.
func (c *Config) Refresh() []Adjustment {
	adj := c.Sanitize()
	c.computeDerived()
	c.Derived.Adjustments = adj
	return adj
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxDT = time.Duration(c.Physics.MaxDT * float64(time.Second))
	c.Derived.LogInterval = time.Duration(c.Telemetry.LogInterval * float64(time.Second))

	c.Derived.ForceSign = 1
	if c.Pointer.ForceMode == ForceRepel {
		c.Derived.ForceSign = -1
	}

	// Impulses plus kicks decay geometrically, so their sum is bounded by
	// (F + kick) / (1 - d). Drift and seed speeds sit on top of that.
	impulse := (c.Pointer.ForceStrength + c.Physics.StallKick) / (1 - c.Physics.Damping)
	c.Derived.MaxSpeed = float32(1.5*c.Particles.MovementSpeed + impulse)

	c.Derived.BackgroundTop, _ = ParseHexColor(c.Surface.BackgroundTop)
	c.Derived.BackgroundBottom, _ = ParseHexColor(c.Surface.BackgroundBottom)
}

// ParseHexColor parses #RRGGBB into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	var c color.RGBA
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return c, fmt.Errorf("color %q: want #RRGGBB", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("color %q: %w", s, err)
	}
	c.A = 255
	return c, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
