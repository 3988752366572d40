package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/starfield/config"
)

// Tunable is one slider bound to a config field.
type Tunable struct {
	ID      string
	Label   string
	Min     float32
	Max     float32
	Format  string
	Integer bool
	Get     func(*config.Config) float32
	Set     func(*config.Config, float32)
}

// Toggle is one checkbox bound to a config field.
type Toggle struct {
	ID    string
	Label string
	Get   func(*config.Config) bool
	Set   func(*config.Config, bool)
}

// Tunables lists the live-tunable particle parameters.
func Tunables() []Tunable {
	return []Tunable{
		{
			ID: "count", Label: "Particles", Min: 0, Max: 500, Format: "%.0f", Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Particles.Count) },
			Set: func(c *config.Config, v float32) { c.Particles.Count = int(math.Round(float64(v))) },
		},
		{
			ID: "size_min", Label: "Min size", Min: 0.2, Max: 6, Format: "%.1f",
			Get: func(c *config.Config) float32 { return float32(c.Particles.SizeMin) },
			Set: func(c *config.Config, v float32) { c.Particles.SizeMin = float64(v) },
		},
		{
			ID: "size_max", Label: "Max size", Min: 0.2, Max: 6, Format: "%.1f",
			Get: func(c *config.Config) float32 { return float32(c.Particles.SizeMax) },
			Set: func(c *config.Config, v float32) { c.Particles.SizeMax = float64(v) },
		},
		{
			ID: "opacity", Label: "Opacity", Min: 0.05, Max: 1, Format: "%.2f",
			Get: func(c *config.Config) float32 { return float32(c.Particles.Opacity) },
			Set: func(c *config.Config, v float32) { c.Particles.Opacity = float64(v) },
		},
		{
			ID: "speed", Label: "Speed", Min: 0, Max: 200, Format: "%.0f",
			Get: func(c *config.Config) float32 { return float32(c.Particles.MovementSpeed) },
			Set: func(c *config.Config, v float32) { c.Particles.MovementSpeed = float64(v) },
		},
		{
			ID: "radius", Label: "Influence", Min: 10, Max: 600, Format: "%.0f",
			Get: func(c *config.Config) float32 { return float32(c.Pointer.InfluenceRadius) },
			Set: func(c *config.Config, v float32) { c.Pointer.InfluenceRadius = float64(v) },
		},
		{
			ID: "strength", Label: "Strength", Min: 0, Max: 10, Format: "%.2f",
			Get: func(c *config.Config) float32 { return float32(c.Pointer.ForceStrength) },
			Set: func(c *config.Config, v float32) { c.Pointer.ForceStrength = float64(v) },
		},
		{
			ID: "damping", Label: "Damping", Min: 0.8, Max: 0.999, Format: "%.3f",
			Get: func(c *config.Config) float32 { return float32(c.Physics.Damping) },
			Set: func(c *config.Config, v float32) { c.Physics.Damping = float64(v) },
		},
		{
			ID: "jitter", Label: "Re-entry jitter", Min: 0, Max: 100, Format: "%.0f",
			Get: func(c *config.Config) float32 { return float32(c.Boundary.ReentryJitter) },
			Set: func(c *config.Config, v float32) { c.Boundary.ReentryJitter = float64(v) },
		},
	}
}

// Toggles lists the checkbox parameters.
func Toggles() []Toggle {
	return []Toggle{
		{
			ID: "repel", Label: "Repel",
			Get: func(c *config.Config) bool { return c.Pointer.ForceMode == config.ForceRepel },
			Set: func(c *config.Config, on bool) { c.Pointer.ForceMode = pick(on, config.ForceRepel, config.ForceAttract) },
		},
		{
			ID: "wrap", Label: "Wrap edges",
			Get: func(c *config.Config) bool { return c.Boundary.Policy == config.BoundaryWrap },
			Set: func(c *config.Config, on bool) { c.Boundary.Policy = pick(on, config.BoundaryWrap, config.BoundaryReflect) },
		},
		{
			ID: "random_opacity", Label: "Random opacity",
			Get: func(c *config.Config) bool { return c.Particles.OpacityMode == config.OpacityRandom },
			Set: func(c *config.Config, on bool) { c.Particles.OpacityMode = pick(on, config.OpacityRandom, config.OpacityFixed) },
		},
		{
			ID: "reduced_motion", Label: "Reduced motion",
			Get: func(c *config.Config) bool { return c.Accessibility.ReducedMotion },
			Set: func(c *config.Config, on bool) { c.Accessibility.ReducedMotion = on },
		},
	}
}

func pick(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}

// Apply sets a tunable on cfg, snapping integers, and reports whether the
// stored value changed.
func (t Tunable) Apply(cfg *config.Config, v float32) bool {
	if t.Integer {
		v = float32(math.Round(float64(v)))
	}
	if v < t.Min {
		v = t.Min
	}
	if v > t.Max {
		v = t.Max
	}
	if t.Get(cfg) == v {
		return false
	}
	t.Set(cfg, v)
	return true
}

// TuningPanel edits a config with raygui sliders and checkboxes.
type TuningPanel struct {
	renderer *Renderer
	tunables []Tunable
	toggles  []Toggle
	x, y     float32
	width    float32
	visible  bool
}

// NewTuningPanel creates a panel anchored at x, y.
func NewTuningPanel(x, y, width float32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		tunables: Tunables(),
		toggles:  Toggles(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// PanelAction reports which button, if any, was pressed this frame.
type PanelAction int

const (
	ActionNone PanelAction = iota
	ActionReset
	ActionReseed
	ActionCopy
)

// Draw renders the panel and writes slider changes into cfg. It returns
// whether cfg changed and any button pressed.
func (p *TuningPanel) Draw(cfg *config.Config) (bool, PanelAction) {
	if !p.visible {
		return false, ActionNone
	}
	r := p.renderer
	pad := float32(r.Theme.Padding)
	row := float32(38)

	height := pad*3 + 24 + row*float32(len(p.tunables)) + 24*float32(len(p.toggles)) + 40
	r.DrawPanel(int32(p.x), int32(p.y), int32(p.width), int32(height))

	x := p.x + pad
	y := p.y + pad
	rl.DrawText("Tuning", int32(x), int32(y), 16, rl.White)
	y += 24

	changed := false
	sliderWidth := p.width - pad*2 - 60
	for _, t := range p.tunables {
		rl.DrawText(t.Label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		v := gui.SliderBar(
			rl.Rectangle{X: x, Y: y + 14, Width: sliderWidth, Height: 16},
			"", "",
			t.Get(cfg), t.Min, t.Max,
		)
		if t.Apply(cfg, v) {
			changed = true
		}
		rl.DrawText(fmt.Sprintf(t.Format, t.Get(cfg)), int32(x+sliderWidth+8), int32(y+16), r.Theme.FontSize, r.Theme.ValueColor)
		y += row
	}

	for _, tg := range p.toggles {
		cur := tg.Get(cfg)
		next := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, tg.Label, cur)
		if next != cur {
			tg.Set(cfg, next)
			changed = true
		}
		y += 24
	}

	y += pad
	action := ActionNone
	bw := (p.width - pad*4) / 3
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: 28}, "Reset") {
		action = ActionReset
	}
	if gui.Button(rl.Rectangle{X: x + bw + pad, Y: y, Width: bw, Height: 28}, "Reseed") {
		action = ActionReseed
	}
	if gui.Button(rl.Rectangle{X: x + (bw+pad)*2, Y: y, Width: bw, Height: 28}, "Copy YAML") {
		action = ActionCopy
	}

	return changed, action
}

// ExportYAML renders the tunable sections of cfg as YAML.
func ExportYAML(cfg *config.Config) (string, error) {
	out := struct {
		Particles     config.ParticlesConfig     `yaml:"particles"`
		Pointer       config.PointerConfig       `yaml:"pointer"`
		Boundary      config.BoundaryConfig      `yaml:"boundary"`
		Physics       config.PhysicsConfig       `yaml:"physics"`
		Accessibility config.AccessibilityConfig `yaml:"accessibility"`
	}{cfg.Particles, cfg.Pointer, cfg.Boundary, cfg.Physics, cfg.Accessibility}

	data, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshaling tuning: %w", err)
	}
	return string(data), nil
}
