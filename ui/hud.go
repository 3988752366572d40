package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfield/backdrop"
	"github.com/pthm-cable/starfield/surface"
	"github.com/pthm-cable/starfield/telemetry"
)

// HUDData holds everything the status panel shows.
type HUDData struct {
	Status  backdrop.Status
	Surface surface.State
	Perf    telemetry.PerfStats
	FPS     int32
}

// StatusSections describes the status panel layout.
func StatusSections() []SectionDescriptor {
	hud := func(d any) HUDData { return d.(HUDData) }
	return []SectionDescriptor{
		{
			ID:    "backdrop",
			Title: "Backdrop",
			Fields: []FieldDescriptor{
				{ID: "state", Label: "State", Widget: WidgetText, TextGetter: func(d any) string { return stateLabel(hud(d).Status) }},
				{ID: "particles", Label: "Particles", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(hud(d).Status.Particles) }},
				{ID: "frames", Label: "Frames", Widget: WidgetText, TextGetter: func(d any) string {
					s := hud(d).Status
					return fmt.Sprintf("%d (%d clamped)", s.Frames, s.ClampedFrames)
				}},
			},
		},
		{
			ID:    "surface",
			Title: "Surface",
			Fields: []FieldDescriptor{
				{ID: "logical", Label: "Logical", Widget: WidgetText, TextGetter: func(d any) string {
					st := hud(d).Surface
					return fmt.Sprintf("%.0f x %.0f", st.Width, st.Height)
				}},
				{ID: "backing", Label: "Backing", Widget: WidgetText, TextGetter: func(d any) string {
					st := hud(d).Surface
					return fmt.Sprintf("%d x %d @%.2f", st.BackingWidth, st.BackingHeight, st.DPR)
				}},
			},
		},
		{
			ID:      "perf",
			Title:   "Frame time",
			Visible: func(d any) bool { return hud(d).Status.Running },
			Fields: []FieldDescriptor{
				{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(hud(d).FPS) }},
				{ID: "avg", Label: "Avg", Widget: WidgetText, TextGetter: func(d any) string {
					return hud(d).Perf.AvgFrameDuration.Round(time.Microsecond).String()
				}},
				{ID: "forces", Label: "Forces %", Widget: WidgetBar, Range: FieldRange{Max: 100}, Getter: func(d any) float32 {
					return float32(hud(d).Perf.PhasePct[telemetry.PhaseForces])
				}},
				{ID: "draw", Label: "Draw %", Widget: WidgetBar, Range: FieldRange{Max: 100}, Getter: func(d any) float32 {
					return float32(hud(d).Perf.PhasePct[telemetry.PhaseDraw])
				}},
			},
		},
	}
}

func stateLabel(s backdrop.Status) string {
	switch {
	case !s.Mounted:
		return "unmounted"
	case s.Inert:
		return "inert"
	case s.ReducedMotion:
		return "static"
	case s.Running:
		return "running"
	}
	return "idle"
}

// HUD renders the status panel.
type HUD struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
	visible  bool
}

// NewHUD creates a new HUD at the given position.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		sections: StatusSections(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}
	r := h.renderer
	pad := r.Theme.Padding

	height := pad * 2
	for _, sd := range h.sections {
		height += r.SectionHeight(sd, data)
	}
	r.DrawPanel(h.x, h.y, h.width, height)

	y := h.y + pad
	for _, sd := range h.sections {
		y = r.DrawSection(h.x+pad, y, sd, data, h.width-pad*2)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
