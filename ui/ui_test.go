package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/starfield/backdrop"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/telemetry"
)

func TestTunablesStayValid(t *testing.T) {
	for _, tn := range Tunables() {
		t.Run(tn.ID, func(t *testing.T) {
			for _, v := range []float32{tn.Min, (tn.Min + tn.Max) / 2, tn.Max} {
				cfg := config.Default()
				// Keep the size pair ordered whichever end is moved.
				cfg.Particles.SizeMin, cfg.Particles.SizeMax = 0.2, 6

				tn.Apply(cfg, v)
				want := v
				if tn.Integer {
					want = float32(int(v + 0.5))
				}
				assert.InDelta(t, want, tn.Get(cfg), 1e-6)
				assert.Empty(t, cfg.Refresh(), "value %v should pass sanitization", v)
			}
		})
	}
}

func TestTunableApplyClamps(t *testing.T) {
	cfg := config.Default()
	var count Tunable
	for _, tn := range Tunables() {
		if tn.ID == "count" {
			count = tn
		}
	}
	require.NotNil(t, count.Set)

	assert.True(t, count.Apply(cfg, 10000))
	assert.Equal(t, 500, cfg.Particles.Count)
	assert.False(t, count.Apply(cfg, 500), "unchanged value should not report a change")
	assert.True(t, count.Apply(cfg, 12.4))
	assert.Equal(t, 12, cfg.Particles.Count)
	assert.True(t, count.Apply(cfg, -3))
	assert.Equal(t, 0, cfg.Particles.Count)
}

func TestToggles(t *testing.T) {
	cfg := config.Default()
	for _, tg := range Toggles() {
		before := tg.Get(cfg)
		tg.Set(cfg, !before)
		assert.Equal(t, !before, tg.Get(cfg), tg.ID)
	}
	assert.Equal(t, config.ForceRepel, cfg.Pointer.ForceMode)
	assert.Equal(t, config.BoundaryWrap, cfg.Boundary.Policy)
	assert.Equal(t, config.OpacityRandom, cfg.Particles.OpacityMode)
	assert.True(t, cfg.Accessibility.ReducedMotion)
	assert.Empty(t, cfg.Refresh())
}

func TestExportYAML(t *testing.T) {
	cfg := config.Default()
	cfg.Particles.Count = 123
	cfg.Pointer.ForceMode = config.ForceRepel

	out, err := ExportYAML(cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "screen:")

	// The export is a valid partial config file.
	loaded := config.Default()
	require.NoError(t, yaml.Unmarshal([]byte(out), loaded))
	assert.Equal(t, 123, loaded.Particles.Count)
	assert.Equal(t, config.ForceRepel, loaded.Pointer.ForceMode)
}

func TestFieldRangeNormalize(t *testing.T) {
	r := FieldRange{Min: 0, Max: 100}
	assert.Equal(t, float32(0.5), r.Normalize(50))
	assert.Equal(t, float32(0), r.Normalize(-5))
	assert.Equal(t, float32(1), r.Normalize(500))
	assert.Equal(t, float32(0), FieldRange{}.Normalize(3))
	assert.Equal(t, float32(1), DefaultRange().Normalize(1))
}

func TestStatusSections(t *testing.T) {
	data := HUDData{
		Status: backdrop.Status{Mounted: true, Running: true, Particles: 75, Frames: 10, ClampedFrames: 2},
		FPS:    60,
	}
	data.Perf.PhasePct[telemetry.PhaseDraw] = 40

	fields := map[string]FieldDescriptor{}
	for _, sd := range StatusSections() {
		for _, fd := range sd.Fields {
			fields[fd.ID] = fd
		}
	}
	assert.Equal(t, "running", FieldText(fields["state"], data))
	assert.Equal(t, "75", FieldText(fields["particles"], data))
	assert.Equal(t, "10 (2 clamped)", FieldText(fields["frames"], data))
	assert.Equal(t, float32(40), fields["draw"].Getter(data))

	r := NewRenderer()
	var perf SectionDescriptor
	for _, sd := range StatusSections() {
		if sd.ID == "perf" {
			perf = sd
		}
	}
	assert.Positive(t, r.SectionHeight(perf, data))
	data.Status.Running = false
	assert.Zero(t, r.SectionHeight(perf, data), "perf section hides while idle")
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		status backdrop.Status
		want   string
	}{
		{backdrop.Status{}, "unmounted"},
		{backdrop.Status{Mounted: true, Inert: true}, "inert"},
		{backdrop.Status{Mounted: true, ReducedMotion: true}, "static"},
		{backdrop.Status{Mounted: true, Running: true}, "running"},
		{backdrop.Status{Mounted: true}, "idle"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stateLabel(tt.status))
	}
}
