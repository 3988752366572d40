package backdrop

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/input"
	"github.com/pthm-cable/starfield/scheduler"
	"github.com/pthm-cable/starfield/surface"
	"github.com/pthm-cable/starfield/systems"
	"github.com/pthm-cable/starfield/telemetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCanvas struct {
	resizes []surface.State
	frames  int
	drawn   int // particles in the last frame
	closed  bool
}

func (c *fakeCanvas) Resize(st surface.State) error {
	c.resizes = append(c.resizes, st)
	return nil
}
func (c *fakeCanvas) BeginFrame()                     { c.drawn = 0 }
func (c *fakeCanvas) DrawParticle(_, _, _, _ float32) { c.drawn++ }
func (c *fakeCanvas) EndFrame()                       { c.frames++ }
func (c *fakeCanvas) Close() error                    { c.closed = true; return nil }

type harness struct {
	host   *scheduler.LoopHost
	clock  *scheduler.ManualClock
	canvas *fakeCanvas
	b      *Backdrop
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mount(t *testing.T, edit func(*Options)) *harness {
	t.Helper()
	h := &harness{
		host:   scheduler.NewLoopHost(),
		clock:  scheduler.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		canvas: &fakeCanvas{},
	}
	opts := Options{
		Config:     config.Default(),
		Host:       h.host,
		Clock:      h.clock,
		OpenCanvas: func() (Canvas, error) { return h.canvas, nil },
		Viewport:   input.Viewport{Width: 800, Height: 600, DPR: 1},
		Seed:       42,
		Logger:     quietLogger(),
	}
	if edit != nil {
		edit(&opts)
	}
	h.b = Mount(opts)
	t.Cleanup(h.b.Unmount)
	return h
}

func (h *harness) run(n int, dt time.Duration) {
	for i := 0; i < n; i++ {
		h.host.Pump(h.clock.Advance(dt))
	}
}

func assertInBounds(t *testing.T, particles []systems.Particle, w, h float32) {
	t.Helper()
	for i, p := range particles {
		if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
			t.Fatalf("particle %d at (%f, %f) outside %fx%f", i, p.X, p.Y, w, h)
		}
	}
}

func TestMountSeedsAndRuns(t *testing.T) {
	h := mount(t, nil)

	st := h.b.State()
	assert.True(t, st.Mounted)
	assert.True(t, st.Running)
	assert.False(t, st.Inert)
	assert.Equal(t, 75, st.Particles)

	h.run(10, 16*time.Millisecond)

	assert.Equal(t, 10, h.canvas.frames)
	assert.Equal(t, 75, h.canvas.drawn)
	assert.Equal(t, uint64(10), h.b.State().Frames)
	assertInBounds(t, h.b.Particles(), 800, 600)

	require.Len(t, h.canvas.resizes, 1)
	assert.Equal(t, int32(800), h.canvas.resizes[0].BackingWidth)
}

func TestLongGapIntegratesLikeMaxDT(t *testing.T) {
	gap := mount(t, nil)
	step := mount(t, nil)

	gap.run(1, 10*time.Second)
	step.run(1, 50*time.Millisecond)

	assert.Equal(t, uint64(1), gap.b.State().ClampedFrames)
	assert.Equal(t, step.b.Particles(), gap.b.Particles())
}

func TestResizeClampsParticles(t *testing.T) {
	h := mount(t, func(o *Options) {
		o.Config.Particles.Count = 50
		o.Config.Refresh()
		o.Viewport = input.Viewport{Width: 1000, Height: 800, DPR: 1}
	})
	h.run(5, 16*time.Millisecond)

	h.b.Resize(400, 300, 1)
	h.run(1, 16*time.Millisecond)

	assert.Len(t, h.b.Particles(), 50)
	assertInBounds(t, h.b.Particles(), 400, 300)

	st := h.b.Surface()
	assert.Equal(t, float32(400), st.Width)
	assert.Equal(t, float32(300), st.Height)
}

func TestResizeAppliesPixelRatio(t *testing.T) {
	h := mount(t, nil)

	h.b.Resize(500, 400, 3)
	h.run(1, 16*time.Millisecond)

	st := h.b.Surface()
	assert.Equal(t, float32(2), st.DPR, "pixel ratio is capped by surface.max_dpr")
	assert.Equal(t, int32(1000), st.BackingWidth)
	assert.Equal(t, int32(800), st.BackingHeight)
	assert.Equal(t, st, h.canvas.resizes[len(h.canvas.resizes)-1])
}

func TestReducedMotion(t *testing.T) {
	testCases := []struct {
		name string
		edit func(*Options)
	}{
		{"host signal", func(o *Options) { o.ReducedMotion = true }},
		{"config", func(o *Options) { o.Config.Accessibility.ReducedMotion = true }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := mount(t, tc.edit)

			st := h.b.State()
			assert.True(t, st.ReducedMotion)
			assert.False(t, st.Running)
			assert.Equal(t, 0, st.Particles)
			assert.Equal(t, 1, h.canvas.frames, "one static frame at mount")
			assert.Equal(t, 0, h.canvas.drawn)

			h.run(10, 16*time.Millisecond)
			assert.Equal(t, 1, h.canvas.frames)

			// Resize redraws the static frame once
			h.b.Resize(400, 300, 1)
			h.b.Resize(420, 300, 1)
			h.run(3, 16*time.Millisecond)
			assert.Equal(t, 2, h.canvas.frames)
			assert.Equal(t, float32(420), h.b.Surface().Width)

			h.b.SetVisible(false)
			h.b.SetVisible(true)
			h.b.PointerMove(10, 10)
			h.run(3, 16*time.Millisecond)

			st = h.b.State()
			assert.False(t, st.Running)
			assert.Equal(t, 0, st.Particles)
			assert.Equal(t, uint64(0), st.Frames)
		})
	}
}

func TestDegenerateMountDefersSeeding(t *testing.T) {
	h := mount(t, func(o *Options) { o.Viewport = input.Viewport{} })

	st := h.b.State()
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.Particles)
	assert.Equal(t, 0, h.host.Pending())

	h.b.Resize(640, 480, 1)
	assert.True(t, h.b.State().Running)
	h.run(1, 16*time.Millisecond)

	assert.Equal(t, 75, h.b.State().Particles)
	assertInBounds(t, h.b.Particles(), 640, 480)
}

func TestResizeToZeroPauses(t *testing.T) {
	h := mount(t, nil)
	h.run(3, 16*time.Millisecond)

	h.b.Resize(0, 600, 1)
	h.run(1, 16*time.Millisecond)

	st := h.b.State()
	assert.False(t, st.Running)
	assert.Equal(t, 75, st.Particles, "particles survive a collapsed surface")
	assert.Equal(t, 0, h.host.Pending())
	frames := h.canvas.frames

	h.run(5, 16*time.Millisecond)
	assert.Equal(t, frames, h.canvas.frames)

	h.b.Resize(300, 200, 1)
	h.run(2, 16*time.Millisecond)
	assert.True(t, h.b.State().Running)
	assertInBounds(t, h.b.Particles(), 300, 200)
}

func TestCanvasFailureIsInert(t *testing.T) {
	testCases := []struct {
		name string
		open func() (Canvas, error)
	}{
		{"error", func() (Canvas, error) { return nil, errors.New("no context") }},
		{"missing opener", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := mount(t, func(o *Options) { o.OpenCanvas = tc.open })

			st := h.b.State()
			assert.True(t, st.Mounted)
			assert.True(t, st.Inert)
			assert.False(t, st.Running)
			assert.Equal(t, 0, h.host.Pending())

			h.b.PointerMove(1, 1)
			h.b.Resize(100, 100, 1)
			h.b.SetVisible(false)
			h.b.SetVisible(true)
			h.run(3, 16*time.Millisecond)
			assert.False(t, h.b.State().Running)
		})
	}
}

func TestNoFrameHost(t *testing.T) {
	h := mount(t, func(o *Options) { o.Host = nil })

	st := h.b.State()
	assert.False(t, st.Running)
	assert.Equal(t, 0, h.canvas.frames)
}

func TestNoFramesAfterUnmount(t *testing.T) {
	h := mount(t, nil)
	h.run(5, 16*time.Millisecond)

	h.b.Unmount()
	h.b.Unmount()

	assert.True(t, h.canvas.closed)
	assert.Equal(t, 0, h.host.Pending())
	frames := h.canvas.frames

	h.b.Resize(100, 100, 1)
	h.b.SetVisible(false)
	h.b.SetVisible(true)
	h.b.PointerMove(50, 50)
	h.run(5, 16*time.Millisecond)

	st := h.b.State()
	assert.False(t, st.Mounted)
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.Particles)
	assert.Equal(t, frames, h.canvas.frames)
	assert.Empty(t, h.b.Particles())
}

func TestUnmountDuringReducedRedraw(t *testing.T) {
	h := mount(t, func(o *Options) { o.ReducedMotion = true })
	h.b.Resize(300, 300, 1)
	require.Equal(t, 1, h.host.Pending())

	h.b.Unmount()
	assert.Equal(t, 0, h.host.Pending())
	h.run(1, 16*time.Millisecond)
	assert.Equal(t, 1, h.canvas.frames)
}

func TestVisibilityPauses(t *testing.T) {
	h := mount(t, nil)
	h.run(2, 16*time.Millisecond)

	h.b.SetVisible(false)
	assert.False(t, h.b.State().Running)
	h.run(5, time.Second)
	assert.Equal(t, 2, h.canvas.frames)

	h.b.SetVisible(true)
	assert.True(t, h.b.State().Running)
	h.run(1, 16*time.Millisecond)

	st := h.b.State()
	assert.Equal(t, uint64(3), st.Frames)
	assert.Equal(t, uint64(0), st.ClampedFrames, "resume starts from a fresh timestamp")
}

func TestPointerDrawsParticlesIn(t *testing.T) {
	setup := func(o *Options) {
		o.Config.Particles.Count = 200
		o.Config.Refresh()
	}
	with := mount(t, setup)
	without := mount(t, setup)

	cx, cy := float32(400), float32(300)
	meanDist := func(b *Backdrop) float64 {
		var sum float64
		ps := b.Particles()
		for _, p := range ps {
			sum += math.Hypot(float64(p.X-cx), float64(p.Y-cy))
		}
		return sum / float64(len(ps))
	}

	with.b.PointerMove(cx, cy)
	with.run(180, 16*time.Millisecond)
	without.run(180, 16*time.Millisecond)

	assert.Less(t, meanDist(with.b), meanDist(without.b))

	with.b.PointerLeave()
	with.run(1, 16*time.Millisecond)
	assert.Equal(t, uint64(181), with.b.State().Frames)
}

func TestTelemetryOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := telemetry.NewOutputManager(dir)
	require.NoError(t, err)
	defer om.Close()

	h := mount(t, func(o *Options) {
		o.Config.Telemetry.StatsWindow = 0.5
		o.Config.Refresh()
		o.Output = om
	})
	h.run(40, 16*time.Millisecond)
	h.b.Unmount()

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header, one full window and the partial window flushed at unmount
	assert.Len(t, lines, 3)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestMountLogsAdjustments(t *testing.T) {
	var buf strings.Builder
	cfg := config.Default()
	cfg.Particles.Count = -3
	cfg.Refresh()

	b := Mount(Options{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	})
	defer b.Unmount()

	assert.Contains(t, buf.String(), "config value adjusted")
	assert.Contains(t, buf.String(), "particles.count")
	assert.Contains(t, buf.String(), "surface_id="+b.ID().String())
}

func TestMountSanitizesEditedConfig(t *testing.T) {
	var buf strings.Builder
	cfg := config.Default()
	// Edited after loading, never refreshed by the caller.
	cfg.Physics.Damping = 1.5
	cfg.Particles.SizeMin = -4
	cfg.Particles.SizeMax = -2
	cfg.Pointer.ForceStrength = math.NaN()

	h := mount(t, func(o *Options) {
		o.Config = cfg
		o.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	})
	assert.Equal(t, 1.5, cfg.Physics.Damping, "caller's config must not be modified")

	used := h.b.Config()
	require.Greater(t, used.Physics.Damping, 0.0)
	require.Less(t, used.Physics.Damping, 1.0)
	maxSpeed := float64(used.Derived.MaxSpeed)
	require.False(t, math.IsInf(maxSpeed, 0) || math.IsNaN(maxSpeed))

	h.b.PointerMove(400, 300)
	h.run(300, time.Second/60)

	particles := h.b.Particles()
	require.Len(t, particles, used.Particles.Count)
	for i, p := range particles {
		assert.Positive(t, p.Radius, "particle %d", i)
		assert.GreaterOrEqual(t, float64(p.Radius), used.Particles.SizeMin, "particle %d", i)
		assert.LessOrEqual(t, float64(p.Radius), used.Particles.SizeMax, "particle %d", i)

		speed := math.Hypot(float64(p.VX), float64(p.VY))
		assert.False(t, math.IsNaN(speed), "particle %d has NaN velocity", i)
		assert.LessOrEqual(t, speed, maxSpeed*1.0001, "particle %d", i)
	}

	for _, field := range []string{"physics.damping", "particles.size_min", "particles.size_max", "pointer.force_strength"} {
		assert.Contains(t, buf.String(), field)
	}
}
