// Package backdrop mounts an animated particle field onto a drawing surface.
//
// A Backdrop owns its particles, surface geometry and frame scheduler. Host
// events only record the latest pointer and viewport; the next frame
// consumes them, so particles are mutated by the frame step alone.
package backdrop

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/input"
	"github.com/pthm-cable/starfield/scheduler"
	"github.com/pthm-cable/starfield/surface"
	"github.com/pthm-cable/starfield/systems"
	"github.com/pthm-cable/starfield/telemetry"
)

// ErrNoCanvas is logged when a backdrop is mounted without a drawable canvas.
var ErrNoCanvas = errors.New("backdrop: canvas unavailable")

// Canvas is a drawing target sized to the surface backing store.
type Canvas interface {
	Resize(st surface.State) error
	BeginFrame()
	DrawParticle(x, y, radius, alpha float32)
	EndFrame()
	Close() error
}

// Options configure a mount.
type Options struct {
	Config *config.Config // nil uses the embedded defaults
	Host   scheduler.Host // nil mounts without frames
	Clock  scheduler.Clock

	// OpenCanvas acquires the drawing target. A nil func or an error
	// leaves the backdrop inert.
	OpenCanvas func() (Canvas, error)

	Viewport      input.Viewport // initial size
	ReducedMotion bool           // host motion preference, ORed with the config
	Seed          int64          // 0 picks a time-based seed
	Logger        *slog.Logger
	Output        *telemetry.OutputManager // optional CSV sink, owned by the caller
}

// Status summarizes a backdrop for tools and tests.
type Status struct {
	Mounted       bool
	Running       bool
	Inert         bool
	ReducedMotion bool
	Particles     int
	Frames        uint64
	ClampedFrames uint64
}

// Backdrop is one mounted particle animation.
type Backdrop struct {
	id      uuid.UUID
	cfg     *config.Config
	params  systems.Params
	logger  *slog.Logger
	host    scheduler.Host
	reduced bool

	inbox   input.Inbox
	mounted atomic.Bool
	visible atomic.Bool

	// frameMu serializes frame work with Unmount and accessors
	frameMu sync.Mutex
	surface *surface.Surface
	field   *systems.Field
	forces  *systems.ForceSystem
	canvas  Canvas
	inert   bool // no canvas at mount; fixed for the backdrop's life
	seeded  bool
	sched   *scheduler.Scheduler

	// Reduced motion redraws through one-shot frames
	staticMu      sync.Mutex
	staticPending bool
	staticID      scheduler.FrameID

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perfLog   rate.Sometimes
	speeds    []float64
}

// Mount creates a backdrop and starts animating it when possible. It never
// fails: missing capabilities leave an inert backdrop and are logged.
func Mount(opts Options) *Backdrop {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	host := opts.Host
	if host == nil {
		host = scheduler.NullHost{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	id := uuid.New()
	logger = logger.With("surface_id", id.String())
	// The caller may have edited cfg after loading it, so the copy is
	// sanitized again. Adjustments made at load time are still reported.
	adjustments := slices.Clip(cfg.Derived.Adjustments)
	cfg = cfg.Clone()
	adjustments = append(adjustments, cfg.Refresh()...)
	for _, adj := range adjustments {
		logger.Warn("config value adjusted", "field", adj.Field, "got", adj.Got, "used", adj.Used)
	}

	b := &Backdrop{
		id:        id,
		cfg:       cfg,
		params:    systems.ParamsFromConfig(cfg),
		logger:    logger,
		host:      host,
		reduced:   opts.ReducedMotion || cfg.Accessibility.ReducedMotion,
		surface:   surface.New(float32(cfg.Surface.MaxDPR)),
		field:     systems.NewField(seed),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		output:    opts.Output,
		perfLog:   rate.Sometimes{Interval: cfg.Derived.LogInterval},
	}
	b.forces = systems.NewForceSystem(b.field, b.params.Force)
	b.sched = scheduler.New(host, b.step, scheduler.Config{
		MaxDT:  cfg.Derived.MaxDT,
		Clock:  opts.Clock,
		Logger: logger,
	})
	b.mounted.Store(true)
	b.visible.Store(true)

	if err := b.output.WriteConfig(cfg); err != nil {
		logger.Warn("config snapshot failed", "error", err)
	}

	b.canvas = openCanvas(opts.OpenCanvas, logger)
	b.inert = b.canvas == nil

	b.frameMu.Lock()
	b.applyViewport(opts.Viewport)
	st := b.surface.State()
	b.frameMu.Unlock()

	logger.Info("backdrop mounted",
		"width", st.Width,
		"height", st.Height,
		"dpr", st.DPR,
		"particles", b.params.Count,
		"policy", b.params.Boundary.Policy,
		"force_mode", b.params.Force.Mode,
		"reduced_motion", b.reduced,
	)

	switch {
	case b.inert:
		// Inert: events are accepted and ignored
	case b.reduced:
		b.frameMu.Lock()
		b.drawStatic()
		b.frameMu.Unlock()
	case st.Degenerate():
		logger.Info("surface has no area, waiting for resize")
	default:
		b.frameMu.Lock()
		b.seed()
		b.frameMu.Unlock()
		b.start()
	}
	return b
}

func openCanvas(open func() (Canvas, error), logger *slog.Logger) Canvas {
	if open == nil {
		logger.Warn("backdrop is inert", "error", ErrNoCanvas)
		return nil
	}
	c, err := open()
	if err != nil {
		logger.Warn("backdrop is inert", "error", errors.Join(ErrNoCanvas, err))
		return nil
	}
	if c == nil {
		logger.Warn("backdrop is inert", "error", ErrNoCanvas)
	}
	return c
}

// start begins frame delivery if animation is allowed.
func (b *Backdrop) start() {
	if !b.mounted.Load() || b.reduced || b.inert || !b.visible.Load() {
		return
	}
	if !b.sched.Start() {
		b.logger.Warn("host cannot deliver frames, animation disabled")
	}
}

// Unmount stops the animation and releases the canvas and particles.
// Safe to call more than once. Must not be called from inside a frame.
func (b *Backdrop) Unmount() {
	if !b.mounted.CompareAndSwap(true, false) {
		return
	}
	b.sched.Stop()
	b.cancelStatic()
	b.inbox.Reset()

	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	if b.canvas != nil {
		if err := b.canvas.Close(); err != nil {
			b.logger.Warn("closing canvas", "error", err)
		}
		b.canvas = nil
	}

	if b.collector.Pending() {
		b.flushWindow()
	}
	b.field.Discard()

	b.logger.Info("backdrop unmounted",
		"frames", b.sched.Frames(),
		"clamped_frames", b.sched.ClampedFrames(),
	)
}

// ID returns the mount identity used in logs.
func (b *Backdrop) ID() uuid.UUID {
	return b.id
}

// Config returns the configuration the backdrop was mounted with.
func (b *Backdrop) Config() *config.Config {
	return b.cfg
}

// State returns a status summary.
func (b *Backdrop) State() Status {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()
	return Status{
		Mounted:       b.mounted.Load(),
		Running:       b.sched.Running(),
		Inert:         b.inert,
		ReducedMotion: b.reduced,
		Particles:     b.field.Len(),
		Frames:        b.sched.Frames(),
		ClampedFrames: b.sched.ClampedFrames(),
	}
}

// Particles returns a copy of every particle.
func (b *Backdrop) Particles() []systems.Particle {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()
	return b.field.Snapshot(nil)
}

// Surface returns the current surface geometry.
func (b *Backdrop) Surface() surface.State {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()
	return b.surface.State()
}

// Perf returns the rolling frame timing.
func (b *Backdrop) Perf() telemetry.PerfStats {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()
	return b.perf.Stats()
}
