package backdrop

import (
	"time"

	"github.com/pthm-cable/starfield/input"
	"github.com/pthm-cable/starfield/scheduler"
	"github.com/pthm-cable/starfield/systems"
	"github.com/pthm-cable/starfield/telemetry"
)

// step runs one animation frame.
func (b *Backdrop) step(f scheduler.Frame) {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	if b.canvas == nil {
		b.sched.Stop()
		return
	}

	b.perf.StartFrame()
	b.perf.StartPhase(telemetry.PhaseEvents)
	if vp, ok := b.inbox.TakeViewport(); ok {
		b.applyViewport(vp)
	}
	if b.surface.State().Degenerate() {
		b.logger.Info("surface has no area, pausing")
		b.sched.Stop()
		b.perf.EndFrame()
		return
	}
	if !b.seeded {
		b.seed()
	}
	ptr := b.inbox.Pointer()
	bounds := b.bounds()

	b.perf.StartPhase(telemetry.PhaseForces)
	b.forces.Apply(ptr)

	b.perf.StartPhase(telemetry.PhaseIntegrate)
	b.field.Integrate(f.Seconds(), bounds, b.params.Boundary)

	b.perf.StartPhase(telemetry.PhaseDraw)
	b.draw()

	b.perf.StartPhase(telemetry.PhaseTelemetry)
	b.record(f, ptr)
	b.perf.EndFrame()
}

func (b *Backdrop) bounds() systems.Bounds {
	st := b.surface.State()
	return systems.Bounds{Width: st.Width, Height: st.Height}
}

// seed fills the pool once the surface has area.
func (b *Backdrop) seed() {
	if b.seeded || b.surface.State().Degenerate() {
		return
	}
	n := b.field.Seed(b.params.Count, b.bounds(), b.params.Seed)
	b.seeded = true
	b.logger.Debug("particles seeded", "count", n)
}

// applyViewport resizes the surface and keeps existing particles in bounds.
func (b *Backdrop) applyViewport(vp input.Viewport) {
	if !b.surface.Resize(vp.Width, vp.Height, vp.DPR) {
		return
	}
	st := b.surface.State()
	if b.canvas != nil {
		if err := b.canvas.Resize(st); err != nil {
			b.logger.Warn("canvas resize failed", "error", err)
		}
	}
	b.field.Clamp(b.bounds(), b.params.Boundary)
	b.logger.Debug("surface resized",
		"width", st.Width,
		"height", st.Height,
		"dpr", st.DPR,
		"backing_width", st.BackingWidth,
		"backing_height", st.BackingHeight,
	)
}

func (b *Backdrop) draw() {
	b.canvas.BeginFrame()
	b.field.Each(b.canvas.DrawParticle)
	b.canvas.EndFrame()
}

// drawStatic renders the background-only frame used under reduced motion.
func (b *Backdrop) drawStatic() {
	if b.canvas == nil {
		return
	}
	b.canvas.BeginFrame()
	b.canvas.EndFrame()
}

func (b *Backdrop) record(f scheduler.Frame, ptr input.PointerState) {
	b.collector.RecordFrame(f.DT, f.Clamped, ptr.Active)
	if b.collector.ShouldFlush() {
		b.flushWindow()
	}
	b.perfLog.Do(func() {
		b.logger.Debug("perf", "perf", b.perf.Stats())
	})
}

func (b *Backdrop) flushWindow() {
	b.speeds = b.field.Speeds(b.speeds[:0])
	stats := b.collector.Flush(b.speeds)
	b.logger.Info("window stats", "stats", stats)

	if err := b.output.WriteTelemetry(stats); err != nil {
		b.logger.Warn("telemetry write failed", "error", err)
	}
	if b.perf.Samples() > 0 {
		if err := b.output.WritePerf(b.perf.Stats(), stats.Window); err != nil {
			b.logger.Warn("perf write failed", "error", err)
		}
	}
}

// requestStatic schedules a one-shot redraw under reduced motion.
func (b *Backdrop) requestStatic() {
	b.staticMu.Lock()
	defer b.staticMu.Unlock()
	if b.staticPending {
		return
	}
	id, err := b.host.RequestFrame(b.staticFrame)
	if err != nil {
		b.logger.Debug("static redraw unavailable", "error", err)
		return
	}
	b.staticID = id
	b.staticPending = true
}

func (b *Backdrop) staticFrame(time.Time) {
	b.staticMu.Lock()
	b.staticPending = false
	b.staticMu.Unlock()

	if !b.mounted.Load() {
		return
	}
	b.frameMu.Lock()
	defer b.frameMu.Unlock()
	if vp, ok := b.inbox.TakeViewport(); ok {
		b.applyViewport(vp)
	}
	b.drawStatic()
}

func (b *Backdrop) cancelStatic() {
	b.staticMu.Lock()
	defer b.staticMu.Unlock()
	if b.staticPending {
		b.host.CancelFrame(b.staticID)
		b.staticPending = false
	}
}
