package hosts

import (
	"context"
	"math"
	"time"

	"github.com/pthm-cable/starfield/backdrop"
	"github.com/pthm-cable/starfield/input"
	"github.com/pthm-cable/starfield/scheduler"
)

// Orbit timing for the synthetic pointer.
const (
	orbitPeriod = 4 * time.Second // one revolution
	orbitCycle  = 5 * time.Second // pointer is away for the last second
)

// HeadlessOptions configure RunHeadless.
type HeadlessOptions struct {
	Frames        int           // 0 runs until ctx ends
	FrameInterval time.Duration // simulated time per frame, 0 means 60 fps
	Orbit         bool          // circle a synthetic pointer around the center
}

// OrbitPointer returns the synthetic pointer at simulated time t for a
// viewport. The pointer leaves for part of every cycle.
func OrbitPointer(t time.Duration, vp input.Viewport) input.PointerState {
	if t%orbitCycle >= orbitCycle-time.Second {
		return input.Inactive
	}
	radius := 0.3 * math.Min(float64(vp.Width), float64(vp.Height))
	angle := 2 * math.Pi * t.Seconds() / orbitPeriod.Seconds()
	return input.PointerState{
		X:      vp.Width/2 + float32(radius*math.Cos(angle)),
		Y:      vp.Height/2 + float32(radius*math.Sin(angle)),
		Active: true,
	}
}

// RunHeadless advances a backdrop on a manual clock and returns the number
// of frames pumped. It stops early once the backdrop can no longer animate.
func RunHeadless(ctx context.Context, b *backdrop.Backdrop, host *scheduler.LoopHost, clock *scheduler.ManualClock, opts HeadlessOptions) int {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}

	vp := b.Surface()
	viewport := input.Viewport{Width: vp.Width, Height: vp.Height, DPR: vp.DPR}
	var simTime time.Duration
	pointerWasActive := false

	pumped := 0
	for opts.Frames == 0 || pumped < opts.Frames {
		if ctx.Err() != nil {
			break
		}
		if host.Pending() == 0 {
			break
		}

		if opts.Orbit {
			p := OrbitPointer(simTime, viewport)
			switch {
			case p.Active:
				b.PointerMove(p.X, p.Y)
			case pointerWasActive:
				b.PointerLeave()
			}
			pointerWasActive = p.Active
		}

		simTime += opts.FrameInterval
		host.Pump(clock.Advance(opts.FrameInterval))
		pumped++
	}
	return pumped
}
