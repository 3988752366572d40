package telemetry

import "time"

// Collector accumulates frame records within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec float64

	window        int
	simTime       float64
	windowElapsed float64

	// Counters for current window
	frames        int
	clampedFrames int
	pointerFrames int
	dtSum         float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
func NewCollector(windowDurationSec float64) *Collector {
	if !(windowDurationSec > 0) {
		windowDurationSec = 5
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordFrame records one simulated frame.
func (c *Collector) RecordFrame(dt time.Duration, clamped, pointerActive bool) {
	sec := dt.Seconds()
	c.frames++
	c.dtSum += sec
	c.simTime += sec
	c.windowElapsed += sec
	if clamped {
		c.clampedFrames++
	}
	if pointerActive {
		c.pointerFrames++
	}
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush() bool {
	return c.windowElapsed >= c.windowDurationSec
}

// Pending reports whether any frame was recorded since the last flush.
func (c *Collector) Pending() bool {
	return c.frames > 0
}

// Flush produces stats for the current window and starts the next one.
// speeds holds the current particle speeds and is sorted in place.
func (c *Collector) Flush(speeds []float64) WindowStats {
	stats := WindowStats{
		Window:        c.window,
		SimTimeSec:    c.simTime,
		Frames:        c.frames,
		ClampedFrames: c.clampedFrames,
		Particles:     len(speeds),
	}
	if c.frames > 0 {
		stats.MeanDTMillis = c.dtSum / float64(c.frames) * 1000
		stats.PointerActive = float64(c.pointerFrames) / float64(c.frames)
	}
	stats.SpeedMean, stats.SpeedStd, stats.SpeedP90, stats.SpeedMax = ComputeSpeedStats(speeds)

	c.window++
	c.windowElapsed = 0
	c.frames = 0
	c.clampedFrames = 0
	c.pointerFrames = 0
	c.dtSum = 0
	return stats
}

// Window returns the index of the current window.
func (c *Collector) Window() int {
	return c.window
}
