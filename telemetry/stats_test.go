package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{10, 2, 7, 1, 5, 3, 9, 4, 8, 6}
	mean, std, p90, max := ComputeSpeedStats(values)

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Sample standard deviation of 1..10
	if math.Abs(std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", std)
	}
	if p90 < 9 || p90 > 10 {
		t.Errorf("p90 = %v, want within [9, 10]", p90)
	}
	if max != 10 {
		t.Errorf("max = %v, want 10", max)
	}
}

func TestComputeSpeedStatsSmall(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   [4]float64
	}{
		{"empty", nil, [4]float64{0, 0, 0, 0}},
		{"single", []float64{4}, [4]float64{4, 0, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, p90, max := ComputeSpeedStats(tt.values)
			got := [4]float64{mean, std, p90, max}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1)

	for i := 0; i < 50; i++ {
		c.RecordFrame(16*time.Millisecond, false, i%2 == 0)
	}
	if c.ShouldFlush() {
		t.Fatal("window should not be complete after 0.8s")
	}
	for i := 0; i < 13; i++ {
		c.RecordFrame(16*time.Millisecond, false, false)
	}
	c.RecordFrame(time.Second/20, true, false)

	if !c.ShouldFlush() {
		t.Fatal("window should be complete after more than 1s")
	}

	stats := c.Flush([]float64{1, 2, 3})
	if stats.Window != 0 || stats.Frames != 64 {
		t.Errorf("window/frames = %d/%d, want 0/64", stats.Window, stats.Frames)
	}
	if stats.ClampedFrames != 1 {
		t.Errorf("clamped = %d, want 1", stats.ClampedFrames)
	}
	if math.Abs(stats.PointerActive-25.0/64) > 1e-9 {
		t.Errorf("pointer active = %v, want %v", stats.PointerActive, 25.0/64)
	}
	if stats.Particles != 3 || stats.SpeedMean != 2 {
		t.Errorf("particles/speed mean = %d/%v", stats.Particles, stats.SpeedMean)
	}

	// Next window starts clean
	if c.ShouldFlush() || c.Pending() {
		t.Error("flush should reset the window")
	}
	c.RecordFrame(time.Second, false, false)
	next := c.Flush(nil)
	if next.Window != 1 || next.Frames != 1 {
		t.Errorf("second window = %+v", next)
	}
	if next.SimTimeSec <= stats.SimTimeSec {
		t.Errorf("sim time should keep growing: %v then %v", stats.SimTimeSec, next.SimTimeSec)
	}
}
