package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	Window     int     `csv:"window"`
	SimTimeSec float64 `csv:"sim_time"`

	// Frame timing
	Frames        int     `csv:"frames"`
	MeanDTMillis  float64 `csv:"mean_dt_ms"`
	ClampedFrames int     `csv:"clamped_frames"`

	// Fraction of frames with the pointer over the surface
	PointerActive float64 `csv:"pointer_active"`

	// Particle state sampled at window end
	Particles int     `csv:"particles"`
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`
}

// ComputeSpeedStats returns the mean, standard deviation, 90th percentile
// and maximum of values. values is sorted in place.
func ComputeSpeedStats(values []float64) (mean, std, p90, max float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0
	case 1:
		return values[0], 0, values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)
	sort.Float64s(values)
	p90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	max = floats.Max(values)
	return mean, std, p90, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window", s.Window),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("frames", s.Frames),
		slog.Float64("mean_dt_ms", s.MeanDTMillis),
		slog.Int("clamped_frames", s.ClampedFrames),
		slog.Float64("pointer_active", s.PointerActive),
		slog.Int("particles", s.Particles),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
	)
}
