package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pool state at window end
	Capacity int `csv:"capacity"`
	Visible  int `csv:"visible"`
	Layers   int `csv:"layers"`

	// Events during window
	Advanced int `csv:"advanced"`
	Expired  int `csv:"expired"`
	Escaped  int `csv:"escaped"`
	Culled   int `csv:"culled"`

	// Recycled particles per tick (expired + escaped)
	RespawnRate float64 `csv:"respawn_rate"`

	// Screen speed distribution of visible particles (pixels/tick)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	MeanAge float64 `csv:"mean_age"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, population std, and percentiles.
func ComputeSpeedStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("capacity", s.Capacity),
		slog.Int("visible", s.Visible),
		slog.Int("layers", s.Layers),
		slog.Int("advanced", s.Advanced),
		slog.Int("expired", s.Expired),
		slog.Int("escaped", s.Escaped),
		slog.Int("culled", s.Culled),
		slog.Float64("respawn_rate", s.RespawnRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("mean_age", s.MeanAge),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"capacity", s.Capacity,
		"visible", s.Visible,
		"layers", s.Layers,
		"expired", s.Expired,
		"escaped", s.Escaped,
		"culled", s.Culled,
		"respawn_rate", s.RespawnRate,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
	)
}
