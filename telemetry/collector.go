package telemetry

import "github.com/pthm-cable/windmap/systems"

// Collector accumulates particle counters within tick windows and produces
// WindowStats.
type Collector struct {
	windowTicks int64
	tickRate    float64

	// Current window tracking
	windowStartTick int64
	counts          systems.TickStats
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// tickRate: ticks per second (used for tick-to-time conversion)
func NewCollector(windowTicks, tickRate int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int64(windowTicks),
		tickRate:    float64(tickRate),
	}
}

// Add folds one tick's counters into the current window.
func (c *Collector) Add(s systems.TickStats) {
	c.counts.Ticks += s.Ticks
	c.counts.Advanced += s.Advanced
	c.counts.Expired += s.Expired
	c.counts.Escaped += s.Escaped
	c.counts.Culled += s.Culled
}

// ShouldFlush returns true if the current window is complete.
func (c *Collector) ShouldFlush(tick int64) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush computes stats for the window ending at tick and starts a new one.
func (c *Collector) Flush(tick int64, particles []systems.Particle, layers int) WindowStats {
	ws := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		Capacity:        len(particles),
		Layers:          layers,
		Advanced:        c.counts.Advanced,
		Expired:         c.counts.Expired,
		Escaped:         c.counts.Escaped,
		Culled:          c.counts.Culled,
	}
	if c.tickRate > 0 {
		ws.SimTimeSec = float64(tick) / c.tickRate
	}
	if c.counts.Ticks > 0 {
		ws.RespawnRate = float64(c.counts.Expired+c.counts.Escaped) / float64(c.counts.Ticks)
	}

	speeds := make([]float64, 0, len(particles))
	var ageSum float64
	for i := range particles {
		p := &particles[i]
		ageSum += float64(p.Age)
		if p.Visible() {
			speeds = append(speeds, p.Vel.Len())
		}
	}
	ws.Visible = len(speeds)
	if len(particles) > 0 {
		ws.MeanAge = ageSum / float64(len(particles))
	}
	ws.SpeedMean, ws.SpeedStd, ws.SpeedP50, ws.SpeedP90 = ComputeSpeedStats(speeds)

	c.windowStartTick = tick
	c.counts = systems.TickStats{}
	return ws
}
