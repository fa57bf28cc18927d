package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/config"
)

// Reference pool parameters.
const (
	BaselineCapacity = 1000
	MaxCapacity      = 1500
	MinAge           = 50  // inclusive
	MaxAge           = 200 // exclusive
	VelocityScale    = 4.0
	VisibleSpeed     = 0.01
)

// FieldSampler provides wind vectors at geographic positions.
// Implemented by field.Grid.
type FieldSampler interface {
	Sample(p components.GeoPoint) components.Vec2
	Domain() components.Bounds
}

// Transform maps between screen and geographic coordinates. It is owned by
// the hosting view; a nil Transform means the projection is unavailable for
// the current tick.
type Transform interface {
	ScreenToGeo(p components.Vec2) components.GeoPoint
	GeoToScreen(g components.GeoPoint) components.Vec2
}

// Particle is a massless tracer advected through the wind field.
type Particle struct {
	Pos        components.Vec2
	Prev       components.Vec2
	HasPrev    bool            // false until the first update after a reset
	Vel        components.Vec2 // screen space, already divided by the velocity scale
	Age        int             // remaining ticks
	InitialAge int
}

// Visible reports whether the particle moves fast enough to be drawn.
func (p *Particle) Visible() bool {
	return p.Vel.Len() > VisibleSpeed
}

// Reset places the particle at pos with a fresh age and no trail segment.
func (p *Particle) Reset(pos components.Vec2, age int, vel components.Vec2) {
	p.Age = age
	p.InitialAge = age
	p.Pos = pos
	p.Vel = vel
	p.Prev = components.Vec2{}
	p.HasPrev = false
}

// Update moves the particle to pos, keeping the old position as the trail
// segment start.
func (p *Particle) Update(pos components.Vec2, vel components.Vec2) {
	p.Prev = p.Pos
	p.HasPrev = true
	p.Pos = pos
	p.Vel = vel
}

// Options configures a ParticleSystem.
type Options struct {
	Baseline      int
	MaxCapacity   int
	MinAge        int
	MaxAge        int
	VelocityScale float64
	SpawnAttempts int
}

// DefaultOptions returns the reference pool parameters.
func DefaultOptions() Options {
	return Options{
		Baseline:      BaselineCapacity,
		MaxCapacity:   MaxCapacity,
		MinAge:        MinAge,
		MaxAge:        MaxAge,
		VelocityScale: VelocityScale,
		SpawnAttempts: 32,
	}
}

// OptionsFromConfig builds options from the loaded configuration.
func OptionsFromConfig(c config.ParticlesConfig) Options {
	return Options{
		Baseline:      c.Baseline,
		MaxCapacity:   c.MaxCapacity,
		MinAge:        c.MinAge,
		MaxAge:        c.MaxAge,
		VelocityScale: c.VelocityScale,
		SpawnAttempts: c.SpawnAttempts,
	}
}

// TickStats counts what happened to the pool since the last ResetStats.
type TickStats struct {
	Ticks    int
	Advanced int // particles moved along the field
	Expired  int // respawned because age ran out
	Escaped  int // respawned because they left the screen or the domain
	Culled   int // forced to expire because they were too slow to draw
}

// ParticleSystem is a fixed-capacity pool of tracer particles. Particles are
// never destroyed; expired or escaped ones are recycled in place.
type ParticleSystem struct {
	Particles []Particle

	field   FieldSampler
	rng     *rand.Rand
	opts    Options
	visible components.Rect // on-screen area covered by the field
	full    components.Rect // field area when entirely visible
	screen  components.Rect // spawn points must land here
	stats   TickStats
}

// NewParticleSystem creates an empty pool. Call Resize to allocate particles.
func NewParticleSystem(field FieldSampler, rng *rand.Rand, opts Options) *ParticleSystem {
	if opts.SpawnAttempts < 1 {
		opts.SpawnAttempts = 1
	}
	if opts.VelocityScale == 0 {
		opts.VelocityScale = VelocityScale
	}
	return &ParticleSystem{
		field: field,
		rng:   rng,
		opts:  opts,
	}
}

// CapacityFor returns the pool size for a visible area: the baseline scaled
// by visible/full area, clamped to [0, maxCapacity].
func CapacityFor(visible, full components.Rect, baseline, maxCapacity int) int {
	fullArea := full.Area()
	n := baseline
	if fullArea > 0 {
		n = int(math.Round(float64(baseline) * visible.Area() / fullArea))
	} else if visible.Empty() {
		n = 0
	}
	return max(0, min(n, maxCapacity))
}

// Resize recomputes capacity for a new visible area. Particles at surviving
// indices keep their state; new slots start expired and respawn on the next
// tick.
func (s *ParticleSystem) Resize(visible, full components.Rect) {
	s.visible = visible
	s.full = full

	n := CapacityFor(visible, full, s.opts.Baseline, s.opts.MaxCapacity)
	switch {
	case n < len(s.Particles):
		s.Particles = s.Particles[:n]
	case n > len(s.Particles):
		for len(s.Particles) < n {
			s.Particles = append(s.Particles, Particle{})
		}
	}
}

// Rebuild discards every particle and resizes for the given area, so the
// whole pool respawns on the next tick.
func (s *ParticleSystem) Rebuild(visible, full components.Rect) {
	s.Particles = s.Particles[:0]
	s.Resize(visible, full)
}

// SetScreen sets the screen rectangle respawn points are checked against.
// Until it is set, respawn points are only bounded by the visible rect.
func (s *ParticleSystem) SetScreen(screen components.Rect) {
	s.screen = screen
}

// Visible returns the current visible bounds.
func (s *ParticleSystem) Visible() components.Rect { return s.visible }

// Full returns the current full-field bounds.
func (s *ParticleSystem) Full() components.Rect { return s.full }

// Count returns the pool capacity.
func (s *ParticleSystem) Count() int {
	return len(s.Particles)
}

// Stats returns counters accumulated since the last ResetStats.
func (s *ParticleSystem) Stats() TickStats { return s.stats }

// ResetStats zeroes the counters.
func (s *ParticleSystem) ResetStats() { s.stats = TickStats{} }

// RandomAge returns a uniform age in [MinAge, MaxAge).
func (s *ParticleSystem) RandomAge() int {
	return s.opts.MinAge + s.rng.Intn(s.opts.MaxAge-s.opts.MinAge)
}

// Tick advances every particle one step in index order.
func (s *ParticleSystem) Tick(t Transform) {
	s.stats.Ticks++
	domain := s.field.Domain()

	for i := range s.Particles {
		p := &s.Particles[i]

		p.Age--
		if p.Age <= 0 {
			s.respawn(p, t)
			s.stats.Expired++
			continue
		}

		// Screen y grows downward while northing grows upward
		advanced := components.Vec2{X: p.Pos.X + p.Vel.X, Y: p.Pos.Y - p.Vel.Y}
		if !s.visible.Contains(advanced) {
			s.respawn(p, t)
			s.stats.Escaped++
			continue
		}

		var vel components.Vec2
		if t != nil {
			geo := t.ScreenToGeo(advanced)
			if !domain.Contains(geo) {
				s.respawn(p, t)
				s.stats.Escaped++
				continue
			}
			vel = s.scaled(s.field.Sample(geo))
		}
		p.Update(advanced, vel)
		s.stats.Advanced++
	}
}

// Cull forces particles too slow to be seen to expire, so the next tick
// respawns them. Returns the number culled.
func (s *ParticleSystem) Cull() int {
	culled := 0
	for i := range s.Particles {
		p := &s.Particles[i]
		if !p.Visible() && p.Age > 0 {
			p.Age = 0
			culled++
		}
	}
	s.stats.Culled += culled
	return culled
}

// respawn resets p at a random visible point with velocity sampled there.
func (s *ParticleSystem) respawn(p *Particle, t Transform) {
	pos := s.randomPoint()
	var vel components.Vec2
	if t != nil {
		vel = s.scaled(s.field.Sample(t.ScreenToGeo(pos)))
	}
	p.Reset(pos, s.RandomAge(), vel)
}

// randomPoint draws uniform points in the visible bounds until one lands on
// screen. After SpawnAttempts misses it clamps the last draw onto the
// overlap of both rectangles.
func (s *ParticleSystem) randomPoint() components.Vec2 {
	screen := s.screen
	if screen.Empty() {
		screen = s.visible
	}

	var pt components.Vec2
	for range s.opts.SpawnAttempts {
		pt = components.Vec2{
			X: s.visible.X + s.rng.Float64()*s.visible.W,
			Y: s.visible.Y + s.rng.Float64()*s.visible.H,
		}
		if screen.Contains(pt) {
			return pt
		}
	}

	area := s.visible.Intersect(screen)
	pt.X = math.Max(area.X, math.Min(pt.X, area.X+area.W))
	pt.Y = math.Max(area.Y, math.Min(pt.Y, area.Y+area.H))
	return pt
}

func (s *ParticleSystem) scaled(raw components.Vec2) components.Vec2 {
	return raw.Scale(1 / s.opts.VelocityScale)
}
