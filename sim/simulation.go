package sim

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/renderer"
	"github.com/pthm-cable/windmap/systems"
	"github.com/pthm-cable/windmap/telemetry"
)

// ErrTornDown is returned by transitions attempted after Teardown.
var ErrTornDown = errors.New("sim: simulation torn down")

// State is the simulation lifecycle state.
type State int

const (
	Stopped State = iota
	Running
	TornDown
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case TornDown:
		return "torn_down"
	}
	return "unknown"
}

// Options configures a Simulation.
type Options struct {
	Particles   systems.Options
	Style       renderer.Style
	StreakLimit int

	TickRate   int
	MaxCatchUp int
	Time       TimeSource

	// Screen is the rectangle respawn points must land in
	Screen components.Rect
	Seed   int64

	PerfWindow       int
	StatsWindowTicks int
	// OnWindow, if set, receives stats each time a stats window closes
	OnWindow func(telemetry.WindowStats, telemetry.PerfStats)
}

// DefaultOptions returns reference parameters on the system clock.
func DefaultOptions() Options {
	return Options{
		Particles:        systems.DefaultOptions(),
		Style:            renderer.DefaultStyle(),
		StreakLimit:      renderer.StreakLimit,
		TickRate:         DefaultTickRate,
		MaxCatchUp:       4,
		Time:             SystemTime{},
		PerfWindow:       DefaultTickRate,
		StatsWindowTicks: 5 * DefaultTickRate,
	}
}

// OptionsFromConfig builds options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Particles:        systems.OptionsFromConfig(cfg.Particles),
		Style:            renderer.StyleFromConfig(cfg),
		StreakLimit:      cfg.Streak.Limit,
		TickRate:         cfg.Clock.TickRate,
		MaxCatchUp:       cfg.Clock.MaxCatchUp,
		Time:             SystemTime{},
		Screen:           components.Rect{W: float64(cfg.Screen.Width), H: float64(cfg.Screen.Height)},
		PerfWindow:       cfg.Telemetry.PerfWindow,
		StatsWindowTicks: cfg.Derived.StatsWindowTicks,
	}
}

// Simulation owns the particle pool, its clock and the streak of rendered
// frames for one wind field. L is the surface's layer handle type.
type Simulation[L any] struct {
	particles *systems.ParticleSystem
	transform systems.Transform

	clock *Clock
	task  TaskID

	surface renderer.Surface[L]
	streak  *renderer.StreakCompositor[L]
	style   renderer.Style

	perf     *telemetry.PerfCollector
	stats    *telemetry.Collector
	onWindow func(telemetry.WindowStats, telemetry.PerfStats)

	state   State
	hidden  bool
	visible components.Rect
	full    components.Rect
	ticks   int64
}

// New creates a stopped, hidden simulation. release is called for every
// layer the streak discards and may be nil.
func New[L any](f systems.FieldSampler, t systems.Transform, surface renderer.Surface[L], release func(L), opts Options) *Simulation[L] {
	if opts.TickRate < 1 {
		opts.TickRate = DefaultTickRate
	}
	if opts.Time == nil {
		opts.Time = SystemTime{}
	}

	s := &Simulation[L]{
		particles: systems.NewParticleSystem(f, rand.New(rand.NewSource(opts.Seed)), opts.Particles),
		transform: t,
		clock:     NewClock(opts.Time, time.Second/time.Duration(opts.TickRate), opts.MaxCatchUp),
		surface:   surface,
		streak:    renderer.NewStreakCompositor(opts.StreakLimit, release),
		style:     opts.Style,
		perf:      telemetry.NewPerfCollector(opts.PerfWindow),
		stats:     telemetry.NewCollector(opts.StatsWindowTicks, opts.TickRate),
		onWindow:  opts.OnWindow,
		state:     Stopped,
		hidden:    true,
	}
	if !opts.Screen.Empty() {
		s.particles.SetScreen(opts.Screen)
	}
	s.task = s.clock.Schedule(s.tick)
	return s
}

// SetVisibleBounds reports the on-screen part of the field and the field's
// reference area. The pool is resized to match.
func (s *Simulation[L]) SetVisibleBounds(visible, full components.Rect) error {
	if s.state == TornDown {
		return ErrTornDown
	}
	s.visible, s.full = visible, full
	s.particles.Resize(visible, full)
	slog.Debug("visible bounds changed",
		"x", visible.X, "y", visible.Y, "w", visible.W, "h", visible.H,
		"capacity", s.particles.Count(),
	)
	return nil
}

// SetScreen sets the screen rectangle respawns are checked against.
func (s *Simulation[L]) SetScreen(screen components.Rect) {
	s.particles.SetScreen(screen)
}

// SetTransform swaps the coordinate transform. nil means unavailable; ticks
// then carry zero velocity until a transform is set again.
func (s *Simulation[L]) SetTransform(t systems.Transform) {
	s.transform = t
}

// Start resumes ticking and shows the output. Starting a running
// simulation is a no-op.
func (s *Simulation[L]) Start() error {
	switch s.state {
	case TornDown:
		return ErrTornDown
	case Running:
		return nil
	}
	s.state = Running
	s.hidden = false
	s.clock.Resume()
	slog.Info("simulation started", "capacity", s.particles.Count())
	return nil
}

// Stop suspends ticking, clears the surface, rebuilds the pool, hides the
// output and empties the streak. It may be called repeatedly.
func (s *Simulation[L]) Stop() error {
	if s.state == TornDown {
		return ErrTornDown
	}
	wasRunning := s.state == Running

	s.clock.Pause()
	s.state = Stopped
	renderer.Draw(s.surface, s.particles.Particles, true, s.style)
	s.particles.Rebuild(s.visible, s.full)
	s.hidden = true
	s.streak.Clear()

	if wasRunning {
		slog.Info("simulation stopped", "ticks", s.ticks)
	}
	return nil
}

// Teardown cancels the clock task and discards every layer. The simulation
// cannot be restarted afterwards. Calling it again is a no-op.
func (s *Simulation[L]) Teardown() {
	if s.state == TornDown {
		return
	}
	s.clock.Cancel(s.task)
	s.clock.Pause()
	s.streak.Clear()
	s.state = TornDown
	s.hidden = true
	slog.Info("simulation torn down", "ticks", s.ticks)
}

// Advance fires the ticks due since the last call. Each tick renders one
// frame into the streak. Returns the number of ticks fired.
func (s *Simulation[L]) Advance() int {
	if s.state != Running {
		return 0
	}
	return s.clock.Advance()
}

// Step fires a single tick regardless of wall time. Returns false unless
// running.
func (s *Simulation[L]) Step() bool {
	if s.state != Running {
		return false
	}
	return s.clock.Step()
}

// State returns the lifecycle state.
func (s *Simulation[L]) State() State { return s.state }

// Hidden reports whether the output should be hidden.
func (s *Simulation[L]) Hidden() bool { return s.hidden }

// Streak returns the layer compositor.
func (s *Simulation[L]) Streak() *renderer.StreakCompositor[L] { return s.streak }

// Particles returns the particle system.
func (s *Simulation[L]) Particles() *systems.ParticleSystem { return s.particles }

// Ticks returns the number of ticks run.
func (s *Simulation[L]) Ticks() int64 { return s.ticks }

// Perf returns the perf collector.
func (s *Simulation[L]) Perf() *telemetry.PerfCollector { return s.perf }

// tick is the clock task. It does nothing unless running, so a tick fired
// after Stop or Teardown is harmless.
func (s *Simulation[L]) tick() {
	if s.state != Running {
		return
	}

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseAdvance)
	s.particles.Tick(s.transform)

	s.perf.StartPhase(telemetry.PhaseCull)
	s.particles.Cull()

	s.perf.StartPhase(telemetry.PhaseRender)
	layer, ok := renderer.Draw(s.surface, s.particles.Particles, false, s.style)

	s.perf.StartPhase(telemetry.PhaseComposite)
	if ok {
		s.streak.AddLayer(layer)
	}

	s.perf.EndTick()
	s.ticks++

	s.stats.Add(s.particles.Stats())
	s.particles.ResetStats()
	if s.stats.ShouldFlush(s.ticks) {
		ws := s.stats.Flush(s.ticks, s.particles.Particles, s.streak.Len())
		if s.onWindow != nil {
			s.onWindow(ws, s.perf.Stats())
		}
	}
}
