package sim

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/telemetry"
)

type identity struct{}

func (identity) ScreenToGeo(p components.Vec2) components.GeoPoint {
	return components.GeoPoint{Lon: p.X, Lat: p.Y}
}

func (identity) GeoToScreen(g components.GeoPoint) components.Vec2 {
	return components.Vec2{X: g.Lon, Y: g.Lat}
}

// countingSurface hands out sequential layer ids and counts clears.
type countingSurface struct {
	clears  int
	strokes int
	next    int
}

func (c *countingSurface) Begin() {}
func (c *countingSurface) Clear() { c.clears++ }
func (c *countingSurface) Save() {}
func (c *countingSurface) Restore() {}
func (c *countingSurface) SetAlpha(a float64) {}
func (c *countingSurface) StrokeLine(_, _ components.Vec2, _ float64, _ color.NRGBA) {
	c.strokes++
}
func (c *countingSurface) End() {}
func (c *countingSurface) Snapshot() int {
	c.next++
	return c.next
}

var full = components.Rect{W: 30, H: 30}

func newTestSim(t *testing.T) (*Simulation[int], *countingSurface, *MockTime, *[]int) {
	t.Helper()
	u := make([]float64, 16)
	v := make([]float64, 16)
	for i := range u {
		u[i] = 4
	}
	g, err := field.New(u, v, 4, 4, components.GeoPoint{}, components.GeoPoint{Lon: 30, Lat: 30})
	if err != nil {
		t.Fatalf("building grid: %v", err)
	}

	mt := NewMockTime(epoch)
	opts := DefaultOptions()
	opts.Time = mt
	opts.Seed = 1
	opts.Screen = full

	released := &[]int{}
	surface := &countingSurface{}
	s := New[int](g, identity{}, surface, func(l int) { *released = append(*released, l) }, opts)
	if err := s.SetVisibleBounds(full, full); err != nil {
		t.Fatalf("SetVisibleBounds: %v", err)
	}
	return s, surface, mt, released
}

func TestSimulationInitialState(t *testing.T) {
	s, _, _, _ := newTestSim(t)

	if s.State() != Stopped {
		t.Errorf("expected Stopped, got %v", s.State())
	}
	if !s.Hidden() {
		t.Error("expected output hidden before start")
	}
	if s.Particles().Count() != 1000 {
		t.Errorf("expected 1000 particles, got %d", s.Particles().Count())
	}
	if s.Step() {
		t.Error("expected Step to do nothing while stopped")
	}
}

func TestSimulationStartRendersLayers(t *testing.T) {
	s, surface, _, _ := newTestSim(t)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != Running || s.Hidden() {
		t.Fatalf("expected Running and visible, got %v hidden=%v", s.State(), s.Hidden())
	}

	for range 20 {
		s.Step()
	}

	if s.Ticks() != 20 {
		t.Errorf("expected 20 ticks, got %d", s.Ticks())
	}
	if s.Streak().Len() != 15 {
		t.Errorf("expected full streak of 15, got %d", s.Streak().Len())
	}
	if s.Streak().At(0).Image != 20 {
		t.Errorf("expected newest layer 20, got %d", s.Streak().At(0).Image)
	}
	// First tick only spawns; later ticks draw trail segments
	if surface.strokes == 0 {
		t.Error("expected strokes once particles have moved")
	}
}

func TestSimulationAdvanceFollowsWallTime(t *testing.T) {
	s, _, mt, _ := newTestSim(t)
	s.Start()

	mt.Advance(50 * time.Millisecond)
	if n := s.Advance(); n != 3 {
		t.Errorf("expected 3 ticks in 50ms at 60Hz, got %d", n)
	}
}

func TestSimulationStopIsIdempotent(t *testing.T) {
	s, surface, mt, released := newTestSim(t)
	s.Start()
	for range 5 {
		s.Step()
	}

	for i := range 2 {
		clears := surface.clears
		if err := s.Stop(); err != nil {
			t.Fatalf("Stop #%d: %v", i+1, err)
		}
		if s.State() != Stopped {
			t.Errorf("Stop #%d: expected Stopped, got %v", i+1, s.State())
		}
		if s.Streak().Len() != 0 {
			t.Errorf("Stop #%d: expected empty streak, got %d", i+1, s.Streak().Len())
		}
		if !s.Hidden() {
			t.Errorf("Stop #%d: expected hidden output", i+1)
		}
		if surface.clears != clears+1 {
			t.Errorf("Stop #%d: expected one clear render", i+1)
		}
	}
	if len(*released) != 5 {
		t.Errorf("expected 5 layers released, got %d", len(*released))
	}

	// No ticks while stopped
	mt.Advance(time.Second)
	if n := s.Advance(); n != 0 {
		t.Errorf("expected no ticks while stopped, got %d", n)
	}

	// Pool was rebuilt: every slot respawns on the next tick
	for i, p := range s.Particles().Particles {
		if p.Age != 0 || p.HasPrev {
			t.Fatalf("particle %d not rebuilt: %+v", i, p)
		}
	}
}

func TestSimulationRestartAfterStop(t *testing.T) {
	s, _, _, _ := newTestSim(t)
	s.Start()
	s.Step()
	s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	s.Step()
	if s.Streak().Len() != 1 {
		t.Errorf("expected 1 layer after restart, got %d", s.Streak().Len())
	}
}

func TestSimulationTeardownIsTerminal(t *testing.T) {
	s, _, mt, released := newTestSim(t)
	s.Start()
	s.Step()
	s.Step()

	s.Teardown()
	s.Teardown()

	if s.State() != TornDown {
		t.Errorf("expected TornDown, got %v", s.State())
	}
	if len(*released) != 2 {
		t.Errorf("expected both layers released, got %d", len(*released))
	}
	if err := s.Start(); !errors.Is(err, ErrTornDown) {
		t.Errorf("expected ErrTornDown from Start, got %v", err)
	}
	if err := s.Stop(); !errors.Is(err, ErrTornDown) {
		t.Errorf("expected ErrTornDown from Stop, got %v", err)
	}
	if err := s.SetVisibleBounds(full, full); !errors.Is(err, ErrTornDown) {
		t.Errorf("expected ErrTornDown from SetVisibleBounds, got %v", err)
	}

	mt.Advance(time.Second)
	if n := s.Advance(); n != 0 || s.Ticks() != 2 {
		t.Errorf("expected no ticks after teardown, got %d (total %d)", n, s.Ticks())
	}
}

func TestSimulationResizeOnVisibleBounds(t *testing.T) {
	s, _, _, _ := newTestSim(t)

	s.SetVisibleBounds(components.Rect{W: 15, H: 30}, full)
	if s.Particles().Count() != 500 {
		t.Errorf("expected 500 particles for half the field, got %d", s.Particles().Count())
	}

	s.SetVisibleBounds(components.Rect{}, full)
	if s.Particles().Count() != 0 {
		t.Errorf("expected empty pool off screen, got %d", s.Particles().Count())
	}
}

func TestSimulationWithoutTransform(t *testing.T) {
	s, _, _, _ := newTestSim(t)
	s.SetTransform(nil)
	s.Start()

	for range 3 {
		s.Step()
	}
	// Zero velocity everywhere: nothing is drawn but ticking continues
	if s.Ticks() != 3 {
		t.Errorf("expected ticks to continue without a transform, got %d", s.Ticks())
	}
	for _, p := range s.Particles().Particles {
		if p.Vel != (components.Vec2{}) {
			t.Fatalf("expected zero velocity without transform, got %v", p.Vel)
		}
	}
}

func TestSimulationReportsWindows(t *testing.T) {
	u := make([]float64, 16)
	for i := range u {
		u[i] = 4
	}
	g, err := field.New(u, make([]float64, 16), 4, 4, components.GeoPoint{}, components.GeoPoint{Lon: 30, Lat: 30})
	if err != nil {
		t.Fatal(err)
	}

	var windows []telemetry.WindowStats
	opts := DefaultOptions()
	opts.Time = NewMockTime(epoch)
	opts.StatsWindowTicks = 10
	opts.OnWindow = func(ws telemetry.WindowStats, _ telemetry.PerfStats) {
		windows = append(windows, ws)
	}

	s := New[int](g, identity{}, &countingSurface{}, nil, opts)
	s.SetVisibleBounds(full, full)
	s.Start()
	for range 25 {
		s.Step()
	}

	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].WindowEndTick != 10 || windows[1].WindowEndTick != 20 {
		t.Errorf("unexpected window ends: %d, %d", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	// The first tick respawns the whole pool
	if windows[0].Expired < 1000 {
		t.Errorf("expected at least 1000 expiries in the first window, got %d", windows[0].Expired)
	}
	if windows[1].Capacity != 1000 {
		t.Errorf("expected capacity 1000, got %d", windows[1].Capacity)
	}
}
