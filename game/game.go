package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/app"
	"github.com/pthm-cable/windmap/camera"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/sim"
	"github.com/pthm-cable/windmap/ui"
)

// Input tuning
const (
	settleDelay = 150 * time.Millisecond // quiet time that ends a wheel or key interaction
	keyPanSpeed = 8.0                    // screen pixels per frame
	wheelZoom   = 0.1
)

// Options configures the window front end.
type Options struct {
	Seed     int64
	Reporter *app.Reporter
}

// Game holds the window front end state: the map view, the wind layer
// simulation bound to it, and the UI.
type Game struct {
	cfg  *config.Config
	grid *field.Grid
	opts Options

	view    *app.View[rl.RenderTexture2D]
	surface *ui.RaylibSurface

	// UI
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	button    *ui.ToggleButton
	overlays  *ui.OverlayRegistry

	// Input state
	dragging      bool
	settleAt      time.Time
	togglePending bool

	// Ticks run by simulations already torn down
	pastTicks int64

	screenWidth, screenHeight float32
}

// NewGame creates the front end and starts the wind layer. Requires an open
// raylib window.
func NewGame(cfg *config.Config, grid *field.Grid, opts Options) *Game {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cam := camera.New(float64(w), float64(h), grid.Domain())

	g := &Game{
		cfg:          cfg,
		grid:         grid,
		opts:         opts,
		view:         app.NewView[rl.RenderTexture2D](cam, grid.Domain()),
		surface:      ui.NewRaylibSurface(int32(w), int32(h)),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(int32(w)-260, 10),
		controls:     ui.NewControlsPanel(10, 230, 240),
		button:       ui.NewToggleButton(int32(w), int32(h)),
		overlays:     ui.NewOverlayRegistry(),
		screenWidth:  w,
		screenHeight: h,
	}
	g.overlays.SetEnabled(ui.OverlayHUD, true)
	g.overlays.SetEnabled(ui.OverlayStreak, true)

	if err := g.startWind(); err != nil {
		slog.Error("failed to start wind layer", "error", err)
	}
	return g
}

// startWind creates a simulation for the current view and starts it.
func (g *Game) startWind() error {
	so := app.SimOptions(g.cfg, app.Options{Seed: g.opts.Seed, Reporter: g.opts.Reporter}, g.view.Cam.Screen())
	s := sim.New[rl.RenderTexture2D](g.grid, g.view.Cam, g.surface, g.surface.Release, so)
	if err := g.view.Attach(s); err != nil {
		s.Teardown()
		return err
	}
	return s.Start()
}

// toggleWind tears the wind layer down, or creates a new one if it is off.
func (g *Game) toggleWind() {
	if s := g.view.Sim(); s != nil {
		g.pastTicks += s.Ticks()
		g.view.Detach()
		return
	}
	if err := g.startWind(); err != nil {
		slog.Error("failed to start wind layer", "error", err)
	}
}

// Update handles input and fires the ticks due this frame.
func (g *Game) Update() {
	if g.togglePending {
		g.toggleWind()
		g.togglePending = false
	}

	g.handleInput()
	g.settle()

	if s := g.view.Sim(); s != nil {
		s.Advance()
	}
}

// settle ends a wheel or keyboard interaction once input has been quiet.
// Drags end on button release instead.
func (g *Game) settle() {
	if !g.view.Interacting() || g.dragging {
		return
	}
	if time.Now().Before(g.settleAt) {
		return
	}
	if err := g.view.EndInteraction(); err != nil {
		slog.Error("failed to restart wind layer", "error", err)
	}
}

// interact runs a camera change inside an interaction.
func (g *Game) interact(move func(*camera.Camera)) {
	if err := g.view.BeginInteraction(); err != nil {
		slog.Error("failed to stop wind layer", "error", err)
	}
	move(g.view.Cam)
	g.settleAt = time.Now().Add(settleDelay)
}

// Tick returns the total ticks run across every simulation this session.
func (g *Game) Tick() int64 {
	t := g.pastTicks
	if s := g.view.Sim(); s != nil {
		t += s.Ticks()
	}
	return t
}

// Unload releases the simulation and GPU resources.
func (g *Game) Unload() {
	g.view.Detach()
	g.surface.Unload()
}
