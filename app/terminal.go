package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/windmap/camera"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/renderer"
	"github.com/pthm-cable/windmap/sim"
)

// Terminal cells are treated as 8x16 pixel blocks so particle speeds match
// the window front end.
const (
	cellPixelW = 8.0
	cellPixelH = 16.0

	settleDelay   = 150 * time.Millisecond
	panFraction   = 0.1
	frameInterval = 16 * time.Millisecond
)

// TermScreen is the part of tcell.Screen the terminal front end draws to.
type TermScreen interface {
	renderer.CellSetter
	Size() (width, height int)
	Show()
}

// Terminal shows the wind map as grey cells in a terminal. The bottom row
// is a status line.
type Terminal struct {
	cfg  *config.Config
	grid *field.Grid
	opts Options
	time sim.TimeSource
	scr  TermScreen

	cols, rows int
	surface    *renderer.TermSurface
	view       *View[renderer.TermLayer]
	settleAt   time.Time
}

// NewTerminal creates a terminal front end and starts the simulation.
func NewTerminal(scr TermScreen, cfg *config.Config, grid *field.Grid, opts Options, ts sim.TimeSource) (*Terminal, error) {
	if ts == nil {
		ts = sim.SystemTime{}
	}
	t := &Terminal{cfg: cfg, grid: grid, opts: opts, time: ts, scr: scr}

	t.cols, t.rows = t.fieldSize()
	cam := camera.New(float64(t.cols)*cellPixelW, float64(t.rows)*cellPixelH, grid.Domain())
	t.view = NewView[renderer.TermLayer](cam, grid.Domain())
	t.surface = renderer.NewTermSurface(t.cols, t.rows, cellPixelW, cellPixelH)

	if err := t.start(); err != nil {
		return nil, err
	}
	return t, nil
}

// fieldSize returns the cell grid available for the map.
func (t *Terminal) fieldSize() (cols, rows int) {
	w, h := t.scr.Size()
	return max(w, 1), max(h-1, 1)
}

func (t *Terminal) start() error {
	so := SimOptions(t.cfg, t.opts, t.view.Cam.Screen())
	so.Time = t.time
	s := sim.New[renderer.TermLayer](t.grid, t.view.Cam, t.surface, nil, so)
	if err := t.view.Attach(s); err != nil {
		s.Teardown()
		return err
	}
	return s.Start()
}

// View returns the camera view.
func (t *Terminal) View() *View[renderer.TermLayer] { return t.view }

// Toggle creates the simulation when there is none and tears it down
// otherwise.
func (t *Terminal) Toggle() error {
	if t.view.Sim() != nil {
		t.view.Detach()
		return nil
	}
	return t.start()
}

// HandleEvent applies one input event. Returns false when the user quits.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			t.pan(-1, 0)
		case tcell.KeyRight:
			t.pan(1, 0)
		case tcell.KeyUp:
			t.pan(0, -1)
		case tcell.KeyDown:
			t.pan(0, 1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case '+', '=':
				t.zoom(1.25)
			case '-':
				t.zoom(0.8)
			case ' ':
				if err := t.Toggle(); err != nil {
					slog.Error("failed to toggle simulation", "error", err)
				}
			}
		}

	case *tcell.EventResize:
		t.resize()
	}
	return true
}

func (t *Terminal) pan(dx, dy float64) {
	t.interact(func(cam *camera.Camera) {
		cam.Pan(dx*cam.ViewportW*panFraction, dy*cam.ViewportH*panFraction)
	})
}

func (t *Terminal) zoom(factor float64) {
	t.interact(func(cam *camera.Camera) {
		cam.ZoomBy(factor)
	})
}

// interact moves the camera inside an interaction. Key repeats extend the
// interaction; it ends in Frame once input has been quiet for settleDelay.
func (t *Terminal) interact(move func(*camera.Camera)) {
	if err := t.view.BeginInteraction(); err != nil {
		slog.Error("failed to stop simulation", "error", err)
	}
	move(t.view.Cam)
	t.settleAt = t.time.Now().Add(settleDelay)
}

func (t *Terminal) resize() {
	t.cols, t.rows = t.fieldSize()
	t.surface.Resize(t.cols, t.rows)
	if err := t.view.Resize(float64(t.cols)*cellPixelW, float64(t.rows)*cellPixelH); err != nil {
		slog.Error("failed to resize view", "error", err)
	}
}

// Frame ends a settled interaction, advances the simulation and redraws.
func (t *Terminal) Frame() {
	if t.view.Interacting() && !t.time.Now().Before(t.settleAt) {
		if err := t.view.EndInteraction(); err != nil {
			slog.Error("failed to restart simulation", "error", err)
		}
	}

	s := t.view.Sim()
	if s != nil {
		s.Advance()
		s.Perf().RecordFrame()
	}

	if s == nil || s.Hidden() {
		t.blank()
	} else {
		renderer.DrawStreak(t.scr, s.Streak(), t.cols, t.rows)
	}
	t.drawStatus()
	t.scr.Show()
}

// Ticks returns the ticks run by the current simulation.
func (t *Terminal) Ticks() int64 {
	if s := t.view.Sim(); s != nil {
		return s.Ticks()
	}
	return 0
}

func (t *Terminal) blank() {
	for y := range t.rows {
		for x := range t.cols {
			t.scr.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

// StatusLine returns the text of the bottom row.
func (t *Terminal) StatusLine() string {
	s := t.view.Sim()
	if s == nil {
		return "windmap off | [space] start [q] quit"
	}
	cam := t.view.Cam
	return fmt.Sprintf("windmap %s | particles %d | layers %d | %.1fE %.1fN x%.1f | [arrows] pan [+/-] zoom [space] off [q] quit",
		s.State(), s.Particles().Count(), s.Streak().Len(), cam.Lon, cam.Lat, cam.Zoom)
}

func (t *Terminal) drawStatus() {
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	line := []rune(t.StatusLine())
	for x := range t.cols {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		t.scr.SetContent(x, t.rows, r, nil, style)
	}
}

// Close tears down the simulation.
func (t *Terminal) Close() {
	t.view.Detach()
}

// Run drives the terminal until the user quits, MaxTicks is reached or ctx
// is done.
func (t *Terminal) Run(ctx context.Context, events <-chan tcell.Event) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-events:
			if !t.HandleEvent(ev) {
				return
			}

		case <-ticker.C:
			t.Frame()
			if t.opts.MaxTicks > 0 && t.Ticks() >= int64(t.opts.MaxTicks) {
				slog.Info("max ticks reached", "tick", t.Ticks())
				return
			}
		}
	}
}

// RunTerminal opens the terminal screen and runs until the user quits.
func RunTerminal(ctx context.Context, cfg *config.Config, grid *field.Grid, opts Options) error {
	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	defer scr.Fini()

	t, err := NewTerminal(scr, cfg, grid, opts, sim.SystemTime{})
	if err != nil {
		return err
	}
	defer t.Close()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := scr.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	t.Run(ctx, events)
	return nil
}
