package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gg"

	"github.com/pthm-cable/windmap/camera"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/renderer"
	"github.com/pthm-cable/windmap/sim"
)

// HeadlessResult summarizes a headless run.
type HeadlessResult struct {
	Ticks    int64
	Capacity int
	Layers   int
	Elapsed  time.Duration
}

// RunHeadless renders into a gg surface as fast as ticks can be stepped,
// until MaxTicks is reached or ctx is done.
func RunHeadless(ctx context.Context, cfg *config.Config, grid *field.Grid, opts Options) (HeadlessResult, error) {
	w, h := cfg.Screen.Width, cfg.Screen.Height
	cam := camera.New(float64(w), float64(h), grid.Domain())

	surface := renderer.NewGGSurface(w, h)
	defer surface.Close()

	s := sim.New[*gg.ImageBuf](grid, cam, surface, nil, SimOptions(cfg, opts, cam.Screen()))
	defer s.Teardown()

	view := NewView[*gg.ImageBuf](cam, grid.Domain())
	if err := view.Attach(s); err != nil {
		return HeadlessResult{}, err
	}
	if err := s.Start(); err != nil {
		return HeadlessResult{}, err
	}

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", opts.MaxTicks,
		"width", w,
		"height", h,
		"capacity", s.Particles().Count(),
	)

	start := time.Now()
	for opts.MaxTicks <= 0 || s.Ticks() < int64(opts.MaxTicks) {
		if ctx.Err() != nil {
			slog.Info("headless run interrupted", "tick", s.Ticks())
			break
		}
		s.Step()
		if err := surface.Err(); err != nil {
			return HeadlessResult{}, fmt.Errorf("rendering tick %d: %w", s.Ticks(), err)
		}
	}

	res := HeadlessResult{
		Ticks:    s.Ticks(),
		Capacity: s.Particles().Count(),
		Layers:   s.Streak().Len(),
		Elapsed:  time.Since(start),
	}
	slog.Info("headless simulation finished",
		"ticks", res.Ticks,
		"layers", res.Layers,
		"elapsed", res.Elapsed,
	)

	if opts.PNGPath != "" {
		if err := SaveStreakPNG(opts.PNGPath, s.Streak(), w, h); err != nil {
			return res, err
		}
	}
	return res, nil
}

// SaveStreakPNG composites the streak over the map background and writes it
// as a PNG.
func SaveStreakPNG(path string, streak *renderer.StreakCompositor[*gg.ImageBuf], w, h int) error {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	renderer.CompositeStreak(dc, streak, Background)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	slog.Info("frame saved", "path", path, "layers", streak.Len())
	return nil
}
