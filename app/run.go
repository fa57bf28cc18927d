package app

import (
	"image/color"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/sim"
)

// Background is the map color under the particle streaks.
var Background = color.NRGBA{R: 0x0E, G: 0x16, B: 0x24, A: 0xFF}

// Options configures a headless or terminal run.
type Options struct {
	Seed     int64
	MaxTicks int // 0 = unlimited
	Reporter *Reporter

	// PNGPath, if set, receives the final composited streak (headless only)
	PNGPath string
}

// SimOptions builds simulation options from config for a run.
func SimOptions(cfg *config.Config, opts Options, screen components.Rect) sim.Options {
	so := sim.OptionsFromConfig(cfg)
	so.Seed = opts.Seed
	so.Screen = screen
	if opts.Reporter != nil {
		so.OnWindow = opts.Reporter.OnWindow
	}
	return so
}
