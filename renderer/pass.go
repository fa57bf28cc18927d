package renderer

import (
	"image/color"

	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/systems"
)

// Reference stroke parameters.
const (
	FadeWindow = 50
	LineWidth  = 1.5
)

// Style configures how trails are stroked.
type Style struct {
	FadeWindow float64
	LineWidth  float64
	Color      color.NRGBA
}

// DefaultStyle returns opaque white 1.5px strokes with a 50 tick fade.
func DefaultStyle() Style {
	return Style{
		FadeWindow: FadeWindow,
		LineWidth:  LineWidth,
		Color:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// StyleFromConfig builds a style from the loaded configuration.
func StyleFromConfig(c *config.Config) Style {
	return Style{
		FadeWindow: c.Render.FadeWindow,
		LineWidth:  c.Render.LineWidth,
		Color:      c.Derived.StrokeColor,
	}
}

// FadeAlpha returns the stroke alpha for a particle. Young particles fade in
// over the first window ticks of life; everything else fades out as age
// runs down. The result is not clamped.
//
// When initialAge is itself within the window the two branches disagree at
// the crossover and alpha jumps. This matches the reference renderer and is
// kept on purpose.
func FadeAlpha(age, initialAge int, window float64) float64 {
	lived := float64(initialAge - age)
	if lived <= window {
		return lived / window
	}
	return float64(age) / window
}

// Draw renders one frame of particle trails onto s and returns the captured
// layer. When clear is true the surface is only cleared and the returned
// bool is false; no layer is captured.
func Draw[L any](s Surface[L], particles []systems.Particle, clear bool, style Style) (L, bool) {
	s.Begin()
	s.Clear()
	if clear {
		s.End()
		var zero L
		return zero, false
	}

	for i := range particles {
		p := &particles[i]
		if p.Age <= 0 || !p.HasPrev || !p.Visible() {
			continue
		}

		s.Save()
		s.SetAlpha(clamp01(FadeAlpha(p.Age, p.InitialAge, style.FadeWindow)))
		s.StrokeLine(p.Prev, p.Pos, style.LineWidth, style.Color)
		s.Restore()
	}

	s.End()
	return s.Snapshot(), true
}

func clamp01(a float64) float64 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
