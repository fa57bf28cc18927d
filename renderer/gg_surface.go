package renderer

import (
	"image/color"

	"github.com/gogpu/gg"

	"github.com/pthm-cable/windmap/components"
)

// GGSurface draws with a gg software context. Layers are independent
// image buffers copied out of the context.
type GGSurface struct {
	dc    *gg.Context
	alpha float64
	stack []float64
	err   error
}

var _ Surface[*gg.ImageBuf] = (*GGSurface)(nil)

// NewGGSurface creates a transparent surface of the given size.
func NewGGSurface(width, height int) *GGSurface {
	return &GGSurface{
		dc:    gg.NewContext(width, height),
		alpha: 1,
	}
}

// Context exposes the underlying gg context.
func (s *GGSurface) Context() *gg.Context { return s.dc }

// Begin resets state left over from the previous frame.
func (s *GGSurface) Begin() {
	s.alpha = 1
	s.stack = s.stack[:0]
	s.dc.ClearPath()
}

func (s *GGSurface) Clear() { s.dc.Clear() }

func (s *GGSurface) Save() {
	s.dc.Push()
	s.stack = append(s.stack, s.alpha)
}

func (s *GGSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.dc.Pop()
	s.alpha = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *GGSurface) SetAlpha(a float64) { s.alpha = a }

// StrokeLine strokes a segment. gg has no global alpha, so it is folded
// into the stroke color.
func (s *GGSurface) StrokeLine(from, to components.Vec2, width float64, c color.NRGBA) {
	s.dc.SetRGBA(
		float64(c.R)/255,
		float64(c.G)/255,
		float64(c.B)/255,
		float64(c.A)/255*s.alpha,
	)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	if err := s.dc.Stroke(); err != nil && s.err == nil {
		s.err = err
	}
}

func (s *GGSurface) End() {}

// Snapshot copies the current pixels into a new buffer.
func (s *GGSurface) Snapshot() *gg.ImageBuf {
	return gg.ImageBufFromImage(s.dc.Image())
}

// Err returns the first stroke error since the surface was created.
func (s *GGSurface) Err() error { return s.err }

// Close releases the context.
func (s *GGSurface) Close() error { return s.dc.Close() }

// CompositeStreak clears dst to background and stacks the streak layers
// oldest first, each at its opacity.
func CompositeStreak(dst *gg.Context, streak *StreakCompositor[*gg.ImageBuf], background color.Color) {
	dst.SetColor(background)
	dst.DrawRectangle(0, 0, float64(dst.Width()), float64(dst.Height()))
	_ = dst.Fill()

	streak.Each(func(l Layer[*gg.ImageBuf]) {
		// gg treats a zero opacity as fully opaque
		if l.Opacity <= 0 || l.Image == nil {
			return
		}
		dst.DrawImageEx(l.Image, gg.DrawImageOptions{
			Interpolation: gg.InterpNearest,
			Opacity:       l.Opacity,
			BlendMode:     gg.BlendNormal,
		})
	})
}
