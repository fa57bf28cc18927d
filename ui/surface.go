package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/renderer"
)

// RaylibSurface renders each frame into its own render texture. Snapshot
// hands that texture over as the layer, so capturing a frame costs no
// readback. Released layers go back to a free list.
type RaylibSurface struct {
	width, height int32

	current rl.RenderTexture2D
	active  bool
	free    []rl.RenderTexture2D

	alpha float64
	stack []float64
}

var _ renderer.Surface[rl.RenderTexture2D] = (*RaylibSurface)(nil)

// NewRaylibSurface creates a surface of the given size. Requires an open
// raylib window.
func NewRaylibSurface(width, height int32) *RaylibSurface {
	return &RaylibSurface{width: width, height: height, alpha: 1}
}

// Begin starts drawing into a fresh target.
func (s *RaylibSurface) Begin() {
	if !s.active {
		s.current = s.acquire()
		s.active = true
	}
	s.alpha = 1
	s.stack = s.stack[:0]
	rl.BeginTextureMode(s.current)
}

func (s *RaylibSurface) Clear() { rl.ClearBackground(rl.Blank) }

func (s *RaylibSurface) Save() { s.stack = append(s.stack, s.alpha) }

func (s *RaylibSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.alpha = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *RaylibSurface) SetAlpha(a float64) { s.alpha = a }

func (s *RaylibSurface) StrokeLine(from, to components.Vec2, width float64, c color.NRGBA) {
	col := rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
	rl.DrawLineEx(
		rl.Vector2{X: float32(from.X), Y: float32(from.Y)},
		rl.Vector2{X: float32(to.X), Y: float32(to.Y)},
		float32(width),
		rl.Fade(col, float32(s.alpha)),
	)
}

func (s *RaylibSurface) End() { rl.EndTextureMode() }

// Snapshot hands over the current target. The next Begin draws into a new
// one.
func (s *RaylibSurface) Snapshot() rl.RenderTexture2D {
	s.active = false
	return s.current
}

// Release returns a layer's texture to the free list.
func (s *RaylibSurface) Release(t rl.RenderTexture2D) {
	s.free = append(s.free, t)
}

// Resize drops pooled targets so new ones match the new size. Layers still
// held by a streak keep their old size until released.
func (s *RaylibSurface) Resize(width, height int32) {
	s.width, s.height = width, height
	for _, t := range s.free {
		rl.UnloadRenderTexture(t)
	}
	s.free = s.free[:0]
	if s.active {
		rl.UnloadRenderTexture(s.current)
		s.active = false
	}
}

// Unload frees every texture the surface still owns.
func (s *RaylibSurface) Unload() {
	s.Resize(s.width, s.height)
}

func (s *RaylibSurface) acquire() rl.RenderTexture2D {
	for len(s.free) > 0 {
		t := s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
		if t.Texture.Width == s.width && t.Texture.Height == s.height {
			return t
		}
		rl.UnloadRenderTexture(t)
	}
	return rl.LoadRenderTexture(s.width, s.height)
}

// DrawStreak draws the streak layers oldest first, each faded to its
// opacity.
func DrawStreak(streak *renderer.StreakCompositor[rl.RenderTexture2D]) {
	rl.BeginBlendMode(rl.BlendAlpha)
	streak.Each(func(l renderer.Layer[rl.RenderTexture2D]) {
		DrawLayer(l.Image, l.Opacity)
	})
	rl.EndBlendMode()
}

// DrawLayer draws one layer at the given opacity. Render textures are
// stored bottom-up, hence the negative source height.
func DrawLayer(t rl.RenderTexture2D, opacity float64) {
	tex := t.Texture
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(tex.Width), Height: -float32(tex.Height)}
	rl.DrawTextureRec(tex, src, rl.Vector2{}, rl.Fade(rl.White, float32(opacity)))
}
