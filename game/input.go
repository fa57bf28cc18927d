package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/camera"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.toggleWind()
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	g.handleOverlayKeys()
	g.handlePointer()
	g.handleCameraKeys()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.surface.Resize(int32(w), int32(h))
	if err := g.view.Resize(float64(w), float64(h)); err != nil {
		slog.Error("failed to resize view", "error", err)
	}
	g.button.Layout(int32(w), int32(h))
	g.perfPanel.SetPosition(int32(w)-260, 10)
}

// handlePointer pans on drag and zooms on the wheel. A drag stops the wind
// layer when it begins and restarts it on release.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.button.Contains(mouse) {
		if err := g.view.BeginInteraction(); err != nil {
			slog.Error("failed to stop wind layer", "error", err)
		}
		g.dragging = true
	}

	if g.dragging {
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			g.view.Cam.Pan(-float64(d.X), -float64(d.Y))
		}
		if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
			g.dragging = false
			if err := g.view.EndInteraction(); err != nil {
				slog.Error("failed to restart wind layer", "error", err)
			}
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.interact(func(cam *camera.Camera) {
			cam.ZoomBy(1 + float64(wheel)*wheelZoom)
		})
	}
}

// handleCameraKeys pans with the arrow keys and zooms with +/-.
func (g *Game) handleCameraKeys() {
	var dx, dy float64
	if rl.IsKeyDown(rl.KeyRight) {
		dx += keyPanSpeed
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= keyPanSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += keyPanSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= keyPanSpeed
	}
	if dx != 0 || dy != 0 {
		g.interact(func(cam *camera.Camera) { cam.Pan(dx, dy) })
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.interact(func(cam *camera.Camera) { cam.ZoomBy(1.25) })
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.interact(func(cam *camera.Camera) { cam.ZoomBy(0.8) })
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.interact(func(cam *camera.Camera) {
			*cam = *camera.New(cam.ViewportW, cam.ViewportH, g.grid.Domain())
		})
	}
}
