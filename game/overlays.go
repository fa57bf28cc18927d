package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/ui"
)

// Wind vector overlay tuning
const (
	vectorMaxCells = 40   // per axis; denser grids are strided
	vectorLength   = 14.0 // screen pixels at the field's max speed
)

// handleOverlayKeys drains this frame's key queue into the overlay toggles.
func (g *Game) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.overlays.HandleKeyPress(key)
	}
}

// drawActiveOverlays renders the map overlays that are enabled. Panels
// are drawn separately.
func (g *Game) drawActiveOverlays() {
	for _, id := range g.overlays.EnabledOverlays() {
		switch id {
		case ui.OverlayFieldBounds:
			g.drawFieldBounds()
		case ui.OverlayWindVectors:
			g.drawWindVectors()
		}
	}
}

// drawFieldBounds outlines the field domain.
func (g *Game) drawFieldBounds() {
	r := g.view.Cam.FieldRect(g.grid.Domain())
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(r.X), Y: float32(r.Y), Width: float32(r.W), Height: float32(r.H)},
		1,
		rl.Color{R: 255, G: 200, B: 80, A: 160},
	)

	if _, onScreen := g.view.Cam.VisibleRect(g.grid.Domain()); !onScreen {
		rl.DrawText("field off screen", int32(g.screenWidth)/2-60, int32(g.screenHeight)/2, 16, rl.Orange)
	}
}

// drawWindVectors draws the raw grid vectors as short ticks colored by
// speed.
func (g *Game) drawWindVectors() {
	cam := g.view.Cam
	origin := g.grid.Origin()
	cell := g.grid.CellSize()
	maxSpeed := g.grid.MaxSpeed()
	if maxSpeed == 0 {
		return
	}

	strideX := max(1, g.grid.Cols()/vectorMaxCells)
	strideY := max(1, g.grid.Rows()/vectorMaxCells)
	screen := cam.Screen()

	for row := 0; row < g.grid.Rows(); row += strideY {
		for col := 0; col < g.grid.Cols(); col += strideX {
			geo := components.GeoPoint{
				Lon: origin.Lon + float64(col)*cell.X,
				Lat: origin.Lat + float64(row)*cell.Y,
			}
			p := cam.GeoToScreen(geo)
			if !screen.Contains(p) {
				continue
			}

			v := g.grid.Cell(col, row)
			speed := v.Len()
			if speed == 0 {
				continue
			}
			scale := vectorLength / maxSpeed
			// North is up on screen
			tip := components.Vec2{X: p.X + v.X*scale, Y: p.Y - v.Y*scale}

			t := speed / maxSpeed
			c := rl.Color{
				R: uint8(80 + 175*t),
				G: uint8(200 - 120*t),
				B: uint8(255 * (1 - t)),
				A: 200,
			}
			rl.DrawLineV(vec(p), vec(tip), c)
			rl.DrawCircleV(vec(tip), 1.5, c)
		}
	}
}

// drawGraticule draws latitude and longitude lines every 10 degrees.
func (g *Game) drawGraticule() {
	cam := g.view.Cam
	nw := cam.ScreenToGeo(components.Vec2{})
	se := cam.ScreenToGeo(components.Vec2{X: cam.ViewportW, Y: cam.ViewportH})

	const step = 10.0
	lineColor := rl.Color{R: 40, G: 56, B: 80, A: 255}

	for lon := math.Floor(nw.Lon/step) * step; lon <= se.Lon; lon += step {
		x := float32(cam.GeoToScreen(components.GeoPoint{Lon: lon}).X)
		rl.DrawLineV(rl.Vector2{X: x, Y: 0}, rl.Vector2{X: x, Y: g.screenHeight}, lineColor)
	}
	for lat := math.Floor(se.Lat/step) * step; lat <= nw.Lat; lat += step {
		y := float32(cam.GeoToScreen(components.GeoPoint{Lat: lat}).Y)
		rl.DrawLineV(rl.Vector2{X: 0, Y: y}, rl.Vector2{X: g.screenWidth, Y: y}, lineColor)
	}
}

func vec(v components.Vec2) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
