package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/app"
	"github.com/pthm-cable/windmap/sim"
	"github.com/pthm-cable/windmap/ui"
)

const controlsLegend = "[drag/arrows] pan  [wheel/+/-] zoom  [home] reset  [space] wind  [tab] overlays  [F11] fullscreen"

// Draw renders the map, the wind layer and the UI.
func (g *Game) Draw() {
	if s := g.view.Sim(); s != nil {
		s.Perf().RecordFrame()
	}

	rl.BeginDrawing()
	bg := app.Background
	rl.ClearBackground(rl.Color{R: bg.R, G: bg.G, B: bg.B, A: bg.A})

	g.drawGraticule()
	g.drawWind()
	g.drawActiveOverlays()

	s := g.view.Sim()
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(g.hudData(s))
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) && s != nil {
		g.perfPanel.Draw(s.Perf().Stats())
	}
	g.controls.Draw(g.overlays)
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)

	if g.button.Draw(s != nil) {
		g.togglePending = true
	}

	rl.EndDrawing()
}

// drawWind draws the streak, or only the newest layer when motion blur is
// off. Nothing is drawn while the simulation is hidden.
func (g *Game) drawWind() {
	s := g.view.Sim()
	if s == nil || s.Hidden() {
		return
	}
	streak := s.Streak()
	if g.overlays.IsEnabled(ui.OverlayStreak) {
		ui.DrawStreak(streak)
		return
	}
	if streak.Len() > 0 {
		ui.DrawLayer(streak.At(0).Image, 1)
	}
}

func (g *Game) hudData(s *sim.Simulation[rl.RenderTexture2D]) ui.HUDData {
	cam := g.view.Cam
	d := ui.HUDData{
		Title: "Wind Map",
		State: "off",
		Tick:  g.Tick(),
		FPS:   rl.GetFPS(),
		Lon:   cam.Lon,
		Lat:   cam.Lat,
		Zoom:  cam.Zoom,
	}
	if s == nil {
		return d
	}

	d.State = s.State().String()
	d.Capacity = s.Particles().Count()
	for i := range s.Particles().Particles {
		if s.Particles().Particles[i].Visible() {
			d.Visible++
		}
	}
	d.Layers = s.Streak().Len()
	d.Limit = s.Streak().Limit()
	return d
}
