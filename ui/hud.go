package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	State    string
	Capacity int
	Visible  int
	Layers   int
	Limit    int
	Tick     int64
	FPS      int32
	Lon, Lat float64
	Zoom     float64
}

// hudSections describes the status panel layout.
var hudSections = []SectionDescriptor{
	{
		Title:   "Simulation",
		Visible: func(d any) bool { return d.(HUDData).State != "off" },
		Fields: []FieldDescriptor{
			{Label: "State", Widget: WidgetText, TextGetter: func(d any) string { return d.(HUDData).State }},
			{Label: "Tick", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprintf("%d", d.(HUDData).Tick) }},
			{Label: "Particles", Widget: WidgetText, TextGetter: func(d any) string {
				h := d.(HUDData)
				return fmt.Sprintf("%d / %d", h.Visible, h.Capacity)
			}},
			{Label: "Streak", Widget: WidgetBar, Getter: func(d any) float32 {
				h := d.(HUDData)
				if h.Limit == 0 {
					return 0
				}
				return float32(h.Layers) / float32(h.Limit)
			}, TextGetter: func(d any) string {
				h := d.(HUDData)
				return fmt.Sprintf("%d/%d", h.Layers, h.Limit)
			}},
		},
	},
	{
		Title: "View",
		Fields: []FieldDescriptor{
			{Label: "Center", Widget: WidgetText, TextGetter: func(d any) string {
				h := d.(HUDData)
				return fmt.Sprintf("%.2f, %.2f", h.Lon, h.Lat)
			}},
			{Label: "Zoom", Widget: WidgetText, Format: "%.1f px/deg", Getter: func(d any) float32 { return float32(d.(HUDData).Zoom) }},
			{Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(d.(HUDData).FPS) }},
		},
	},
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD panel at the top left.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	const width = 240

	x := int32(10)
	y := int32(10)
	r.DrawPanel(x, y, width, 9*r.Theme.LineHeight+3*r.Theme.Padding)

	y += r.Theme.Padding
	rl.DrawText(data.Title, x+r.Theme.Padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, sd := range hudSections {
		y = r.DrawSection(x+r.Theme.Padding, y, sd, data, width-2*r.Theme.Padding)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond),
	), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
