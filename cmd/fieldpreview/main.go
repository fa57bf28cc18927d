// Synthetic field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/app"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/field"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewW     = 600
	previewH     = 400
	panelWidth   = windowWidth - previewW - 30
	savePath     = "field.json"
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Wind Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	// Initialize with default values from config
	config.MustInit("")
	defaults := app.SyntheticOptions(config.Cfg().Field.Synthetic)
	opts := defaults

	rec := field.Generate(opts)
	grid, err := rec.Grid()
	if err != nil {
		panic(err)
	}
	texture := loadSpeedTexture(grid)
	defer func() { rl.UnloadTexture(texture) }()

	showVectors := true
	status := ""
	needsRegen := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			rec = field.Generate(opts)
			g, err := rec.Grid()
			if err != nil {
				status = err.Error()
			} else {
				grid = g
				rl.UnloadTexture(texture)
				texture = loadSpeedTexture(grid)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(texture.Width), Height: float32(texture.Height)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		if showVectors {
			drawVectors(grid)
		}
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		// Draw stats
		sum := grid.Summary()
		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Cells: %d  Max: %.2f  Mean: %.2f  Std: %.2f", sum.Cells, sum.MaxSpeed, sum.MeanSpeed, sum.StdSpeed), 15, statsY, 16, rl.DarkGray)
		d := grid.Domain()
		rl.DrawText(fmt.Sprintf("Domain: %.1f..%.1f E, %.1f..%.1f N", d.MinLon, d.MaxLon, d.MinLat, d.MaxLat), 15, statsY+20, 16, rl.DarkGray)
		if status != "" {
			rl.DrawText(status, 15, statsY+40, 16, rl.DarkGreen)
		}

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Synthetic Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		var changed bool
		opts.Scale, changed = slider(&panelY, panelX, "Scale (noise features across domain)", "%.2f", opts.Scale, 0.5, 8)
		needsRegen = needsRegen || changed
		opts.MaxSpeed, changed = slider(&panelY, panelX, "Max speed", "%.1f", opts.MaxSpeed, 1, 40)
		needsRegen = needsRegen || changed

		cols, changed := slider(&panelY, panelX, "Columns", "%.0f", float64(opts.Cols), 4, 128)
		opts.Cols = int(cols)
		needsRegen = needsRegen || changed
		rows, changed := slider(&panelY, panelX, "Rows", "%.0f", float64(opts.Rows), 4, 96)
		opts.Rows = int(rows)
		needsRegen = needsRegen || changed
		seed, changed := slider(&panelY, panelX, "Seed", "%.0f", float64(opts.Seed), 0, 99999)
		opts.Seed = int64(seed)
		needsRegen = needsRegen || changed

		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showVectors, "Hide Vectors", "Show Vectors")) {
			showVectors = !showVectors
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			opts.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			opts = defaults
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Save JSON") {
			status = save(rec)
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := synthYAML(opts)
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and advances y. Returns the new value
// and whether it changed.
func slider(y *float32, x float32, label, format string, value, lo, hi float64) (float64, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float64(v) == float64(float32(value)) {
		return value, false
	}
	return float64(v), true
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func synthYAML(o field.GenerateOptions) string {
	return fmt.Sprintf(`field:
  synthetic:
    cols: %d
    rows: %d
    max_speed: %.1f
    scale: %.2f
    seed: %d`, o.Cols, o.Rows, o.MaxSpeed, o.Scale, o.Seed)
}

func save(rec *field.Record) string {
	f, err := os.Create(savePath)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := field.WriteJSON(f, rec); err != nil {
		return err.Error()
	}
	return "saved " + savePath
}

// drawVectors draws one tick per cell, scaled to the preview.
func drawVectors(g *field.Grid) {
	cw := float32(previewW) / float32(g.Cols())
	ch := float32(previewH) / float32(g.Rows())
	maxSpeed := g.MaxSpeed()
	if maxSpeed == 0 {
		return
	}
	l := min(cw, ch) * 0.9

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			v := g.Cell(col, row)
			// Row 0 is the southern edge
			cx := 10 + (float32(col)+0.5)*cw
			cy := 10 + (float32(g.Rows()-1-row)+0.5)*ch
			dx := float32(v.X/maxSpeed) * l
			dy := -float32(v.Y/maxSpeed) * l
			rl.DrawLineV(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: cx + dx, Y: cy + dy}, rl.Fade(rl.Black, 0.6))
		}
	}
}

// loadSpeedTexture uploads the field's speed as a heatmap, one texel per
// cell, north up.
func loadSpeedTexture(g *field.Grid) rl.Texture2D {
	cols, rows := g.Cols(), g.Rows()
	img := rl.GenImageColor(cols, rows, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	pixels := make([]color.RGBA, cols*rows)
	maxSpeed := g.MaxSpeed()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v := 0.0
			if maxSpeed > 0 {
				v = g.Cell(col, row).Len() / maxSpeed
			}
			pixels[(rows-1-row)*cols+col] = heat(v)
		}
	}
	rl.UpdateTexture(texture, pixels)
	return texture
}

// heat maps [0,1] through dark blue -> cyan -> yellow -> white.
func heat(v float64) color.RGBA {
	var r, g, b float64
	switch {
	case v < 0.25:
		t := v / 0.25
		r, g, b = 10+t*30, 20+t*60, 60+t*100
	case v < 0.5:
		t := (v - 0.25) / 0.25
		r, g, b = 40+t*20, 80+t*120, 160+t*40
	case v < 0.75:
		t := (v - 0.5) / 0.25
		r, g, b = 60+t*140, 200-t*40, 200-t*150
	default:
		t := min((v-0.75)/0.25, 1)
		r, g, b = 200+t*55, 160+t*95, 50+t*205
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
