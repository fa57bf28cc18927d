// Frame dump tool - renders the wind layer headlessly and writes composited
// streak frames as PNG files.
//
// Usage: go run ./cmd/framedump -out frames [-frames 30 -every 4 -scale 0.5]
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/pthm-cable/windmap/app"
	"github.com/pthm-cable/windmap/camera"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/renderer"
	"github.com/pthm-cable/windmap/sim"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	fieldPath := flag.String("field", "", "Wind field file (empty = config, then synthetic)")
	outDir := flag.String("out", "", "Output directory for frames")
	frames := flag.Int("frames", 30, "Number of frames to write")
	every := flag.Int("every", 4, "Ticks between frames")
	warmup := flag.Int("warmup", 60, "Ticks before the first frame")
	scale := flag.Float64("scale", 1, "Output scale factor")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	if *outDir == "" {
		log.Fatal("--out is required")
	}
	if *every < 1 || *scale <= 0 {
		log.Fatal("--every must be at least 1 and --scale positive")
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if *fieldPath != "" {
		cfg.Field.Path = *fieldPath
	}

	grid, err := app.LoadField(cfg.Field)
	if err != nil {
		log.Fatal(err)
	}

	w, h := cfg.Screen.Width, cfg.Screen.Height
	cam := camera.New(float64(w), float64(h), grid.Domain())
	surface := renderer.NewGGSurface(w, h)
	defer surface.Close()

	s := sim.New[*gg.ImageBuf](grid, cam, surface, nil, app.SimOptions(cfg, app.Options{Seed: *seed}, cam.Screen()))
	defer s.Teardown()

	view := app.NewView[*gg.ImageBuf](cam, grid.Domain())
	if err := view.Attach(s); err != nil {
		log.Fatal(err)
	}
	if err := s.Start(); err != nil {
		log.Fatal(err)
	}

	for range *warmup {
		s.Step()
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	sw := max(1, int(float64(w) * *scale))
	sh := max(1, int(float64(h) * *scale))

	for i := range *frames {
		for range *every {
			s.Step()
		}
		if err := surface.Err(); err != nil {
			log.Fatalf("render failed: %v", err)
		}

		renderer.CompositeStreak(dc, s.Streak(), app.Background)
		path := filepath.Join(*outDir, fmt.Sprintf("frame_%04d.png", i))
		if err := writeFrame(path, dc.Image(), sw, sh); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("wrote %d frames (%dx%d) to %s after %d ticks", *frames, sw, sh, *outDir, s.Ticks())
}

// writeFrame scales src to w x h and encodes it as PNG.
func writeFrame(path string, src image.Image, w, h int) error {
	img := src
	if b := src.Bounds(); b.Dx() != w || b.Dy() != h {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
