// Synthetic wind field generator. Writes a field file the map can load with
// -field.
//
// Usage: go run ./cmd/fieldgen -out wind.json [-cols 64 -rows 48 -seed 7]
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/windmap/app"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/field"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	out := flag.String("out", "", "Output file, .json or .csv")
	title := flag.String("title", "synthetic", "Field title (JSON only)")
	cols := flag.Int("cols", 0, "Columns (0 = config)")
	rows := flag.Int("rows", 0, "Rows (0 = config)")
	seed := flag.Int64("seed", 0, "Noise seed (0 = config)")
	maxSpeed := flag.Float64("max-speed", 0, "Largest wind speed (0 = config)")
	scale := flag.Float64("scale", 0, "Noise features across the domain (0 = config)")
	flag.Parse()

	if *out == "" {
		log.Fatal("--out is required")
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	opts := app.SyntheticOptions(config.Cfg().Field.Synthetic)
	if *cols > 0 {
		opts.Cols = *cols
	}
	if *rows > 0 {
		opts.Rows = *rows
	}
	if *seed != 0 {
		opts.Seed = *seed
	}
	if *maxSpeed > 0 {
		opts.MaxSpeed = *maxSpeed
	}
	if *scale > 0 {
		opts.Scale = *scale
	}

	rec := field.Generate(opts)
	rec.Title = *title

	// Validate before writing
	g, err := rec.Grid()
	if err != nil {
		log.Fatalf("generated field is invalid: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *out, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(*out)) {
	case ".json":
		err = field.WriteJSON(f, rec)
	case ".csv":
		err = field.WriteCSV(f, rec)
	default:
		log.Fatalf("unsupported extension %q (want .json or .csv)", filepath.Ext(*out))
	}
	if err != nil {
		log.Fatalf("failed to write field: %v", err)
	}

	sum := g.Summary()
	log.Printf("wrote %s: %dx%d cells, max speed %.2f, mean %.2f", *out, g.Cols(), g.Rows(), sum.MaxSpeed, sum.MeanSpeed)
}
