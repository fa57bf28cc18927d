package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/windmap/field"
)

func TestLoadFieldSynthetic(t *testing.T) {
	cfg := testConfig(t)
	g := testGrid(t, cfg)

	if g.Cols() != 16 || g.Rows() != 12 {
		t.Errorf("expected 16x12 grid, got %dx%d", g.Cols(), g.Rows())
	}
	sc := cfg.Field.Synthetic
	d := g.Domain()
	if d.MinLon != sc.StartLon || d.MaxLon != sc.EndLon || d.MinLat != sc.StartLat || d.MaxLat != sc.EndLat {
		t.Errorf("domain %+v does not match synthetic config", d)
	}
	if g.MaxSpeed() <= 0 {
		t.Error("expected a non-zero synthetic field")
	}
}

func TestLoadFieldFile(t *testing.T) {
	cfg := testConfig(t)
	rec := field.Generate(SyntheticOptions(cfg.Field.Synthetic))

	for _, ext := range []string{".json", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wind"+ext)
			f, err := os.Create(path)
			if err != nil {
				t.Fatalf("creating %s: %v", path, err)
			}
			if ext == ".json" {
				err = field.WriteJSON(f, rec)
			} else {
				err = field.WriteCSV(f, rec)
			}
			if err != nil {
				t.Fatalf("writing field: %v", err)
			}
			f.Close()

			fc := cfg.Field
			fc.Path = path
			g, err := LoadField(fc)
			if err != nil {
				t.Fatalf("LoadField: %v", err)
			}
			if g.Cols() != int(rec.LonSize) || g.Rows() != int(rec.LatSize) {
				t.Errorf("expected %gx%g, got %dx%d", rec.LonSize, rec.LatSize, g.Cols(), g.Rows())
			}
		})
	}
}

func TestLoadFieldMissingFile(t *testing.T) {
	cfg := testConfig(t)
	fc := cfg.Field
	fc.Path = filepath.Join(t.TempDir(), "missing.json")
	if _, err := LoadField(fc); err == nil {
		t.Error("expected error for missing file")
	}
}
