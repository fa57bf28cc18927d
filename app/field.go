// Package app wires a wind field, a viewport and a simulation together for
// the terminal and headless front ends, and holds the pieces the window
// front end shares with them.
package app

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/field"
)

// SyntheticOptions converts the synthetic field config into generator options.
func SyntheticOptions(sc config.SyntheticConfig) field.GenerateOptions {
	return field.GenerateOptions{
		Cols:     sc.Cols,
		Rows:     sc.Rows,
		Start:    components.GeoPoint{Lon: sc.StartLon, Lat: sc.StartLat},
		End:      components.GeoPoint{Lon: sc.EndLon, Lat: sc.EndLat},
		MaxSpeed: sc.MaxSpeed,
		Scale:    sc.Scale,
		Seed:     sc.Seed,
	}
}

// LoadField loads the field file named by fc.Path, or generates one when the
// path is empty. CSV files carry no domain and take it from the synthetic
// section.
func LoadField(fc config.FieldConfig) (*field.Grid, error) {
	var rec *field.Record
	if fc.Path == "" {
		rec = field.Generate(SyntheticOptions(fc.Synthetic))
	} else {
		sc := fc.Synthetic
		domain := components.BoundsOf(
			components.GeoPoint{Lon: sc.StartLon, Lat: sc.StartLat},
			components.GeoPoint{Lon: sc.EndLon, Lat: sc.EndLat},
		)
		var err error
		rec, err = field.LoadFile(fc.Path, domain)
		if err != nil {
			return nil, fmt.Errorf("loading field %s: %w", fc.Path, err)
		}
	}

	g, err := rec.Grid()
	if err != nil {
		return nil, fmt.Errorf("building field grid: %w", err)
	}

	sum := g.Summary()
	slog.Info("field loaded",
		"source", sourceName(fc.Path),
		"title", rec.Title,
		"cols", g.Cols(),
		"rows", g.Rows(),
		"max_speed", g.MaxSpeed(),
		"mean_speed", sum.MeanSpeed,
	)
	return g, nil
}

func sourceName(path string) string {
	if path == "" {
		return "synthetic"
	}
	return path
}
