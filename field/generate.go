package field

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/windmap/components"
)

// GenerateOptions parameterizes a synthetic wind field.
type GenerateOptions struct {
	Cols, Rows int
	Start, End components.GeoPoint
	MaxSpeed   float64 // largest vector magnitude after scaling
	Scale      float64 // noise features across the domain
	Seed       int64
}

// Generate builds a smooth synthetic field as the curl of a noise stream
// function, which gives swirling, nearly divergence-free wind.
func Generate(opts GenerateOptions) *Record {
	noise := opensimplex.New(opts.Seed)
	n := opts.Cols * opts.Rows
	u := make([]float64, n)
	v := make([]float64, n)

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	const eps = 1e-3

	psi := func(x, y float64) float64 {
		return noise.Eval2(x*scale, y*scale) + 0.5*noise.Eval2(x*scale*2+17, y*scale*2+31)
	}

	var peak float64
	for row := 0; row < opts.Rows; row++ {
		for col := 0; col < opts.Cols; col++ {
			x := float64(col) / float64(max(opts.Cols-1, 1))
			y := float64(row) / float64(max(opts.Rows-1, 1))
			dpdx := (psi(x+eps, y) - psi(x-eps, y)) / (2 * eps)
			dpdy := (psi(x, y+eps) - psi(x, y-eps)) / (2 * eps)
			i := row*opts.Cols + col
			u[i] = dpdy
			v[i] = -dpdx
			peak = math.Max(peak, math.Hypot(u[i], v[i]))
		}
	}

	if peak > 0 && opts.MaxSpeed > 0 {
		k := opts.MaxSpeed / peak
		for i := range u {
			u[i] *= k
			v[i] *= k
		}
	}

	return &Record{
		Title:    "synthetic",
		StartLon: opts.Start.Lon,
		StartLat: opts.Start.Lat,
		EndLon:   opts.End.Lon,
		EndLat:   opts.End.Lat,
		NLon:     (opts.End.Lon - opts.Start.Lon) / float64(max(opts.Cols-1, 1)),
		NLat:     (opts.End.Lat - opts.Start.Lat) / float64(max(opts.Rows-1, 1)),
		LonSize:  float64(opts.Cols),
		LatSize:  float64(opts.Rows),
		Data:     [][]float64{u, v},
	}
}
