package field

import (
	"errors"
	"math"
	"math/bits"
	"testing"

	"github.com/pthm-cable/windmap/components"
)

const eps = 1e-9

// rampGrid returns a 4x3 grid over lon [0,30], lat [0,20] (10 degree cells)
// where cell (c, r) holds (c, 10*r).
func rampGrid(t *testing.T) *Grid {
	t.Helper()
	cols, rows := 4, 3
	u := make([]float64, cols*rows)
	v := make([]float64, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u[r*cols+c] = float64(c)
			v[r*cols+c] = float64(10 * r)
		}
	}
	g, err := New(u, v, cols, rows, components.GeoPoint{Lon: 0, Lat: 0}, components.GeoPoint{Lon: 30, Lat: 20})
	if err != nil {
		t.Fatalf("building grid: %v", err)
	}
	return g
}

// wrapSide squared overflows int to exactly zero.
const wrapSide = 1 << (bits.UintSize / 2)

func TestNewRejectsMismatchedData(t *testing.T) {
	origin := components.GeoPoint{}
	extent := components.GeoPoint{Lon: 10, Lat: 10}

	tests := []struct {
		name       string
		u, v       []float64
		cols, rows int
	}{
		{"component length mismatch", make([]float64, 4), make([]float64, 3), 2, 2},
		{"raster size mismatch", make([]float64, 6), make([]float64, 6), 2, 2},
		{"single column", make([]float64, 2), make([]float64, 2), 1, 2},
		{"empty components", nil, nil, 2, 2},
		// cols*rows wraps to 0 in int arithmetic
		{"raster size overflow", []float64{}, []float64{}, wrapSide, wrapSide},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.u, tc.v, tc.cols, tc.rows, origin, extent)
			if !errors.Is(err, ErrInvalidFieldData) {
				t.Errorf("expected ErrInvalidFieldData, got %v", err)
			}
		})
	}
}

func TestCellSizeAndDomain(t *testing.T) {
	g := rampGrid(t)

	if cs := g.CellSize(); cs.X != 10 || cs.Y != 10 {
		t.Errorf("expected 10x10 degree cells, got %v", cs)
	}
	d := g.Domain()
	if d.MinLon != 0 || d.MaxLon != 30 || d.MinLat != 0 || d.MaxLat != 20 {
		t.Errorf("unexpected domain %+v", d)
	}
}

func TestMaxSpeed(t *testing.T) {
	g := rampGrid(t)
	want := math.Hypot(3, 20)
	if math.Abs(g.MaxSpeed()-want) > eps {
		t.Errorf("expected max speed %f, got %f", want, g.MaxSpeed())
	}
}

func TestSampleAtInteriorCorners(t *testing.T) {
	g := rampGrid(t)

	for fj := 0; fj < g.Rows()-1; fj++ {
		for fi := 0; fi < g.Cols()-1; fi++ {
			p := components.GeoPoint{Lon: float64(fi) * 10, Lat: float64(fj) * 10}
			got := g.Sample(p)
			want := g.Cell(fi, fj)
			if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps {
				t.Errorf("corner (%d,%d): expected %v, got %v", fi, fj, want, got)
			}
		}
	}
}

func TestSampleBilinear(t *testing.T) {
	g := rampGrid(t)

	// u ramps with column, v with row, so interpolation is exact linear
	got := g.Sample(components.GeoPoint{Lon: 15, Lat: 5})
	if math.Abs(got.X-1.5) > eps || math.Abs(got.Y-5) > eps {
		t.Errorf("expected (1.5, 5), got %v", got)
	}

	got = g.Sample(components.GeoPoint{Lon: 27.5, Lat: 12.5})
	if math.Abs(got.X-2.75) > eps || math.Abs(got.Y-12.5) > eps {
		t.Errorf("expected (2.75, 12.5), got %v", got)
	}
}

func TestSampleOutsideInteriorIsZero(t *testing.T) {
	g := rampGrid(t)

	points := []components.GeoPoint{
		{Lon: -0.001, Lat: 5},      // fi < 0
		{Lon: 5, Lat: -3},          // fj < 0
		{Lon: 30, Lat: 5},          // fi == cols-1
		{Lon: 5, Lat: 20},          // fj == rows-1
		{Lon: 45, Lat: 45},         // far outside
		{Lon: math.NaN(), Lat: 5},  // undefined
		{Lon: 1e300, Lat: -1e300},  // overflow territory
	}

	for _, p := range points {
		if v := g.Sample(p); v != (components.Vec2{}) {
			t.Errorf("sample at %v: expected zero vector, got %v", p, v)
		}
	}
}

func TestSummary(t *testing.T) {
	u := []float64{3, 3, 3, 3}
	v := []float64{4, 4, 4, 4}
	g, err := New(u, v, 2, 2, components.GeoPoint{}, components.GeoPoint{Lon: 1, Lat: 1})
	if err != nil {
		t.Fatal(err)
	}
	s := g.Summary()
	if s.Cells != 4 || math.Abs(s.MeanSpeed-5) > eps || math.Abs(s.StdSpeed) > eps || s.MaxSpeed != 5 {
		t.Errorf("unexpected summary %+v", s)
	}
}
