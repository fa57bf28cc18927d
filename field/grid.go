// Package field holds the discretized wind field and its loaders.
package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/windmap/components"
)

// ErrInvalidFieldData is returned when component arrays do not describe a
// cols x rows raster.
var ErrInvalidFieldData = errors.New("invalid field data")

// Grid is an immutable wind field over a rectangular geographic domain.
// Cells are stored row-major as interleaved (u, v) pairs, so cell (col, row)
// lives at cells[2*(row*cols+col)].
type Grid struct {
	cols, rows int
	origin     components.GeoPoint
	cellSize   components.Vec2 // degrees per cell (lon, lat)
	domain     components.Bounds
	cells      []float64
	speeds     []float64
	maxSpeed   float64
}

// New builds a grid from eastward (u) and northward (v) components.
// origin is the geographic position of cell (0,0) and extent the position of
// cell (cols-1, rows-1).
func New(u, v []float64, cols, rows int, origin, extent components.GeoPoint) (*Grid, error) {
	if len(u) != len(v) {
		return nil, fmt.Errorf("%w: %d u components vs %d v components", ErrInvalidFieldData, len(u), len(v))
	}
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("%w: raster %dx%d needs at least 2x2 cells", ErrInvalidFieldData, cols, rows)
	}
	// cols > len(u)/rows first so the product below cannot overflow
	if cols > len(u)/rows || cols*rows != len(u) {
		return nil, fmt.Errorf("%w: raster %dx%d does not match %d cells", ErrInvalidFieldData, cols, rows, len(u))
	}

	cellSize := components.Vec2{
		X: (extent.Lon - origin.Lon) / float64(cols-1),
		Y: (extent.Lat - origin.Lat) / float64(rows-1),
	}
	if cellSize.X == 0 || cellSize.Y == 0 || math.IsNaN(cellSize.X) || math.IsNaN(cellSize.Y) {
		return nil, fmt.Errorf("%w: degenerate domain %v..%v", ErrInvalidFieldData, origin, extent)
	}

	g := &Grid{
		cols:     cols,
		rows:     rows,
		origin:   origin,
		cellSize: cellSize,
		domain:   components.BoundsOf(origin, extent),
		cells:    make([]float64, 2*len(u)),
		speeds:   make([]float64, len(u)),
	}
	for i := range u {
		g.cells[2*i] = u[i]
		g.cells[2*i+1] = v[i]
		g.speeds[i] = math.Hypot(u[i], v[i])
	}
	g.maxSpeed = floats.Max(g.speeds)

	return g, nil
}

// Cols returns the number of raster columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of raster rows.
func (g *Grid) Rows() int { return g.rows }

// Origin returns the geographic position of cell (0,0).
func (g *Grid) Origin() components.GeoPoint { return g.origin }

// CellSize returns the cell size in degrees (lon, lat).
func (g *Grid) CellSize() components.Vec2 { return g.cellSize }

// Domain returns the geographic bounding box of the field.
func (g *Grid) Domain() components.Bounds { return g.domain }

// MaxSpeed returns the largest vector magnitude in the field.
func (g *Grid) MaxSpeed() float64 { return g.maxSpeed }

// Cell returns the stored vector at (col, row). Out-of-range indices yield
// the zero vector.
func (g *Grid) Cell(col, row int) components.Vec2 {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return components.Vec2{}
	}
	i := 2 * (row*g.cols + col)
	return components.Vec2{X: g.cells[i], Y: g.cells[i+1]}
}

// Sample bilinearly interpolates the field at p. Points whose enclosing cell
// is not fully inside the raster yield the zero vector: wind is absent
// outside the sampleable interior, never extrapolated.
func (g *Grid) Sample(p components.GeoPoint) components.Vec2 {
	i := (p.Lon - g.origin.Lon) / g.cellSize.X
	j := (p.Lat - g.origin.Lat) / g.cellSize.Y
	if math.IsNaN(i) || math.IsNaN(j) {
		return components.Vec2{}
	}

	fiF := math.Floor(i)
	fjF := math.Floor(j)
	// Compare as floats first so huge coordinates never overflow int
	if fiF < 0 || fjF < 0 || fiF >= float64(g.cols-1) || fjF >= float64(g.rows-1) {
		return components.Vec2{}
	}
	fi, fj := int(fiF), int(fjF)
	ci, cj := fi+1, fj+1

	x := i - fiF
	y := j - fjF

	ff := 2 * (fj*g.cols + fi)
	cf := 2 * (fj*g.cols + ci)
	fc := 2 * (cj*g.cols + fi)
	cc := 2 * (cj*g.cols + ci)

	w00 := (1 - x) * (1 - y)
	w10 := x * (1 - y)
	w01 := (1 - x) * y
	w11 := x * y

	return components.Vec2{
		X: g.cells[ff]*w00 + g.cells[cf]*w10 + g.cells[fc]*w01 + g.cells[cc]*w11,
		Y: g.cells[ff+1]*w00 + g.cells[cf+1]*w10 + g.cells[fc+1]*w01 + g.cells[cc+1]*w11,
	}
}

// Summary describes the speed distribution of a field.
type Summary struct {
	Cells     int
	MaxSpeed  float64
	MeanSpeed float64
	StdSpeed  float64
}

// Summary computes speed statistics over all cells.
func (g *Grid) Summary() Summary {
	mean, std := stat.MeanStdDev(g.speeds, nil)
	return Summary{
		Cells:     len(g.speeds),
		MaxSpeed:  g.maxSpeed,
		MeanSpeed: mean,
		StdSpeed:  std,
	}
}
