package components

import "math"

// Vec2 is a 2D vector in screen space (pixels) or a raw wind vector.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// GeoPoint is a geographic coordinate in degrees.
type GeoPoint struct {
	Lon, Lat float64
}

// Rect is an axis-aligned rectangle in screen coordinates.
// Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Area returns the rectangle area, 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Empty reports whether r encloses no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of r and o. The result is empty when they
// do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.W, o.X+o.W)
	y1 := math.Min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Bounds is a geographic bounding box in degrees.
type Bounds struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// BoundsOf returns the bounding box spanned by two corners in any order.
func BoundsOf(a, b GeoPoint) Bounds {
	return Bounds{
		MinLon: math.Min(a.Lon, b.Lon),
		MinLat: math.Min(a.Lat, b.Lat),
		MaxLon: math.Max(a.Lon, b.Lon),
		MaxLat: math.Max(a.Lat, b.Lat),
	}
}

// Contains reports whether g lies inside b. The max edges are exclusive.
func (b Bounds) Contains(g GeoPoint) bool {
	return g.Lon >= b.MinLon && g.Lon < b.MaxLon && g.Lat >= b.MinLat && g.Lat < b.MaxLat
}

// Width returns the longitude span.
func (b Bounds) Width() float64 {
	return b.MaxLon - b.MinLon
}

// Height returns the latitude span.
func (b Bounds) Height() float64 {
	return b.MaxLat - b.MinLat
}
