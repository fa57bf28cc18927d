// Package camera provides the map viewport: the screen<->geographic
// transform the particle system advects through, plus pan and zoom.
package camera

import (
	"math"

	"github.com/pthm-cable/windmap/components"
)

// Camera is an equirectangular viewport onto the map.
type Camera struct {
	// Center of the viewport in degrees
	Lon, Lat float64

	// Zoom in screen pixels per degree
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the given bounds, zoomed so the whole
// box fits the viewport.
func New(viewportW, viewportH float64, fit components.Bounds) *Camera {
	zoom := math.Min(viewportW/fit.Width(), viewportH/fit.Height())
	return &Camera{
		Lon:       fit.MinLon + fit.Width()/2,
		Lat:       fit.MinLat + fit.Height()/2,
		Zoom:      zoom,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   zoom / 4,
		MaxZoom:   zoom * 16,
	}
}

// GeoToScreen converts geographic coordinates to screen coordinates.
// North is up, so latitude grows toward smaller screen y.
func (c *Camera) GeoToScreen(g components.GeoPoint) components.Vec2 {
	return components.Vec2{
		X: c.ViewportW/2 + (g.Lon-c.Lon)*c.Zoom,
		Y: c.ViewportH/2 - (g.Lat-c.Lat)*c.Zoom,
	}
}

// ScreenToGeo converts screen coordinates to geographic coordinates.
func (c *Camera) ScreenToGeo(p components.Vec2) components.GeoPoint {
	return components.GeoPoint{
		Lon: c.Lon + (p.X-c.ViewportW/2)/c.Zoom,
		Lat: c.Lat - (p.Y-c.ViewportH/2)/c.Zoom,
	}
}

// Screen returns the viewport rectangle.
func (c *Camera) Screen() components.Rect {
	return components.Rect{W: c.ViewportW, H: c.ViewportH}
}

// FieldRect returns the screen rectangle covered by a geographic box,
// unclipped.
func (c *Camera) FieldRect(b components.Bounds) components.Rect {
	nw := c.GeoToScreen(components.GeoPoint{Lon: b.MinLon, Lat: b.MaxLat})
	se := c.GeoToScreen(components.GeoPoint{Lon: b.MaxLon, Lat: b.MinLat})
	return components.Rect{X: nw.X, Y: nw.Y, W: se.X - nw.X, H: se.Y - nw.Y}
}

// VisibleRect clips the field's screen rectangle to the viewport. The bool
// is false when no part of the field is on screen; the rect is then empty.
func (c *Camera) VisibleRect(b components.Bounds) (components.Rect, bool) {
	r := c.FieldRect(b).Intersect(c.Screen())
	return r, !r.Empty()
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Lon += dx / c.Zoom
	c.Lat -= dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
