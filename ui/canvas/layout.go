package canvas

import (
	"marker-maker/internal/marker"
	"marker-maker/pkg/geometry"
)

// DefaultMarkerSize is the on-screen diameter of a marker handle.
const DefaultMarkerSize = 32.0

// MarkerGeometry describes the on-screen size of marker glyphs in logical
// pixels. Glyphs do not grow with zoom.
type MarkerGeometry struct {
	Size float64
}

// Radius returns the handle radius.
func (g MarkerGeometry) Radius() float64 {
	if g.Size <= 0 {
		return DefaultMarkerSize / 2
	}
	return g.Size / 2
}

// DeleteRadius returns the radius of the delete button.
func (g MarkerGeometry) DeleteRadius() float64 {
	return g.Radius() * 0.45
}

// DeleteCenter returns where the delete button of a marker centered at c
// is drawn: just outside the top-right of the handle.
func (g MarkerGeometry) DeleteCenter(c geometry.Point2D) geometry.Point2D {
	d := g.Radius() * 1.05
	return geometry.Point2D{X: c.X + d, Y: c.Y - d}
}

// Bounds returns the screen box covering the handle, the delete button and
// the index label of a marker centered at c.
func (g MarkerGeometry) Bounds(c geometry.Point2D) geometry.Rect {
	r := g.Radius()
	return geometry.NewRect(c.X-r, c.Y-1.5*r, 4*r, 3*r)
}

// Visible reports whether any part of a marker centered at c falls inside
// the viewport.
func (g MarkerGeometry) Visible(c geometry.Point2D, viewport geometry.Rect) bool {
	return g.Bounds(c).Intersects(viewport)
}

// HitKind is what a pointer position lands on.
type HitKind int

const (
	HitNone HitKind = iota
	HitMarker
	HitDelete
)

// Hit is the result of a hit test. MarkerID is set for HitMarker and
// HitDelete.
type Hit struct {
	Kind     HitKind
	MarkerID int64
}

// HitTest finds the topmost marker element under pos. Markers later in the
// list are drawn on top, so they are tested first; a marker's delete button
// takes priority over its handle.
func HitTest(pos geometry.Point2D, markers []marker.ProjectedMarker, g MarkerGeometry) Hit {
	r := g.Radius()
	dr := g.DeleteRadius()
	for i := len(markers) - 1; i >= 0; i-- {
		m := markers[i]
		if pos.Distance(g.DeleteCenter(m.Screen)) <= dr {
			return Hit{Kind: HitDelete, MarkerID: m.ID}
		}
		if pos.Distance(m.Screen) <= r {
			return Hit{Kind: HitMarker, MarkerID: m.ID}
		}
	}
	return Hit{}
}

// BaseSize returns the untransformed layout size of an image inside a
// viewport: the image is fitted to the viewport height, keeping its aspect
// ratio, and anchored at the top-left.
func BaseSize(img, viewport geometry.Size) geometry.Size {
	return img.FitHeight(viewport.Height)
}
