package marker

import (
	"marker-maker/pkg/geometry"
)

const (
	DefaultZoomStep = 1.5
	DefaultMinScale = 0.5
	DefaultMaxScale = 10.0
)

// ZoomLimits configures the zoom step factor and the allowed scale range.
type ZoomLimits struct {
	Step float64
	Min  float64
	Max  float64
}

// DefaultZoomLimits returns the standard step of 1.5 within [0.5, 10].
func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{Step: DefaultZoomStep, Min: DefaultMinScale, Max: DefaultMaxScale}
}

// normalized replaces unusable values with the defaults and widens the
// range to include scale 1, which ResetView returns to.
func (l ZoomLimits) normalized() ZoomLimits {
	d := DefaultZoomLimits()
	if !(l.Step > 1) {
		l.Step = d.Step
	}
	if !(l.Min > 0) {
		l.Min = d.Min
	}
	if !(l.Max >= l.Min) {
		l.Max = d.Max
		if l.Max < l.Min {
			l.Max = l.Min
		}
	}
	if l.Min > 1 {
		l.Min = 1
	}
	if l.Max < 1 {
		l.Max = 1
	}
	return l
}

// ViewTransform is the pan offset and zoom scale applied to the image for
// display. It never affects stored marker coordinates.
type ViewTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// IdentityView returns scale 1 with no offset.
func IdentityView() ViewTransform {
	return ViewTransform{Scale: 1}
}

// Offset returns the pan offset as a point.
func (v ViewTransform) Offset() geometry.Point2D {
	return geometry.Point2D{X: v.OffsetX, Y: v.OffsetY}
}

// WithOffset returns a copy translated to p. Scale is unchanged.
func (v ViewTransform) WithOffset(p geometry.Point2D) ViewTransform {
	v.OffsetX = p.X
	v.OffsetY = p.Y
	return v
}

// Zoom multiplies (in) or divides the scale by the step, clamped to the
// limits. The offset is unchanged, so zoom anchors at the top-left.
func (v ViewTransform) Zoom(in bool, limits ZoomLimits) ViewTransform {
	limits = limits.normalized()
	s := v.Scale
	if in {
		s *= limits.Step
	} else {
		s /= limits.Step
	}
	v.Scale = geometry.Clamp(s, limits.Min, limits.Max)
	return v
}

// Affine returns the transform from the image's local layout box to the
// viewport: scale about the top-left, then translate by the offset.
func (v ViewTransform) Affine() geometry.AffineTransform {
	return geometry.Translation(v.OffsetX, v.OffsetY).Compose(geometry.Scale(v.Scale, v.Scale))
}

// ImageRect returns the on-screen rectangle of an image whose untransformed
// layout size is base.
func (v ViewTransform) ImageRect(base geometry.Size) geometry.Rect {
	if base.Empty() {
		return geometry.Rect{}
	}
	t := v.Affine()
	tl := t.Apply(geometry.Point2D{})
	br := t.Apply(geometry.Point2D{X: base.Width, Y: base.Height})
	return geometry.Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// MarkerScale is the factor applied to marker glyphs inside the transformed
// image so they keep a constant on-screen size.
func (v ViewTransform) MarkerScale() float64 {
	if !(v.Scale > 0) {
		return 1
	}
	return 1 / v.Scale
}

// ProjectLength maps a horizontal length in the image-local box to the
// viewport.
func (v ViewTransform) ProjectLength(l float64) float64 {
	t := v.Affine()
	return t.Apply(geometry.Point2D{X: l}).Distance(t.Apply(geometry.Point2D{}))
}
