package marker

import (
	"marker-maker/pkg/geometry"
)

// PercentMax is the upper bound of normalized marker coordinates.
const PercentMax = 100.0

// ToPercent converts a pointer position in viewport coordinates into image
// percent coordinates, given the on-screen rectangle of the rendered image.
// Positions outside the rectangle clamp to the nearest edge. Returns false
// when the rectangle has no area (image not laid out yet).
func ToPercent(pointer geometry.Point2D, rect geometry.Rect) (geometry.Point2D, bool) {
	if rect.Empty() {
		return geometry.Point2D{}, false
	}
	x := (pointer.X - rect.X) / rect.Width * PercentMax
	y := (pointer.Y - rect.Y) / rect.Height * PercentMax
	return geometry.Point2D{X: clampPercent(x), Y: clampPercent(y)}, true
}

// FromPercent returns the viewport position of percent coordinates p inside
// the on-screen image rectangle.
func FromPercent(p geometry.Point2D, rect geometry.Rect) geometry.Point2D {
	return geometry.Point2D{
		X: rect.X + p.X/PercentMax*rect.Width,
		Y: rect.Y + p.Y/PercentMax*rect.Height,
	}
}

func clampPercent(v float64) float64 {
	return geometry.Clamp(v, 0, PercentMax)
}
