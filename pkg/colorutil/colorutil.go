// Package colorutil provides shared colors for the marker canvas.
package colorutil

import (
	"image/color"
)

// Colors used by the canvas renderer.
var (
	Black      = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Background = color.RGBA{R: 0xF3, G: 0xF4, B: 0xF6, A: 255} // light gray canvas
	MarkerBlue = color.RGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 255}
	MarkerDrag = color.RGBA{R: 0x1D, G: 0x4E, B: 0xD8, A: 255}
	DeleteRed  = color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 255}
)

// Blend mixes src over dst with the given opacity in [0, 1].
func Blend(dst, src color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return src
	}
	if opacity <= 0 {
		return dst
	}
	inv := 1 - opacity
	return color.RGBA{
		R: uint8(float64(src.R)*opacity + float64(dst.R)*inv),
		G: uint8(float64(src.G)*opacity + float64(dst.G)*inv),
		B: uint8(float64(src.B)*opacity + float64(dst.B)*inv),
		A: 255,
	}
}
