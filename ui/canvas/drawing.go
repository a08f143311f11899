package canvas

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"marker-maker/pkg/colorutil"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// fill sets every pixel of output to col.
func fill(output *image.RGBA, col color.RGBA) {
	for i := 0; i+3 < len(output.Pix); i += 4 {
		output.Pix[i] = col.R
		output.Pix[i+1] = col.G
		output.Pix[i+2] = col.B
		output.Pix[i+3] = col.A
	}
}

// drawDisc fills a circle, blending the outermost pixel ring for a softer edge.
func drawDisc(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := output.Bounds()

	minX := int(math.Floor(cx - r - 1))
	maxX := int(math.Ceil(cx + r + 1))
	minY := int(math.Floor(cy - r - 1))
	maxY := int(math.Ceil(cy + r + 1))

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d := math.Sqrt(dx*dx+dy*dy) - r
			switch {
			case d <= -0.5:
				output.SetRGBA(x, y, col)
			case d < 0.5:
				output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), col, 0.5-d))
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawMoveGlyph draws a four-way arrow centered at (cx, cy) with arm length r.
func drawMoveGlyph(output *image.RGBA, cx, cy, r float64, col color.RGBA, thickness int) {
	x, y := int(cx), int(cy)
	arm := int(r)
	head := int(r * 0.4)
	if head < 1 {
		head = 1
	}

	drawLine(output, x-arm, y, x+arm, y, col, thickness)
	drawLine(output, x, y-arm, x, y+arm, col, thickness)

	drawLine(output, x-arm, y, x-arm+head, y-head, col, thickness)
	drawLine(output, x-arm, y, x-arm+head, y+head, col, thickness)
	drawLine(output, x+arm, y, x+arm-head, y-head, col, thickness)
	drawLine(output, x+arm, y, x+arm-head, y+head, col, thickness)
	drawLine(output, x, y-arm, x-head, y-arm+head, col, thickness)
	drawLine(output, x, y-arm, x+head, y-arm+head, col, thickness)
	drawLine(output, x, y+arm, x-head, y+arm-head, col, thickness)
	drawLine(output, x, y+arm, x+head, y+arm-head, col, thickness)
}

// drawCross draws an X centered at (cx, cy) with half-size r.
func drawCross(output *image.RGBA, cx, cy, r float64, col color.RGBA, thickness int) {
	x, y, d := int(cx), int(cy), int(r)
	drawLine(output, x-d, y-d, x+d, y+d, col, thickness)
	drawLine(output, x-d, y+d, x+d, y-d, col, thickness)
}

// drawNumber draws n with the 3x5 digit font, left-aligned at x and
// vertically centered on cy. scale is the size of one font pixel.
func drawNumber(output *image.RGBA, n int, x, cy int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}

	label := strconv.Itoa(n)
	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	startY := cy - charHeight/2

	bounds := output.Bounds()

	for i, ch := range label {
		if ch < '0' || ch > '9' {
			continue
		}
		pattern := digitPatterns[ch-'0']
		charX := x + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.SetRGBA(px, py, col)
						}
					}
				}
			}
		}
	}
}
