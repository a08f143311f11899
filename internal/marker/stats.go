package marker

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"marker-maker/pkg/geometry"
)

// Summary describes the distribution of marker positions in percent space.
type Summary struct {
	Count    int
	Centroid geometry.Point2D
	// Spread is the root of the summed per-axis sample variances. Zero for
	// fewer than two markers.
	Spread float64
}

// Summarize computes count, centroid and spread of the markers.
func Summarize(markers []Marker) Summary {
	n := len(markers)
	if n == 0 {
		return Summary{}
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, m := range markers {
		xs[i] = m.X
		ys[i] = m.Y
	}

	s := Summary{Count: n}
	if n < 2 {
		s.Centroid = geometry.Point2D{X: xs[0], Y: ys[0]}
		return s
	}
	mx, sx := stat.MeanStdDev(xs, nil)
	my, sy := stat.MeanStdDev(ys, nil)
	s.Centroid = geometry.Point2D{X: mx, Y: my}
	s.Spread = math.Sqrt(sx*sx + sy*sy)
	return s
}
