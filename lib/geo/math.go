package geo

import "math"

// EuclideanDistance short-circuits axis-aligned pairs, which is every segment of an
// orthogonal route.
func EuclideanDistance(x1, y1, x2, y2 float64) float64 {
	switch {
	case x1 == x2:
		return math.Abs(y1 - y2)
	case y1 == y2:
		return math.Abs(x1 - x2)
	default:
		return math.Sqrt((x1-x2)*(x1-x2) + (y1-y2)*(y1-y2))
	}
}

// PrecisionCompare is 0 when a and b are within e of each other, otherwise -1 or 1 as a is
// below or above b.
func PrecisionCompare(a, b, e float64) int {
	switch {
	case math.Abs(a-b) < e:
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}
