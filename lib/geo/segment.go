package geo

import (
	"fmt"
	"math"
)

type Segment struct {
	Start *Point
	End   *Point
}

func NewSegment(from, to *Point) *Segment {
	return &Segment{from, to}
}

func (segment Segment) Length() float64 {
	return EuclideanDistance(segment.Start.X, segment.Start.Y, segment.End.X, segment.End.Y)
}

func (segment Segment) IsHorizontal() bool {
	return segment.Start.Y == segment.End.Y
}

func (segment Segment) IsVertical() bool {
	return segment.Start.X == segment.End.X
}

// CrossesInterior reports whether an axis-aligned segment passes through the interior of
// box. Running along an edge of the box does not count. e is the comparison tolerance.
// Diagonal segments are tested by their extent.
func (segment Segment) CrossesInterior(box *Box, e float64) bool {
	minX := math.Min(segment.Start.X, segment.End.X)
	maxX := math.Max(segment.Start.X, segment.End.X)
	minY := math.Min(segment.Start.Y, segment.End.Y)
	maxY := math.Max(segment.Start.Y, segment.End.Y)

	if math.Abs(segment.Start.Y-segment.End.Y) < e {
		y := segment.Start.Y
		if y <= box.TopLeft.Y+e || y >= box.Bottom()-e {
			return false
		}
		return minX < box.Right()-e && maxX > box.TopLeft.X+e
	}
	if math.Abs(segment.Start.X-segment.End.X) < e {
		x := segment.Start.X
		if x <= box.TopLeft.X+e || x >= box.Right()-e {
			return false
		}
		return minY < box.Bottom()-e && maxY > box.TopLeft.Y+e
	}
	return RectsIntersect(Rect{Left: minX, Top: minY, Right: maxX, Bottom: maxY}, box.Inflate(-e).Rect())
}

//nolint:unused
func (s Segment) ToString() string {
	return fmt.Sprintf("%v -> %v", s.Start.ToString(), s.End.ToString())
}

func (segment Segment) ToVector() Vector {
	return NewVector(segment.End.X-segment.Start.X, segment.End.Y-segment.Start.Y)
}
