package geo

import "math"

// Rect is an axis-aligned rectangle stored by its edges.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NormalizeRect orders the corners of a rectangle dragged from (x1, y1) to (x2, y2) in any
// of the four diagonal directions.
func NormalizeRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		Left:   math.Min(x1, x2),
		Top:    math.Min(y1, y2),
		Right:  math.Max(x1, x2),
		Bottom: math.Max(y1, y2),
	}
}

// RectsIntersect is the AABB overlap test. Rectangles that only touch do not intersect.
func RectsIntersect(a, b Rect) bool {
	return a.Left < b.Right &&
		a.Right > b.Left &&
		a.Top < b.Bottom &&
		a.Bottom > b.Top
}

func (r Rect) Width() float64 {
	return r.Right - r.Left
}

func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

func (r Rect) Box() *Box {
	return NewBox(NewPoint(r.Left, r.Top), r.Width(), r.Height())
}

func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}
