package geo

import (
	"math"
)

type Route []*Point

func (route Route) Length() float64 {
	l := 0.
	for i := 0; i < len(route)-1; i++ {
		l += EuclideanDistance(
			route[i].X, route[i].Y,
			route[i+1].X, route[i+1].Y,
		)
	}
	return l
}

// return the point at _distance_ along the route, and the index of the segment it's on
func (route Route) GetPointAtDistance(distance float64) (*Point, int) {
	remaining := distance
	for i := 0; i < len(route)-1; i++ {
		curr, next := route[i], route[i+1]
		length := EuclideanDistance(curr.X, curr.Y, next.X, next.Y)

		if remaining <= length {
			if length == 0 {
				return curr.Copy(), i
			}
			t := remaining / length
			// point t% of the way between curr and next
			return NewPoint(
				curr.X*(1.0-t)+next.X*t,
				curr.Y*(1.0-t)+next.Y*t,
			), i
		}
		remaining -= length
	}

	return nil, -1
}

// Midpoint is the point halfway along the route, which is where connector labels sit.
// For curves it differs from the average of the endpoints.
func (route Route) Midpoint() *Point {
	switch len(route) {
	case 0:
		return nil
	case 1:
		return route[0].Copy()
	}
	p, _ := route.GetPointAtDistance(route.Length() / 2)
	if p == nil {
		return route[len(route)-1].Copy()
	}
	return p
}

func (route Route) GetBoundingBox() (tl, br *Point) {
	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)

	for _, p := range route {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return NewPoint(minX, minY), NewPoint(maxX, maxY)
}

func (route Route) Box() *Box {
	if len(route) == 0 {
		return nil
	}
	tl, br := route.GetBoundingBox()
	return NewBox(tl, br.X-tl.X, br.Y-tl.Y)
}

// DistanceTo is the shortest distance from p to any segment of the route.
func (route Route) DistanceTo(p *Point) float64 {
	if len(route) == 1 {
		return Distance(p, route[0])
	}
	d := math.Inf(1)
	for i := 0; i < len(route)-1; i++ {
		d = math.Min(d, p.DistanceToLine(route[i], route[i+1]))
	}
	return d
}

func (route Route) Copy() Route {
	out := make(Route, 0, len(route))
	for _, p := range route {
		out = append(out, p.Copy())
	}
	return out
}
