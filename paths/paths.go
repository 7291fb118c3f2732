// Package paths builds connector paths that ignore obstacles: straight lines, cubic curves
// and the simple orthogonal path the router falls back to.
package paths

import (
	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/lib/svg"
)

// Endpoint is a connector end: where it touches the shape and which way it leaves it.
type Endpoint struct {
	Point     *geo.Point    `json:"point"`
	Direction geo.Direction `json:"direction"`
}

func NewEndpoint(x, y float64, d geo.Direction) Endpoint {
	return Endpoint{Point: geo.NewPoint(x, y), Direction: d}
}

// Path is a computed connector geometry. Points always holds the polyline approximation,
// D the SVG path data to draw.
type Path struct {
	Points geo.Route              `json:"points"`
	D      string                 `json:"d"`
	Style  diagram.ConnectorStyle `json:"style"`
}

// Midpoint is where the connector label goes.
func (p *Path) Midpoint() *geo.Point {
	if p == nil {
		return nil
	}
	return p.Points.Midpoint()
}

// Bounds covers every point of the path, not only its endpoints.
func (p *Path) Bounds() *geo.Box {
	if p == nil {
		return nil
	}
	return p.Points.Box()
}

type Options struct {
	CurveOffset  float64 `json:"curveOffset"`
	CurveSamples int     `json:"curveSamples"`
}

func DefaultOptions() Options {
	return Options{
		CurveOffset:  50,
		CurveSamples: 20,
	}
}

func NewPolyline(route geo.Route, style diagram.ConnectorStyle) *Path {
	return &Path{
		Points: route,
		D:      svg.Polyline(route),
		Style:  style,
	}
}

func Straight(start, end *geo.Point) *Path {
	return NewPolyline(geo.Route{start.Copy(), end.Copy()}, diagram.StyleStraight)
}

// Curved builds a cubic Bezier whose control points sit CurveOffset away from each
// endpoint in the direction it leaves its shape.
func Curved(start, end Endpoint, opts Options) *Path {
	if opts.CurveOffset <= 0 {
		opts.CurveOffset = DefaultOptions().CurveOffset
	}
	if opts.CurveSamples <= 0 {
		opts.CurveSamples = DefaultOptions().CurveSamples
	}
	c1 := start.Point.AddVector(start.Direction.Unit().Multiply(opts.CurveOffset))
	c2 := end.Point.AddVector(end.Direction.Unit().Multiply(opts.CurveOffset))

	pc := svg.NewPathContext()
	pc.StartAt(start.Point)
	pc.C(c1, c2, end.Point)

	bc := geo.NewBezierCurve([]*geo.Point{start.Point, c1, c2, end.Point})
	return &Path{
		Points: bc.Sample(opts.CurveSamples),
		D:      pc.PathData(),
		Style:  diagram.StyleCurved,
	}
}

// SimpleOrthogonal routes without looking at obstacles. Two vertical ends meet through the
// middle Y, two horizontal ends through the middle X. Mixed ends take a single bend on the
// axis of the vertical end.
func SimpleOrthogonal(start, end Endpoint) *Path {
	s, e := start.Point, end.Point
	route := geo.Route{s.Copy()}
	switch {
	case start.Direction.IsVertical() && end.Direction.IsVertical():
		midY := (s.Y + e.Y) / 2
		route = append(route, geo.NewPoint(s.X, midY), geo.NewPoint(e.X, midY))
	case start.Direction.IsHorizontal() && end.Direction.IsHorizontal():
		midX := (s.X + e.X) / 2
		route = append(route, geo.NewPoint(midX, s.Y), geo.NewPoint(midX, e.Y))
	case start.Direction.IsVertical():
		route = append(route, geo.NewPoint(s.X, e.Y))
	default:
		route = append(route, geo.NewPoint(e.X, s.Y))
	}
	route = append(route, e.Copy())
	return NewPolyline(Simplify(route), diagram.StyleOrthogonal)
}

// Simplify drops repeated points and interior points that lie on a straight run.
func Simplify(route geo.Route) geo.Route {
	if len(route) < 2 {
		return route
	}
	dedup := geo.Route{route[0]}
	for _, p := range route[1:] {
		if !p.ApproxEquals(dedup[len(dedup)-1], geo.PRECISION) {
			dedup = append(dedup, p)
		}
	}
	if len(dedup) < 3 {
		return dedup
	}
	out := geo.Route{dedup[0]}
	for i := 1; i < len(dedup)-1; i++ {
		if collinear(out[len(out)-1], dedup[i], dedup[i+1]) {
			continue
		}
		out = append(out, dedup[i])
	}
	return append(out, dedup[len(dedup)-1])
}

func collinear(a, b, c *geo.Point) bool {
	sameX := geo.PrecisionCompare(a.X, b.X, geo.PRECISION) == 0 && geo.PrecisionCompare(b.X, c.X, geo.PRECISION) == 0
	sameY := geo.PrecisionCompare(a.Y, b.Y, geo.PRECISION) == 0 && geo.PrecisionCompare(b.Y, c.Y, geo.PRECISION) == 0
	return sameX || sameY
}
