package geo

// How precise should comparisons be, avoid being too precise due to floating point issues
const PRECISION = 0.0001

type bezierPoint struct {
	X, Y float64
}

type bezierControlPoint struct {
	Point, Control bezierPoint
}

type bezierCurveImpl []bezierControlPoint

// newBezierCurveImpl creates a new bezier curve from control points
// Implementation based on Robert D. Miller's algorithm from Graphics Gems 5
func newBezierCurveImpl(cp ...bezierPoint) bezierCurveImpl {
	if len(cp) == 0 {
		return nil
	}
	c := make(bezierCurveImpl, len(cp))
	for i, p := range cp {
		c[i].Point = p
	}

	var w float64
	for i, p := range c {
		switch i {
		case 0:
			w = 1
		case 1:
			w = float64(len(c)) - 1
		default:
			w *= float64(len(c)-i) / float64(i)
		}
		c[i].Control.X = p.Point.X * w
		c[i].Control.Y = p.Point.Y * w
	}

	return c
}

// pointAt returns the point at t along the curve, where 0 ≤ t ≤ 1
func (c bezierCurveImpl) pointAt(t float64) bezierPoint {
	c[0].Point = c[0].Control
	u := t
	for i, p := range c[1:] {
		c[i+1].Point = bezierPoint{
			X: p.Control.X * u,
			Y: p.Control.Y * u,
		}
		u *= t
	}

	var (
		t1 = 1 - t
		tt = t1
	)
	p := c[len(c)-1].Point
	for i := len(c) - 2; i >= 0; i-- {
		p.X += c[i].Point.X * tt
		p.Y += c[i].Point.Y * tt
		tt *= t1
	}

	return p
}

type BezierCurve struct {
	curve  bezierCurveImpl
	points []*Point
}

func NewBezierCurve(points []*Point) *BezierCurve {
	localPoints := make([]bezierPoint, len(points))
	for i := 0; i < len(points); i++ {
		localPoints[i] = bezierPoint{
			X: points[i].X,
			Y: points[i].Y,
		}
	}
	return &BezierCurve{
		curve:  newBezierCurveImpl(localPoints...),
		points: points,
	}
}

func (bc BezierCurve) At(point float64) *Point {
	curvePoint := bc.curve.pointAt(point)
	return NewPoint(curvePoint.X, curvePoint.Y)
}

// Sample evaluates the curve at n+1 evenly spaced parameters t = i/n.
func (bc BezierCurve) Sample(n int) Route {
	if n < 1 {
		n = 1
	}
	route := make(Route, 0, n+1)
	for i := 0; i <= n; i++ {
		route = append(route, bc.At(float64(i)/float64(n)))
	}
	return route
}
