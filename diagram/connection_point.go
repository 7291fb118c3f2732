package diagram

import (
	"oss.terrastruct.com/canvas/lib/geo"
)

// ConnectionPoint is an anchor on a side of a shape. Position is the fraction along the
// side, left to right for N and S, top to bottom for E and W.
type ConnectionPoint struct {
	ID        string        `json:"id" yaml:"id"`
	Direction geo.Direction `json:"direction" yaml:"direction"`
	Position  float64       `json:"position" yaml:"position"`
}

func DefaultConnectionPoints() []ConnectionPoint {
	cps := make([]ConnectionPoint, 0, len(geo.Directions))
	for _, d := range geo.Directions {
		cps = append(cps, ConnectionPoint{
			ID:        string(d),
			Direction: d,
			Position:  0.5,
		})
	}
	return cps
}

func (s *Shape) Points() []ConnectionPoint {
	if len(s.ConnectionPoints) > 0 {
		return s.ConnectionPoints
	}
	return DefaultConnectionPoints()
}

// Resolve returns the canvas coordinates of cp on a shape with the given bounds.
func (cp ConnectionPoint) Resolve(b *geo.Box) *geo.Point {
	pos := cp.Position
	switch cp.Direction {
	case geo.North:
		return geo.NewPoint(b.TopLeft.X+b.Width*pos, b.TopLeft.Y)
	case geo.South:
		return geo.NewPoint(b.TopLeft.X+b.Width*pos, b.Bottom())
	case geo.East:
		return geo.NewPoint(b.Right(), b.TopLeft.Y+b.Height*pos)
	case geo.West:
		return geo.NewPoint(b.TopLeft.X, b.TopLeft.Y+b.Height*pos)
	default:
		return b.Center()
	}
}

// PointFor resolves the connection point on side d. When the shape declares several points
// on that side the first is used. Missing shapes resolve to nil.
func (s *Shape) PointFor(d geo.Direction) *geo.Point {
	if s == nil {
		return nil
	}
	for _, cp := range s.Points() {
		if cp.Direction == d {
			return cp.Resolve(s.Bounds())
		}
	}
	return ConnectionPoint{Direction: d, Position: 0.5}.Resolve(s.Bounds())
}
