package router

import (
	"math"

	"golang.org/x/exp/slices"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/paths"
)

// facingAwayPenalty is added once per connection point that faces away from the other
// shape's center.
const facingAwayPenalty = 10000

var directionOrder = map[geo.Direction]int{
	geo.North: 0,
	geo.East:  1,
	geo.South: 2,
	geo.West:  3,
}

// BestConnectionPoints picks the pair of connection points, one on src and one on dst,
// with the lowest distance plus penalties for facing away. Ties go to the earlier pair in
// N, E, S, W order.
func BestConnectionPoints(src, dst *diagram.Shape) (diagram.ConnectionPoint, diagram.ConnectionPoint) {
	srcPoints := orderedPoints(src)
	dstPoints := orderedPoints(dst)
	srcBox, dstBox := src.Bounds(), dst.Bounds()
	srcCenter, dstCenter := srcBox.Center(), dstBox.Center()
	self := src.ID == dst.ID

	var bestSrc, bestDst diagram.ConnectionPoint
	bestScore := math.Inf(1)
	for _, sp := range srcPoints {
		p := sp.Resolve(srcBox)
		for _, dp := range dstPoints {
			if self && sp.Direction == dp.Direction {
				continue
			}
			q := dp.Resolve(dstBox)
			score := geo.Distance(p, q)
			if facesAway(sp.Direction, p, dstCenter) {
				score += facingAwayPenalty
			}
			if facesAway(dp.Direction, q, srcCenter) {
				score += facingAwayPenalty
			}
			if score < bestScore {
				bestScore = score
				bestSrc, bestDst = sp, dp
			}
		}
	}
	return bestSrc, bestDst
}

func facesAway(d geo.Direction, from, target *geo.Point) bool {
	return d.Unit().Dot(from.VectorTo(target)) < 0
}

// orderedPoints sorts by side and keeps declaration order within a side.
func orderedPoints(s *diagram.Shape) []diagram.ConnectionPoint {
	cps := slices.Clone(s.Points())
	slices.SortStableFunc(cps, func(a, b diagram.ConnectionPoint) bool {
		return directionOrder[a.Direction] < directionOrder[b.Direction]
	})
	return cps
}

// ShapeAnchors resolves every connection point of s with the direction it faces.
func ShapeAnchors(s *diagram.Shape) []paths.Endpoint {
	cps := s.Points()
	out := make([]paths.Endpoint, 0, len(cps))
	b := s.Bounds()
	for _, cp := range cps {
		out = append(out, paths.Endpoint{Point: cp.Resolve(b), Direction: cp.Direction})
	}
	return out
}
