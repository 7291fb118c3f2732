package router

import (
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/paths"
)

// refine merges collinear runs, then replaces every sub-path it can by a straight segment
// or a single bend that stays clear of blocks. A monotone replacement is never longer than
// the orthogonal sub-path it replaces.
func refine(route geo.Route, blocks []*geo.Box) geo.Route {
	route = paths.Simplify(route)
	for i := 0; i < len(route)-2; i++ {
		for j := len(route) - 1; j > i+1; j-- {
			corner, ok := shortcut(route[i], route[j], blocks)
			if !ok {
				continue
			}
			next := make(geo.Route, 0, len(route))
			next = append(next, route[:i+1]...)
			next = append(next, corner...)
			route = append(next, route[j:]...)
			break
		}
	}
	return paths.Simplify(route)
}

func shortcut(a, b *geo.Point, blocks []*geo.Box) (geo.Route, bool) {
	if geo.PrecisionCompare(a.X, b.X, eps) == 0 || geo.PrecisionCompare(a.Y, b.Y, eps) == 0 {
		return nil, !obstructed(blocks, a, b)
	}
	for _, c := range []*geo.Point{geo.NewPoint(b.X, a.Y), geo.NewPoint(a.X, b.Y)} {
		if !obstructed(blocks, a, c) && !obstructed(blocks, c, b) {
			return geo.Route{c}, true
		}
	}
	return nil, false
}
