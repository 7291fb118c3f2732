package router

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/slices"

	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/paths"
)

const eps = geo.PRECISION

type axis int8

const (
	axisNone axis = iota
	axisH
	axisV
)

func axisOf(d geo.Direction) axis {
	switch {
	case d.IsHorizontal():
		return axisH
	case d.IsVertical():
		return axisV
	default:
		return axisNone
	}
}

const (
	left = iota
	right
	up
	down
)

// grid is the visibility graph. Node n sits at (xs[n%len(xs)], ys[n/len(xs)]).
type grid struct {
	xs    []float64
	ys    []float64
	valid []bool
	adj   [][4]int
}

// stub is where a route leaves or enters e, margin away along its direction. When an
// obstacle sits closer than that, the stub stops halfway to it.
func stub(e paths.Endpoint, margin float64, obstacles []Obstacle) *geo.Point {
	l := margin
	if gap := clearance(e, obstacles); gap > eps && gap < margin {
		l = gap / 2
	}
	return e.Point.AddVector(e.Direction.Unit().Multiply(l))
}

// clearance is how far e can travel along its direction before entering an obstacle.
func clearance(e paths.Endpoint, obstacles []Obstacle) float64 {
	p := e.Point
	gap := math.Inf(1)
	for _, o := range obstacles {
		b := o.Box
		var d float64
		switch e.Direction {
		case geo.East:
			if !within(p.Y, b.TopLeft.Y, b.Bottom()) {
				continue
			}
			d = b.TopLeft.X - p.X
		case geo.West:
			if !within(p.Y, b.TopLeft.Y, b.Bottom()) {
				continue
			}
			d = p.X - b.Right()
		case geo.South:
			if !within(p.X, b.TopLeft.X, b.Right()) {
				continue
			}
			d = b.TopLeft.Y - p.Y
		case geo.North:
			if !within(p.X, b.TopLeft.X, b.Right()) {
				continue
			}
			d = p.Y - b.Bottom()
		default:
			continue
		}
		// behind e, which includes the shape e sits on
		if d < -eps {
			continue
		}
		gap = math.Min(gap, d)
	}
	return gap
}

func within(v, lo, hi float64) bool {
	return lo+eps < v && v < hi-eps
}

func blocking(req Request, withExcluded bool) []*geo.Box {
	out := make([]*geo.Box, 0, len(req.Obstacles))
	for _, o := range req.Obstacles {
		if !withExcluded && slices.Contains(req.Exclude, o.ID) {
			continue
		}
		out = append(out, o.Box)
	}
	return out
}

func (r *Router) buildGrid(req Request, blocks []*geo.Box, stubs ...*geo.Point) (*grid, error) {
	m := r.opts.Margin

	var xs, ys []float64
	for _, o := range req.Obstacles {
		ib := o.Box.Inflate(m)
		xs = append(xs, ib.TopLeft.X, ib.Right())
		ys = append(ys, ib.TopLeft.Y, ib.Bottom())
	}
	for _, p := range stubs {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	// Anchor lines sit margin out from their shape so routes keep clear of the outline.
	for _, a := range req.Anchors {
		p := stub(a, m, nil)
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	minX, maxX := extent(xs, req.Start.Point.X, req.End.Point.X)
	minY, maxY := extent(ys, req.Start.Point.Y, req.End.Point.Y)
	xs = uniqLines(append(xs, minX-m, maxX+m))
	ys = uniqLines(append(ys, minY-m, maxY+m))

	n := len(xs) * len(ys)
	if n > r.opts.MaxGridNodes {
		return nil, fmt.Errorf("%w: %d grid nodes, limit is %d", ErrSearchBudget, n, r.opts.MaxGridNodes)
	}

	g := &grid{
		xs:    xs,
		ys:    ys,
		valid: make([]bool, n),
		adj:   make([][4]int, n),
	}
	for yi, y := range ys {
		for xi, x := range xs {
			g.valid[g.index(xi, yi)] = !insideAny(blocks, x, y)
		}
	}
	// Stubs stay in the graph even when another obstacle covers them so the search can
	// report that no route exists.
	for _, p := range stubs {
		g.valid[g.nodeAt(p)] = true
	}
	for i := range g.adj {
		g.adj[i] = [4]int{-1, -1, -1, -1}
	}

	for yi, y := range ys {
		row := crossingBlocks(blocks, func(b *geo.Box) (float64, float64) { return b.TopLeft.Y, b.Bottom() }, y)
		prev := -1
		for xi := range xs {
			n := g.index(xi, yi)
			if !g.valid[n] {
				continue
			}
			if prev >= 0 && !obstructed(row, g.point(prev), g.point(n)) {
				g.adj[prev][right] = n
				g.adj[n][left] = prev
			}
			prev = n
		}
	}
	for xi, x := range xs {
		col := crossingBlocks(blocks, func(b *geo.Box) (float64, float64) { return b.TopLeft.X, b.Right() }, x)
		prev := -1
		for yi := range ys {
			n := g.index(xi, yi)
			if !g.valid[n] {
				continue
			}
			if prev >= 0 && !obstructed(col, g.point(prev), g.point(n)) {
				g.adj[prev][down] = n
				g.adj[n][up] = prev
			}
			prev = n
		}
	}
	return g, nil
}

func (g *grid) index(xi, yi int) int {
	return yi*len(g.xs) + xi
}

func (g *grid) point(n int) *geo.Point {
	return geo.NewPoint(g.xs[n%len(g.xs)], g.ys[n/len(g.xs)])
}

func (g *grid) nodeAt(p *geo.Point) int {
	return g.index(lineIndex(g.xs, p.X), lineIndex(g.ys, p.Y))
}

func extent(vs []float64, more ...float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range append(slices.Clone(vs), more...) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// uniqLines sorts vs and merges values closer than eps.
func uniqLines(vs []float64) []float64 {
	slices.Sort(vs)
	out := vs[:0]
	for _, v := range vs {
		if len(out) > 0 && geo.PrecisionCompare(out[len(out)-1], v, eps) == 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func lineIndex(lines []float64, v float64) int {
	i := sort.SearchFloat64s(lines, v-eps)
	if i < len(lines) && geo.PrecisionCompare(lines[i], v, eps) == 0 {
		return i
	}
	return -1
}

func insideAny(blocks []*geo.Box, x, y float64) bool {
	p := geo.Point{X: x, Y: y}
	for _, b := range blocks {
		if b.ContainsStrict(&p, eps) {
			return true
		}
	}
	return false
}

// crossingBlocks keeps the boxes whose interior spans v on the axis span returns.
func crossingBlocks(blocks []*geo.Box, span func(*geo.Box) (float64, float64), v float64) []*geo.Box {
	var out []*geo.Box
	for _, b := range blocks {
		lo, hi := span(b)
		if lo+eps < v && v < hi-eps {
			out = append(out, b)
		}
	}
	return out
}

func obstructed(blocks []*geo.Box, a, b *geo.Point) bool {
	seg := geo.NewSegment(a, b)
	for _, box := range blocks {
		if seg.CrossesInterior(box, eps) {
			return true
		}
	}
	return false
}
