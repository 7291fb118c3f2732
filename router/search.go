package router

import (
	"container/heap"
	"math"

	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/paths"
)

// cost orders routes by length, then by number of bends.
type cost struct {
	length float64
	bends  int
}

func (c cost) less(o cost) bool {
	if geo.PrecisionCompare(c.length, o.length, eps) != 0 {
		return c.length < o.length
	}
	return c.bends < o.bends
}

// state is a grid node together with the axis the route arrived on. Indexed as node*3+axis.
type state int

func newState(node int, a axis) state {
	return state(node*3 + int(a))
}

func (s state) node() int {
	return int(s) / 3
}

func (s state) axis() axis {
	return axis(int(s) % 3)
}

type item struct {
	s state
	c cost
}

type queue []item

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].c.less(q[j].c) }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x interface{}) {
	*q = append(*q, x.(item))
}

func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// shortest runs Dijkstra from node from to node to. The route leaves from along startAxis
// and must end along endAxis, so turning onto or off those axes counts as a bend.
func (g *grid) shortest(from, to int, startAxis, endAxis axis) ([]int, error) {
	n := len(g.valid) * 3
	best := make([]cost, n)
	prev := make([]state, n)
	done := make([]bool, n)
	for i := range best {
		best[i] = cost{length: math.Inf(1)}
		prev[i] = -1
	}

	src := newState(from, startAxis)
	best[src] = cost{}
	q := &queue{{s: src}}

	goal := state(-1)
	var goalCost cost
	for q.Len() > 0 {
		it := heap.Pop(q).(item)
		if done[it.s] {
			continue
		}
		done[it.s] = true
		if goal >= 0 && it.c.length > goalCost.length+eps {
			break
		}

		cur := it.s.axis()
		if it.s.node() == to {
			c := it.c
			if cur != axisNone && endAxis != axisNone && cur != endAxis {
				c.bends++
			}
			if goal < 0 || c.less(goalCost) {
				goal, goalCost = it.s, c
			}
			continue
		}

		for d, nb := range g.adj[it.s.node()] {
			if nb < 0 {
				continue
			}
			ea := axisH
			if d == up || d == down {
				ea = axisV
			}
			c := cost{
				length: it.c.length + geo.ManhattanDistance(g.point(it.s.node()), g.point(nb)),
				bends:  it.c.bends,
			}
			if cur != axisNone && cur != ea {
				c.bends++
			}
			ns := newState(nb, ea)
			if done[ns] || !c.less(best[ns]) {
				continue
			}
			best[ns] = c
			prev[ns] = it.s
			heap.Push(q, item{s: ns, c: c})
		}
	}
	if goal < 0 {
		return nil, ErrNoRoute
	}

	var nodes []int
	for s := goal; s >= 0; s = prev[s] {
		nodes = append(nodes, s.node())
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes, nil
}

func (r *Router) search(req Request, withExcluded bool) (geo.Route, error) {
	s1 := stub(req.Start, r.opts.Margin, req.Obstacles)
	s2 := stub(req.End, r.opts.Margin, req.Obstacles)
	blocks := blocking(req, withExcluded)

	g, err := r.buildGrid(req, blocks, s1, s2)
	if err != nil {
		return nil, err
	}
	nodes, err := g.shortest(g.nodeAt(s1), g.nodeAt(s2), axisOf(req.Start.Direction), axisOf(req.End.Direction))
	if err != nil {
		return nil, err
	}

	inner := make(geo.Route, 0, len(nodes))
	for _, n := range nodes {
		inner = append(inner, g.point(n))
	}
	inner = refine(inner, blocks)

	route := make(geo.Route, 0, len(inner)+2)
	route = append(route, req.Start.Point.Copy())
	route = append(route, inner...)
	route = append(route, req.End.Point.Copy())
	return paths.Simplify(route), nil
}
