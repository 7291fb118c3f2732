package router

import (
	"context"
	"math"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/paths"
)

// Resolver turns connectors into paths using the current shape geometry.
type Resolver struct {
	router *Router
	opts   paths.Options
}

func NewResolver(r *Router, opts paths.Options) *Resolver {
	return &Resolver{
		router: r,
		opts:   opts,
	}
}

func (res *Resolver) Router() *Router {
	return res.router
}

// Endpoints resolves both ends of conn. Stored connection points win, missing ones are
// picked with BestConnectionPoints.
func Endpoints(conn *diagram.Connector, src, dst *diagram.Shape) (start, end paths.Endpoint) {
	sd, dd := conn.SourceConnectionPoint, conn.TargetConnectionPoint
	if !sd.Valid() || !dd.Valid() {
		bs, bd := BestConnectionPoints(src, dst)
		if !sd.Valid() {
			start = paths.Endpoint{Point: bs.Resolve(src.Bounds()), Direction: bs.Direction}
		}
		if !dd.Valid() {
			end = paths.Endpoint{Point: bd.Resolve(dst.Bounds()), Direction: bd.Direction}
		}
	}
	if sd.Valid() {
		start = paths.Endpoint{Point: src.PointFor(sd), Direction: sd}
	}
	if dd.Valid() {
		end = paths.Endpoint{Point: dst.PointFor(dd), Direction: dd}
	}
	return start, end
}

// Resolve returns nil when either endpoint shape is missing from shapes.
func (res *Resolver) Resolve(ctx context.Context, conn *diagram.Connector, shapes []*diagram.Shape) *paths.Path {
	return res.resolve(ctx, conn, shapes, index(shapes))
}

// ResolveAll resolves every connector whose shapes exist, keyed by connector id.
func (res *Resolver) ResolveAll(ctx context.Context, conns []*diagram.Connector, shapes []*diagram.Shape) map[string]*paths.Path {
	byID := index(shapes)
	out := make(map[string]*paths.Path, len(conns))
	for _, c := range conns {
		if p := res.resolve(ctx, c, shapes, byID); p != nil {
			out[c.ID] = p
		}
	}
	return out
}

func (res *Resolver) ConnectorBounds(ctx context.Context, conn *diagram.Connector, shapes []*diagram.Shape) *geo.Box {
	return res.Resolve(ctx, conn, shapes).Bounds()
}

func (res *Resolver) resolve(ctx context.Context, conn *diagram.Connector, shapes []*diagram.Shape, byID map[string]*diagram.Shape) *paths.Path {
	src, dst := byID[conn.SourceShapeID], byID[conn.TargetShapeID]
	if src == nil || dst == nil {
		return nil
	}
	start, end := Endpoints(conn, src, dst)

	switch conn.Style {
	case diagram.StyleStraight:
		return paths.Straight(start.Point, end.Point)
	case diagram.StyleCurved:
		return paths.Curved(start, end, res.opts)
	default:
		anchors := append(ShapeAnchors(src), ShapeAnchors(dst)...)
		return res.router.Route(ctx, Request{
			Start:     start,
			End:       end,
			Obstacles: ShapeObstacles(shapes),
			Exclude:   []string{src.ID, dst.ID},
			Anchors:   anchors,
		})
	}
}

// Preview is the path from start to a free cursor position while a connector is drawn.
// The cursor end is treated as entering from the side facing start.
func (res *Resolver) Preview(start paths.Endpoint, cursor *geo.Point, style diagram.ConnectorStyle) *paths.Path {
	end := paths.Endpoint{Point: cursor.Copy(), Direction: facing(start.Point, cursor)}
	switch style {
	case diagram.StyleStraight:
		return paths.Straight(start.Point, cursor)
	case diagram.StyleCurved:
		return paths.Curved(start, end, res.opts)
	default:
		return paths.SimpleOrthogonal(start, end)
	}
}

func facing(from, cursor *geo.Point) geo.Direction {
	dx, dy := cursor.X-from.X, cursor.Y-from.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return geo.West
		}
		return geo.East
	}
	if dy > 0 {
		return geo.North
	}
	return geo.South
}

func index(shapes []*diagram.Shape) map[string]*diagram.Shape {
	m := make(map[string]*diagram.Shape, len(shapes))
	for _, s := range shapes {
		m[s.ID] = s
	}
	return m
}
