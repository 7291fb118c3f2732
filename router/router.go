// Package router computes obstacle-avoiding orthogonal connector routes.
//
// The router lays corridor lines along the inflated edges of every obstacle, through the
// stub points that leave each endpoint along its direction and through the connection
// points of the endpoint shapes. Grid nodes sit on corridor intersections outside every
// obstacle. A Dijkstra search over (node, axis) states finds the shortest route, then the
// fewest bends, and a refinement pass straightens what it can.
//
// Routing never fails from the caller's point of view: when no route exists within the
// search budget the simple orthogonal path is returned instead.
package router

import (
	"context"
	"errors"
	"sync"

	"cdr.dev/slog"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/lib/log"
	"oss.terrastruct.com/canvas/paths"
)

var (
	ErrNoRoute      = errors.New("no orthogonal route")
	ErrSearchBudget = errors.New("route search budget exceeded")
)

type Obstacle struct {
	ID  string   `json:"id"`
	Box *geo.Box `json:"box"`
}

func ShapeObstacles(shapes []*diagram.Shape) []Obstacle {
	obs := make([]Obstacle, 0, len(shapes))
	for _, s := range shapes {
		obs = append(obs, Obstacle{ID: s.ID, Box: s.Bounds()})
	}
	return obs
}

type Request struct {
	Start paths.Endpoint
	End   paths.Endpoint

	Obstacles []Obstacle
	// Exclude lists the ids of the connector's own shapes. They still block the route
	// unless no route exists around them.
	Exclude []string
	// Anchors adds corridor lines through the point Margin out from each anchor, normally
	// every connection point of both endpoint shapes.
	Anchors []paths.Endpoint
}

type Options struct {
	// Margin is the stub length and the distance corridor lines keep from obstacle edges.
	Margin float64 `json:"margin"`
	// MaxGridNodes bounds the search. Larger grids fail with ErrSearchBudget.
	MaxGridNodes int `json:"maxGridNodes"`
}

func DefaultOptions() Options {
	return Options{
		Margin:       20,
		MaxGridNodes: 160000,
	}
}

type Router struct {
	opts Options

	mu    sync.Mutex
	cache map[uint64]*paths.Path
}

// New fills a zero Margin or MaxGridNodes from DefaultOptions.
func New(opts Options) *Router {
	if opts.Margin <= 0 {
		opts.Margin = DefaultOptions().Margin
	}
	if opts.MaxGridNodes <= 0 {
		opts.MaxGridNodes = DefaultOptions().MaxGridNodes
	}
	return &Router{
		opts:  opts,
		cache: make(map[uint64]*paths.Path),
	}
}

func (r *Router) Options() Options {
	return r.opts
}

// Route returns the orthogonal path for req. Results are cached by the request
// fingerprint, so callers must treat the returned path as read-only.
func (r *Router) Route(ctx context.Context, req Request) *paths.Path {
	key := fingerprint(req)

	r.mu.Lock()
	p, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return p
	}

	route, err := r.search(req, true)
	if errors.Is(err, ErrNoRoute) && len(req.Exclude) > 0 {
		log.Debug(ctx, "no route around endpoint shapes, retrying through them", slog.F("exclude", req.Exclude))
		route, err = r.search(req, false)
	}
	if err != nil {
		log.Warn(ctx, "orthogonal routing failed, using simple path",
			slog.F("err", err),
			slog.F("start", req.Start.Point.ToString()),
			slog.F("end", req.End.Point.ToString()),
		)
		p = paths.SimpleOrthogonal(req.Start, req.End)
	} else {
		p = paths.NewPolyline(route, diagram.StyleOrthogonal)
	}

	r.mu.Lock()
	r.cache[key] = p
	r.mu.Unlock()
	return p
}

// Len is the number of cached routes.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Router) Reset() {
	r.mu.Lock()
	r.cache = make(map[uint64]*paths.Path)
	r.mu.Unlock()
}
