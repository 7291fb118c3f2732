package router

import (
	"fmt"
	"hash/fnv"
	"sort"

	"golang.org/x/exp/slices"
)

// fingerprint identifies a request: endpoints, directions, every obstacle box, the
// excluded ids and the anchors. Obstacle order does not matter.
func fingerprint(req Request) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v,%v,%s|%v,%v,%s|",
		req.Start.Point.X, req.Start.Point.Y, req.Start.Direction,
		req.End.Point.X, req.End.Point.Y, req.End.Direction,
	)

	obs := slices.Clone(req.Obstacles)
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].ID < obs[j].ID
	})
	for _, o := range obs {
		fmt.Fprintf(h, "o%s:%v,%v,%v,%v;", o.ID, o.Box.TopLeft.X, o.Box.TopLeft.Y, o.Box.Width, o.Box.Height)
	}

	exclude := slices.Clone(req.Exclude)
	slices.Sort(exclude)
	for _, id := range exclude {
		fmt.Fprintf(h, "x%s;", id)
	}

	for _, a := range req.Anchors {
		fmt.Fprintf(h, "a%v,%v,%s;", a.Point.X, a.Point.Y, a.Direction)
	}
	return h.Sum64()
}
