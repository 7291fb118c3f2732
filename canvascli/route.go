package canvascli

import (
	"context"
	"encoding/json"

	"oss.terrastruct.com/util-go/xdefer"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/canvas/canvas"
	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/scene"
)

type routeJSON struct {
	Style    diagram.ConnectorStyle `json:"style"`
	D        string                 `json:"d"`
	Points   geo.Route              `json:"points"`
	Midpoint *geo.Point             `json:"midpoint"`
}

func routeCmd(ms *xmain.State, opts canvas.Options, args []string) (*job, error) {
	if len(args) == 0 {
		return nil, xmain.UsageErrorf("route must be passed a scene file")
	}
	if len(args) > 2 {
		return nil, xmain.UsageErrorf("too many arguments passed to route")
	}
	scenePath := absPath(ms, args[0])
	outputPath := "-"
	if len(args) == 2 {
		outputPath = absPath(ms, args[1])
	}

	return &job{
		inputs: []string{scenePath},
		run: func(ctx context.Context) error {
			return route(ctx, ms, opts, scenePath, outputPath)
		},
	}, nil
}

func route(ctx context.Context, ms *xmain.State, opts canvas.Options, scenePath, outputPath string) (err error) {
	defer xdefer.Errorf(&err, "failed to route %s", ms.HumanPath(scenePath))

	s, err := readScene(ms, scenePath)
	if err != nil {
		return err
	}
	c := canvas.New(scenePath, scene.NewStore(s), &scene.Executor{}, opts)

	resolved := c.ConnectorPaths(ctx)
	out := make(map[string]routeJSON, len(resolved))
	for id, p := range resolved {
		out[id] = routeJSON{
			Style:    p.Style,
			D:        p.D,
			Points:   p.Points,
			Midpoint: p.Midpoint(),
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	err = writeOutput(ms, outputPath, b)
	if err != nil {
		return err
	}
	if outputPath != "-" {
		ms.Log.Success.Printf("routed %d connectors of %s to %s", len(out), ms.HumanPath(scenePath), ms.HumanPath(outputPath))
	}
	return nil
}

func readScene(ms *xmain.State, p string) (*scene.Scene, error) {
	b, err := ms.ReadPath(p)
	if err != nil {
		return nil, err
	}
	return scene.Parse(b)
}
