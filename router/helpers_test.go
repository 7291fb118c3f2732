package router

import (
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/paths"
)

func pathsOptions() paths.Options {
	return paths.DefaultOptions()
}

func endpoint(x, y float64, d geo.Direction) paths.Endpoint {
	return paths.NewEndpoint(x, y, d)
}
