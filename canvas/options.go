package canvas

import (
	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/dragging"
	"oss.terrastruct.com/canvas/paths"
	"oss.terrastruct.com/canvas/router"
	"oss.terrastruct.com/canvas/selection"
	"oss.terrastruct.com/canvas/viewport"
)

type Options struct {
	Limits viewport.Limits
	Drag   dragging.Options
	Paths  paths.Options
	Router router.Options

	// ClickThreshold is the pointer travel in screen pixels below which a box selection
	// is a click.
	ClickThreshold float64
	// HitRadius is how close in screen pixels the pointer must be to a connection point
	// or a connector to hit it.
	HitRadius float64
	// Style is given to connectors drawn on the canvas.
	Style diagram.ConnectorStyle
}

func DefaultOptions() Options {
	return Options{
		Limits:         viewport.DefaultLimits(),
		Drag:           dragging.DefaultOptions(),
		Paths:          paths.DefaultOptions(),
		Router:         router.DefaultOptions(),
		ClickThreshold: selection.DefaultClickThreshold,
		HitRadius:      8,
		Style:          diagram.StyleOrthogonal,
	}
}
