// Package viewport converts between screen and canvas coordinates.
//
// A canvas point c is drawn at screen point s = c*Zoom + Pan. Every function here is pure:
// it returns new values for the caller to apply.
package viewport

import (
	"math"

	"golang.org/x/exp/constraints"

	"oss.terrastruct.com/canvas/lib/geo"
)

type Viewport struct {
	Zoom float64 `json:"zoom" yaml:"zoom"`
	PanX float64 `json:"panX" yaml:"panX"`
	PanY float64 `json:"panY" yaml:"panY"`
}

func Default() Viewport {
	return Viewport{Zoom: 1}
}

func (v Viewport) ScreenToCanvas(sx, sy float64) (x, y float64) {
	return (sx - v.PanX) / v.Zoom, (sy - v.PanY) / v.Zoom
}

func (v Viewport) CanvasToScreen(x, y float64) (sx, sy float64) {
	return x*v.Zoom + v.PanX, y*v.Zoom + v.PanY
}

func (v Viewport) ScreenToCanvasPoint(p *geo.Point) *geo.Point {
	return geo.NewPoint(v.ScreenToCanvas(p.X, p.Y))
}

// ScreenRectToCanvas converts a normalized screen rectangle.
func (v Viewport) ScreenRectToCanvas(r geo.Rect) geo.Rect {
	left, top := v.ScreenToCanvas(r.Left, r.Top)
	right, bottom := v.ScreenToCanvas(r.Right, r.Bottom)
	return geo.NormalizeRect(left, top, right, bottom)
}

// ZoomToPoint returns the pan that keeps the canvas point under screen point (cx, cy) fixed
// when the zoom changes to newZoom.
func (v Viewport) ZoomToPoint(cx, cy, newZoom float64) (panX, panY float64) {
	ratio := newZoom / v.Zoom
	panX = cx - (cx-v.PanX)*ratio
	panY = cy - (cy-v.PanY)*ratio
	return panX, panY
}

// ZoomedAt is ZoomToPoint applied.
func (v Viewport) ZoomedAt(cx, cy, newZoom float64) Viewport {
	panX, panY := v.ZoomToPoint(cx, cy, newZoom)
	return Viewport{Zoom: newZoom, PanX: panX, PanY: panY}
}

func (v Viewport) Panned(dx, dy float64) Viewport {
	return Viewport{Zoom: v.Zoom, PanX: v.PanX + dx, PanY: v.PanY + dy}
}

// Limits bounds the zoom factor.
type Limits struct {
	MinZoom float64 `json:"minZoom"`
	MaxZoom float64 `json:"maxZoom"`
	// WheelSensitivity is the zoom change per wheel delta unit.
	WheelSensitivity float64 `json:"wheelSensitivity"`
	// Step is the zoom factor applied by the keyboard zoom shortcuts.
	Step float64 `json:"step"`
}

func DefaultLimits() Limits {
	return Limits{
		MinZoom:          0.1,
		MaxZoom:          5,
		WheelSensitivity: 0.001,
		Step:             1.2,
	}
}

func clamp[T constraints.Float](v, min, max T) T {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (l Limits) ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return l.MinZoom
	}
	return clamp(z, l.MinZoom, l.MaxZoom)
}

// ZoomFromWheel returns the zoom after a wheel event. Negative deltaY zooms in.
func (l Limits) ZoomFromWheel(currentZoom, deltaY float64) float64 {
	return l.ClampZoom(currentZoom * (1 - deltaY*l.WheelSensitivity))
}

// Fit returns the viewport that centers box in a screen of width by height with padding on
// every side. The zoom is clamped to l, so a tiny box is not blown up past MaxZoom.
func Fit(box *geo.Box, width, height, padding float64, l Limits) Viewport {
	if box == nil || width <= 0 || height <= 0 {
		return Default()
	}
	availW := math.Max(width-2*padding, 1)
	availH := math.Max(height-2*padding, 1)

	zoom := 1.
	if box.Width > 0 && box.Height > 0 {
		zoom = math.Min(availW/box.Width, availH/box.Height)
	} else if box.Width > 0 {
		zoom = availW / box.Width
	} else if box.Height > 0 {
		zoom = availH / box.Height
	}
	zoom = l.ClampZoom(zoom)

	center := box.Center()
	return Viewport{
		Zoom: zoom,
		PanX: width/2 - center.X*zoom,
		PanY: height/2 - center.Y*zoom,
	}
}
