package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/canvas/lib/geo"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	viewports := []Viewport{
		Default(),
		{Zoom: 2, PanX: 100, PanY: -40},
		{Zoom: 0.37, PanX: -1234.5, PanY: 987.25},
		{Zoom: 5, PanX: 0.5, PanY: 0.25},
	}
	points := [][2]float64{{0, 0}, {10, 20}, {-300, 450.5}, {1920, 1080}}
	for _, v := range viewports {
		for _, p := range points {
			x, y := v.ScreenToCanvas(p[0], p[1])
			sx, sy := v.CanvasToScreen(x, y)
			assert.InDelta(t, p[0], sx, 1e-9)
			assert.InDelta(t, p[1], sy, 1e-9)
		}
	}
}

func TestScreenToCanvas(t *testing.T) {
	t.Parallel()

	v := Viewport{Zoom: 2, PanX: 100, PanY: 50}
	x, y := v.ScreenToCanvas(300, 250)
	assert.Equal(t, 100., x)
	assert.Equal(t, 100., y)

	r := v.ScreenRectToCanvas(geo.Rect{Left: 100, Top: 50, Right: 300, Bottom: 250})
	assert.Equal(t, geo.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}, r)
}

func TestZoomToPoint(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		v       Viewport
		cx, cy  float64
		newZoom float64
	}{
		{"in from identity", Default(), 400, 300, 2},
		{"out with pan", Viewport{Zoom: 2, PanX: -50, PanY: 120}, 10, 700, 0.5},
		{"same zoom", Viewport{Zoom: 1.5, PanX: 3, PanY: 4}, 100, 100, 1.5},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			beforeX, beforeY := tc.v.ScreenToCanvas(tc.cx, tc.cy)
			after := tc.v.ZoomedAt(tc.cx, tc.cy, tc.newZoom)
			afterX, afterY := after.ScreenToCanvas(tc.cx, tc.cy)
			assert.InDelta(t, beforeX, afterX, 1e-9)
			assert.InDelta(t, beforeY, afterY, 1e-9)
			assert.Equal(t, tc.newZoom, after.Zoom)
		})
	}
}

func TestZoomFromWheel(t *testing.T) {
	t.Parallel()

	l := DefaultLimits()
	assert.InDelta(t, 1.1, l.ZoomFromWheel(1, -100), 1e-9)
	assert.InDelta(t, 0.9, l.ZoomFromWheel(1, 100), 1e-9)
	assert.Equal(t, 5., l.ZoomFromWheel(4.9, -1000))
	assert.Equal(t, 0.1, l.ZoomFromWheel(0.11, 5000))
}

func TestFit(t *testing.T) {
	t.Parallel()

	l := DefaultLimits()
	v := Fit(geo.NewBox(geo.NewPoint(0, 0), 400, 200), 1000, 1000, 100, l)
	assert.Equal(t, 2., v.Zoom)
	sx, sy := v.CanvasToScreen(200, 100)
	assert.Equal(t, 500., sx)
	assert.Equal(t, 500., sy)

	tiny := Fit(geo.NewBox(geo.NewPoint(10, 10), 1, 1), 1000, 1000, 0, l)
	assert.Equal(t, 5., tiny.Zoom)

	assert.Equal(t, Default(), Fit(nil, 100, 100, 0, l))
}
