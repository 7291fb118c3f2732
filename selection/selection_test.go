package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/viewport"
)

func shapes() []*diagram.Shape {
	return []*diagram.Shape{
		{ID: "a", X: 0, Y: 0, Width: 100, Height: 100},
		{ID: "b", X: 150, Y: 0, Width: 100, Height: 100},
		{ID: "c", X: 400, Y: 400, Width: 50, Height: 50},
	}
}

func TestFinishAllDirections(t *testing.T) {
	t.Parallel()

	// the box exactly bounds a and b
	corners := [][4]float64{
		{0, 0, 250, 100},
		{250, 100, 0, 0},
		{250, 0, 0, 100},
		{0, 100, 250, 0},
	}
	for _, c := range corners {
		b := Start(c[0], c[1], false)
		Update(b, c[2], c[3])
		r := Finish(*b, viewport.Default(), shapes(), nil, nil, DefaultClickThreshold)
		assert.False(t, r.Click)
		assert.Equal(t, []string{"a", "b"}, r.ShapeIDs)
	}
}

func TestFinishViewport(t *testing.T) {
	t.Parallel()

	// zoomed in 2x and panned so that c sits at screen (900, 900)
	v := viewport.Viewport{Zoom: 2, PanX: 100, PanY: 100}
	b := Start(890, 890, false)
	Update(b, 920, 920)
	r := Finish(*b, v, shapes(), nil, nil, DefaultClickThreshold)
	assert.Equal(t, []string{"c"}, r.ShapeIDs)
}

func TestFinishClick(t *testing.T) {
	t.Parallel()

	b := Start(50, 50, false)
	Update(b, 53, 53)
	r := Finish(*b, viewport.Default(), shapes(), nil, nil, DefaultClickThreshold)
	assert.True(t, r.Click)
	assert.Empty(t, r.ShapeIDs)

	// 3-4-5 travel is exactly the threshold
	Update(b, 53, 54)
	r = Finish(*b, viewport.Default(), shapes(), nil, nil, DefaultClickThreshold)
	assert.False(t, r.Click)
	assert.Equal(t, []string{"a"}, r.ShapeIDs)
}

func TestFinishConnectors(t *testing.T) {
	t.Parallel()

	conns := []*diagram.Connector{
		{ID: "ab", SourceShapeID: "a", TargetShapeID: "b"},
		{ID: "dangling", SourceShapeID: "a", TargetShapeID: "gone"},
	}
	// an L-shaped connector whose endpoints are both outside the box but whose bend is inside
	bounds := func(c *diagram.Connector) *geo.Box {
		if c.ID != "ab" {
			return nil
		}
		return geo.Route{geo.NewPoint(100, 50), geo.NewPoint(125, 50), geo.NewPoint(125, 300), geo.NewPoint(150, 300)}.Box()
	}
	b := Start(110, 250, false)
	Update(b, 140, 280)
	r := Finish(*b, viewport.Default(), shapes(), conns, bounds, DefaultClickThreshold)
	assert.Empty(t, r.ShapeIDs)
	assert.Equal(t, []string{"ab"}, r.ConnectorIDs)
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := NewSet()
	assert.True(t, s.Empty())

	s.Replace([]string{"b", "a"}, []string{"c1"})
	assert.Equal(t, []string{"a", "b"}, s.ShapeIDs())
	assert.True(t, s.HasConnector("c1"))

	s.Apply(Result{ShapeIDs: []string{"c"}}, true)
	assert.Equal(t, []string{"a", "b", "c"}, s.ShapeIDs())
	assert.Equal(t, []string{"c1"}, s.ConnectorIDs())

	s.Apply(Result{ShapeIDs: []string{"c"}}, false)
	assert.Equal(t, []string{"c"}, s.ShapeIDs())
	assert.Empty(t, s.ConnectorIDs())

	s.Apply(Result{Click: true}, true)
	assert.True(t, s.HasShape("c"))

	s.Apply(Result{Click: true}, false)
	assert.True(t, s.Empty())

	s.Add([]string{"x"}, nil)
	s.RemoveShape("x")
	assert.False(t, s.HasShape("x"))
}
