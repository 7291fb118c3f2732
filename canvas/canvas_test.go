package canvas

import (
	"context"
	"errors"
	"testing"

	"cdr.dev/slog/sloggers/slogtest"
	"github.com/stretchr/testify/assert"
	tassert "oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/interaction"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/lib/log"
	"oss.terrastruct.com/canvas/scene"
	"oss.terrastruct.com/canvas/viewport"
)

type harness struct {
	*Canvas
	ctx   context.Context
	store *scene.Store
	exec  *scene.Executor
}

func newHarness(t *testing.T, s *scene.Scene) *harness {
	st := scene.NewStore(s)
	exec := &scene.Executor{}
	return &harness{
		Canvas: New("test", st, exec, DefaultOptions()),
		ctx:    log.WithTB(context.Background(), t, &slogtest.Options{IgnoreErrors: true}),
		store:  st,
		exec:   exec,
	}
}

func (h *harness) drag(t *testing.T, ev PointerEvent, moves ...PointerEvent) {
	tassert.Success(t, h.PointerDown(h.ctx, ev))
	for _, m := range moves {
		h.PointerMove(h.ctx, m)
	}
	last := ev
	if len(moves) > 0 {
		last = moves[len(moves)-1]
	}
	h.PointerUp(h.ctx, last)
}

func at(x, y float64) PointerEvent {
	return PointerEvent{X: x, Y: y}
}

func twoShapes() *scene.Scene {
	return &scene.Scene{
		Shapes: []*diagram.Shape{
			{ID: "a", X: 0, Y: 0, Width: 100, Height: 100},
			{ID: "b", X: 300, Y: 0, Width: 100, Height: 100},
		},
	}
}

func TestDragShape(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	h.drag(t, at(50, 50), at(100, 100), at(150, 150))

	a := h.store.Shape("a")
	assert.Equal(t, 100., a.X)
	assert.Equal(t, 100., a.Y)
	assert.Equal(t, []string{"move shape"}, h.exec.Names())
	assert.Equal(t, interaction.ModeIdle, h.Mode())
	assert.Equal(t, []string{"a"}, h.Selection().ShapeIDs())
}

func TestDragSelection(t *testing.T) {
	t.Parallel()

	s := twoShapes()
	s.Shapes = append(s.Shapes, &diagram.Shape{ID: "l", X: 600, Y: 0, Width: 100, Height: 100, Locked: true})
	h := newHarness(t, s)
	h.SelectAll()
	h.drag(t, at(350, 50), at(370, 80))

	assert.Equal(t, 20., h.store.Shape("a").X)
	assert.Equal(t, 30., h.store.Shape("a").Y)
	assert.Equal(t, 320., h.store.Shape("b").X)
	assert.Equal(t, 600., h.store.Shape("l").X)
	assert.Equal(t, []string{"move 2 shapes"}, h.exec.Names())
}

func TestClickWithoutMove(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	h.drag(t, at(50, 50))
	assert.Empty(t, h.exec.Names())
	assert.Equal(t, []string{"a"}, h.Selection().ShapeIDs())

	h.drag(t, PointerEvent{X: 350, Y: 50, Shift: true})
	assert.Equal(t, []string{"a", "b"}, h.Selection().ShapeIDs())

	h.drag(t, at(350, 50))
	assert.Equal(t, []string{"a", "b"}, h.Selection().ShapeIDs())

	h.drag(t, at(200, 300))
	assert.True(t, h.Selection().Empty())
}

func TestLockedShape(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &scene.Scene{
		Shapes: []*diagram.Shape{{ID: "l", X: 0, Y: 0, Width: 100, Height: 100, Locked: true}},
	})
	tassert.Success(t, h.PointerDown(h.ctx, at(50, 50)))
	assert.Equal(t, interaction.ModeIdle, h.Mode())
	assert.Equal(t, []string{"l"}, h.Selection().ShapeIDs())

	h.PointerMove(h.ctx, at(80, 80))
	h.PointerUp(h.ctx, at(80, 80))
	assert.Equal(t, 0., h.store.Shape("l").X)
}

func TestBoxSelect(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	h.drag(t, at(-20, -20), at(110, 110))
	assert.Equal(t, []string{"a"}, h.Selection().ShapeIDs())
	assert.Equal(t, interaction.ModeIdle, h.Mode())

	h.drag(t, PointerEvent{X: 420, Y: 120, Shift: true}, PointerEvent{X: 290, Y: -10, Shift: true})
	assert.Equal(t, []string{"a", "b"}, h.Selection().ShapeIDs())

	// below the click threshold
	h.drag(t, at(200, 300), at(203, 302))
	assert.True(t, h.Selection().Empty())
}

func TestPan(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	tassert.Success(t, h.PointerDown(h.ctx, PointerEvent{X: 10, Y: 10, Button: ButtonMiddle}))
	assert.Equal(t, interaction.ModePanning, h.Mode())

	err := h.PointerDown(h.ctx, at(50, 50))
	assert.True(t, errors.Is(err, interaction.ErrBusy))
	assert.Equal(t, interaction.ModePanning, h.Mode())

	h.PointerMove(h.ctx, at(30, 50))
	h.PointerLeave(h.ctx, at(30, 50))
	assert.Equal(t, viewport.Viewport{Zoom: 1, PanX: 20, PanY: 40}, h.Viewport())
	assert.Equal(t, interaction.ModeIdle, h.Mode())
}

func TestRightButtonIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	tassert.Success(t, h.PointerDown(h.ctx, PointerEvent{X: 50, Y: 50, Button: ButtonRight}))
	assert.Equal(t, interaction.ModeIdle, h.Mode())
	assert.True(t, h.Selection().Empty())
}

func TestDrawConnector(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	assert.Nil(t, h.DrawingPreview())

	tassert.Success(t, h.PointerDown(h.ctx, at(100, 50)))
	assert.Equal(t, interaction.ModeDrawingConnector, h.Mode())

	h.PointerMove(h.ctx, at(250, 60))
	preview := h.DrawingPreview()
	if assert.NotNil(t, preview) {
		assert.Equal(t, geo.NewPoint(100, 50), preview.Points[0])
		assert.Equal(t, geo.NewPoint(250, 60), preview.Points[len(preview.Points)-1])
	}

	h.PointerUp(h.ctx, at(300, 50))
	conns := h.store.Connectors()
	if assert.Len(t, conns, 1) {
		c := conns[0]
		assert.Equal(t, "a", c.SourceShapeID)
		assert.Equal(t, "b", c.TargetShapeID)
		assert.Equal(t, geo.East, c.SourceConnectionPoint)
		assert.Equal(t, geo.West, c.TargetConnectionPoint)
		assert.Equal(t, diagram.StyleOrthogonal, c.Style)
		assert.Equal(t, []string{c.ID}, h.Selection().ConnectorIDs())
	}
	assert.Equal(t, interaction.ModeIdle, h.Mode())
	assert.Nil(t, h.DrawingPreview())

	p := h.ConnectorPaths(h.ctx)[conns[0].ID]
	assert.Equal(t, "M 100 50 L 300 50", p.D)
}

func TestDrawConnectorCancelled(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		up   PointerEvent
	}{
		{
			name: "empty canvas",
			up:   at(200, 300),
		},
		{
			name: "shape body",
			up:   at(350, 50),
		},
		{
			name: "source shape",
			up:   at(50, 100),
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, twoShapes())
			h.drag(t, at(100, 50), tc.up)
			assert.Empty(t, h.store.Connectors())
			assert.Empty(t, h.exec.Names())
			assert.Equal(t, interaction.ModeIdle, h.Mode())
		})
	}
}

func TestPersistenceFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	h.store.Fail = errors.New("offline")

	h.drag(t, at(50, 50), at(150, 150))
	assert.Equal(t, interaction.ModeIdle, h.Mode())
	assert.Empty(t, h.exec.Names())
	// the local view keeps the drop
	assert.Equal(t, 100., h.store.Shape("a").X)

	// from b.W to the moved a.N
	h.drag(t, at(300, 50), at(150, 100))
	assert.Empty(t, h.store.Connectors())
	assert.Equal(t, interaction.ModeIdle, h.Mode())
}

func TestEscape(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	tassert.Success(t, h.PointerDown(h.ctx, at(50, 50)))
	h.PointerMove(h.ctx, at(150, 150))
	assert.Equal(t, 100., h.store.Shape("a").X)

	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "Escape"}))
	assert.Equal(t, interaction.ModeIdle, h.Mode())
	assert.Equal(t, 0., h.store.Shape("a").X)
	assert.Equal(t, 0., h.store.Shape("a").Y)

	h.PointerUp(h.ctx, at(150, 150))
	assert.Empty(t, h.exec.Names())

	tassert.Success(t, h.PointerDown(h.ctx, PointerEvent{X: 0, Y: 0, Button: ButtonMiddle}))
	h.PointerMove(h.ctx, at(40, 40))
	h.KeyDown(h.ctx, KeyEvent{Key: "Escape"})
	assert.Equal(t, viewport.Default(), h.Viewport())
}

func TestDeleteSelection(t *testing.T) {
	t.Parallel()

	s := twoShapes()
	s.Connectors = []*diagram.Connector{{ID: "ab", SourceShapeID: "a", TargetShapeID: "b"}}
	h := newHarness(t, s)

	assert.False(t, h.KeyDown(h.ctx, KeyEvent{Key: "Delete"}))

	h.drag(t, at(50, 50))
	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "Backspace"}))
	assert.Nil(t, h.store.Shape("a"))
	assert.Nil(t, h.store.Connector("ab"))
	assert.NotNil(t, h.store.Shape("b"))
	assert.True(t, h.Selection().Empty())
	assert.Equal(t, []string{"delete 1 shapes and 1 connectors"}, h.exec.Names())

	ok, err := h.exec.Undo(h.ctx)
	tassert.Success(t, err)
	assert.True(t, ok)
	assert.NotNil(t, h.store.Shape("a"))
	assert.NotNil(t, h.store.Connector("ab"))
}

// shapeDeleteFails persists connector deletes but rejects shape deletes.
type shapeDeleteFails struct {
	*scene.Store
}

func (s shapeDeleteFails) DeleteShape(ctx context.Context, id string) error {
	return errors.New("shape is referenced elsewhere")
}

func TestDeleteSelectionPartialFailure(t *testing.T) {
	t.Parallel()

	s := twoShapes()
	s.Connectors = []*diagram.Connector{{ID: "ab", SourceShapeID: "a", TargetShapeID: "b"}}
	h := newHarness(t, s)
	h.Canvas = New("test", shapeDeleteFails{h.store}, h.exec, DefaultOptions())

	h.Selection().Replace([]string{"a"}, []string{"ab"})
	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "Delete"}))
	assert.Nil(t, h.store.Connector("ab"))
	assert.NotNil(t, h.store.Shape("a"))
	assert.Empty(t, h.exec.Names())
	// only what is gone leaves the selection
	assert.Equal(t, []string{"a"}, h.Selection().ShapeIDs())
	assert.Empty(t, h.Selection().ConnectorIDs())
}

func TestKeyboardShortcuts(t *testing.T) {
	t.Parallel()

	s := twoShapes()
	s.Connectors = []*diagram.Connector{{ID: "ab", SourceShapeID: "a", TargetShapeID: "b"}}
	h := newHarness(t, s)

	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "a", Meta: true}))
	assert.Equal(t, []string{"a", "b"}, h.Selection().ShapeIDs())
	assert.Equal(t, []string{"ab"}, h.Selection().ConnectorIDs())

	assert.False(t, h.KeyDown(h.ctx, KeyEvent{Key: "a"}))

	h.SetSize(800, 600)
	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "+"}))
	assert.InDelta(t, 1.2, h.Viewport().Zoom, 1e-9)
	x, y := h.Viewport().ScreenToCanvas(400, 300)
	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)

	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "-"}))
	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "-"}))
	assert.InDelta(t, 1/1.2, h.Viewport().Zoom, 1e-9)

	assert.True(t, h.KeyDown(h.ctx, KeyEvent{Key: "0", Ctrl: true}))
	assert.Equal(t, 1., h.Viewport().Zoom)
}

func TestWheel(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	h.Wheel(h.ctx, WheelEvent{X: 120, Y: 80, DeltaY: -100})
	v := h.Viewport()
	assert.InDelta(t, 1.1, v.Zoom, 1e-9)
	x, y := v.ScreenToCanvas(120, 80)
	assert.InDelta(t, 120, x, 1e-9)
	assert.InDelta(t, 80, y, 1e-9)

	for i := 0; i < 100; i++ {
		h.Wheel(h.ctx, WheelEvent{DeltaY: 500})
	}
	assert.Equal(t, DefaultOptions().Limits.MinZoom, h.Viewport().Zoom)
}

func TestZoomedDrag(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	h.SetViewport(viewport.Viewport{Zoom: 2, PanX: 10, PanY: 10})
	// canvas (50, 50) is at screen (110, 110)
	h.drag(t, at(110, 110), at(150, 170))
	assert.Equal(t, 20., h.store.Shape("a").X)
	assert.Equal(t, 30., h.store.Shape("a").Y)

	h.SetViewport(viewport.Viewport{Zoom: 50})
	assert.Equal(t, DefaultOptions().Limits.MaxZoom, h.Viewport().Zoom)
}

func TestHitTest(t *testing.T) {
	t.Parallel()

	s := twoShapes()
	s.Shapes = append(s.Shapes, &diagram.Shape{ID: "top", X: 350, Y: 50, Width: 100, Height: 100, ZIndex: 1})
	s.Shapes = append(s.Shapes, &diagram.Shape{ID: "over", X: 0, Y: 0, Width: 40, Height: 40})
	s.Connectors = []*diagram.Connector{{ID: "ab", SourceShapeID: "a", TargetShapeID: "b"}}
	h := newHarness(t, s)

	testCases := []struct {
		name string
		x, y float64
		exp  Target
	}{
		{
			name: "connection point",
			x:    302,
			y:    48,
			exp:  Target{Kind: TargetConnectionPoint, ShapeID: "b", Point: geo.West},
		},
		{
			name: "higher z-index",
			x:    375,
			y:    75,
			exp:  Target{Kind: TargetShape, ShapeID: "top"},
		},
		{
			name: "later shape",
			x:    20,
			y:    30,
			exp:  Target{Kind: TargetShape, ShapeID: "over"},
		},
		{
			name: "connector",
			x:    220,
			y:    54,
			exp:  Target{Kind: TargetConnector, ConnectorID: "ab"},
		},
		{
			name: "canvas",
			x:    220,
			y:    300,
			exp:  Target{Kind: TargetCanvas},
		},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.exp, h.HitTest(h.ctx, tc.x, tc.y), tc.name)
	}
}

func TestClickConnector(t *testing.T) {
	t.Parallel()

	s := twoShapes()
	s.Connectors = []*diagram.Connector{{ID: "ab", SourceShapeID: "a", TargetShapeID: "b", Style: diagram.StyleStraight}}
	h := newHarness(t, s)
	h.drag(t, at(50, 50))

	tassert.Success(t, h.PointerDown(h.ctx, at(200, 53)))
	assert.Equal(t, interaction.ModeIdle, h.Mode())
	assert.Empty(t, h.Selection().ShapeIDs())
	assert.Equal(t, []string{"ab"}, h.Selection().ConnectorIDs())
}

func TestFit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, twoShapes())
	h.SetSize(800, 600)
	h.Fit(0)
	assert.InDelta(t, 2, h.Viewport().Zoom, 1e-9)
	sx, _ := h.Viewport().CanvasToScreen(0, 0)
	ex, _ := h.Viewport().CanvasToScreen(400, 0)
	assert.InDelta(t, 0, sx, 1e-9)
	assert.InDelta(t, 800, ex, 1e-9)

	empty := newHarness(t, &scene.Scene{})
	empty.SetSize(800, 600)
	empty.Fit(20)
	assert.Equal(t, viewport.Default(), empty.Viewport())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultOptions())
	st := scene.NewStore(twoShapes())

	c1, opened := r.Open("d1", st, &scene.Executor{})
	assert.True(t, opened)
	c2, opened := r.Open("d1", st, &scene.Executor{})
	assert.False(t, opened)
	assert.Same(t, c1, c2)

	c3, _ := r.Open("d2", scene.NewStore(nil), &scene.Executor{})
	assert.NotSame(t, c1, c3)
	assert.Equal(t, []string{"d1", "d2"}, r.IDs())

	c1.SetViewport(viewport.Viewport{Zoom: 2})
	assert.Equal(t, 1., c3.Viewport().Zoom)

	got, ok := r.Get("d2")
	assert.True(t, ok)
	assert.Same(t, c3, got)

	assert.True(t, r.Close("d1"))
	assert.False(t, r.Close("d1"))
	_, ok = r.Get("d1")
	assert.False(t, ok)
	assert.Equal(t, []string{"d2"}, r.IDs())
}
