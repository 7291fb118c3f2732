// Package canvas wires the viewport, interaction machine, selection, dragging and
// connector routing of one open diagram behind pointer, wheel and keyboard handlers.
package canvas

import (
	"context"
	"fmt"
	"sort"

	"cdr.dev/slog"

	"oss.terrastruct.com/canvas/command"
	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/dragging"
	"oss.terrastruct.com/canvas/interaction"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/lib/log"
	"oss.terrastruct.com/canvas/paths"
	"oss.terrastruct.com/canvas/router"
	"oss.terrastruct.com/canvas/selection"
	"oss.terrastruct.com/canvas/viewport"
)

// Canvas is driven from a single event loop and is not safe for concurrent use.
type Canvas struct {
	id    string
	store diagram.Store
	exec  diagram.Executor
	opts  Options

	vp       viewport.Viewport
	width    float64
	height   float64
	machine  *interaction.Machine
	sel      *selection.Set
	resolver *router.Resolver
	hovered  string
}

func New(id string, store diagram.Store, exec diagram.Executor, opts Options) *Canvas {
	return &Canvas{
		id:       id,
		store:    store,
		exec:     exec,
		opts:     opts,
		vp:       viewport.Default(),
		machine:  interaction.NewMachine(),
		sel:      selection.NewSet(),
		resolver: router.NewResolver(router.New(opts.Router), opts.Paths),
	}
}

func (c *Canvas) ID() string {
	return c.id
}

func (c *Canvas) Options() Options {
	return c.opts
}

func (c *Canvas) Viewport() viewport.Viewport {
	return c.vp
}

// SetViewport replaces the viewport with its zoom clamped to the configured limits.
func (c *Canvas) SetViewport(v viewport.Viewport) {
	v.Zoom = c.opts.Limits.ClampZoom(v.Zoom)
	c.vp = v
}

// SetSize records the screen size of the canvas element. Keyboard zoom centers on it and
// Fit frames content in it.
func (c *Canvas) SetSize(width, height float64) {
	c.width = width
	c.height = height
}

func (c *Canvas) Mode() interaction.Mode {
	return c.machine.Mode()
}

func (c *Canvas) State() interaction.State {
	return c.machine.State()
}

func (c *Canvas) Selection() *selection.Set {
	return c.sel
}

func (c *Canvas) Resolver() *router.Resolver {
	return c.resolver
}

// PointerDown starts a gesture. It returns an error wrapping interaction.ErrBusy when a
// gesture is already active.
func (c *Canvas) PointerDown(ctx context.Context, ev PointerEvent) error {
	if !c.machine.Idle() {
		log.Debug(ctx, "pointer down rejected", slog.F("canvas", c.id), slog.F("mode", c.machine.Mode()))
		return fmt.Errorf("pointer down: %w", interaction.ErrBusy)
	}
	if ev.Target.Kind == "" {
		ev.Target = c.HitTest(ctx, ev.X, ev.Y)
	}

	switch ev.Button {
	case ButtonMiddle:
		return c.start(ctx, &interaction.PanData{
			StartX:    ev.X,
			StartY:    ev.Y,
			StartPanX: c.vp.PanX,
			StartPanY: c.vp.PanY,
		})
	case ButtonLeft:
	default:
		return nil
	}

	cx, cy := c.vp.ScreenToCanvas(ev.X, ev.Y)
	switch ev.Target.Kind {
	case TargetConnectionPoint:
		if c.store.Shape(ev.Target.ShapeID) == nil {
			return nil
		}
		return c.start(ctx, &interaction.DrawingConnector{
			SourceShapeID: ev.Target.ShapeID,
			SourcePoint:   ev.Target.Point,
			CursorX:       cx,
			CursorY:       cy,
		})
	case TargetShape:
		if c.store.Shape(ev.Target.ShapeID) == nil {
			return nil
		}
		if !c.sel.HasShape(ev.Target.ShapeID) {
			if ev.Shift {
				c.sel.Add([]string{ev.Target.ShapeID}, nil)
			} else {
				c.sel.Replace([]string{ev.Target.ShapeID}, nil)
			}
		}
		d := dragging.Start(cx, cy, c.sel.ShapeIDs(), c.store)
		if d == nil {
			// Every selected shape is locked.
			return nil
		}
		return c.start(ctx, d)
	case TargetConnector:
		if ev.Shift {
			c.sel.Add(nil, []string{ev.Target.ConnectorID})
		} else {
			c.sel.Replace(nil, []string{ev.Target.ConnectorID})
		}
		return nil
	default:
		return c.start(ctx, selection.Start(ev.X, ev.Y, ev.Shift))
	}
}

func (c *Canvas) start(ctx context.Context, data interaction.Data) error {
	err := c.machine.Start(data)
	if err != nil {
		return err
	}
	log.Debug(ctx, "gesture started", slog.F("canvas", c.id), slog.F("mode", data.Mode()))
	return nil
}

// PointerMove feeds the active gesture. While idle it only tracks the hovered shape.
func (c *Canvas) PointerMove(ctx context.Context, ev PointerEvent) {
	switch c.machine.Mode() {
	case interaction.ModePanning:
		d, _ := c.machine.Panning()
		start := viewport.Viewport{Zoom: c.vp.Zoom, PanX: d.StartPanX, PanY: d.StartPanY}
		c.vp = start.Panned(ev.X-d.StartX, ev.Y-d.StartY)
	case interaction.ModeSelecting:
		d, _ := c.machine.Selecting()
		selection.Update(d, ev.X, ev.Y)
	case interaction.ModeDraggingShapes:
		d, _ := c.machine.Dragging()
		cx, cy := c.vp.ScreenToCanvas(ev.X, ev.Y)
		c.store.UpdateLocalShapes(dragging.Update(d, cx, cy, c.opts.Drag))
	case interaction.ModeDrawingConnector:
		d, _ := c.machine.Drawing()
		d.CursorX, d.CursorY = c.vp.ScreenToCanvas(ev.X, ev.Y)
	default:
		if ev.Target.Kind == "" {
			ev.Target = c.HitTest(ctx, ev.X, ev.Y)
		}
		switch ev.Target.Kind {
		case TargetShape, TargetConnectionPoint:
			c.hovered = ev.Target.ShapeID
		default:
			c.hovered = ""
		}
	}
}

// PointerUp finalizes the active gesture. The machine is idle before anything is persisted,
// so a failing store never leaves a gesture behind.
func (c *Canvas) PointerUp(ctx context.Context, ev PointerEvent) {
	data := c.machine.Reset()
	switch d := data.(type) {
	case *interaction.SelectionBox:
		r := selection.Finish(*d, c.vp, c.store.Shapes(), c.store.Connectors(), c.connectorBounds(ctx), c.opts.ClickThreshold)
		c.sel.Apply(r, d.Additive)
	case *interaction.DragData:
		cmd := dragging.Finish(d, c.opts.Drag, c.store)
		if cmd == nil {
			return
		}
		c.execute(ctx, cmd)
	case *interaction.DrawingConnector:
		if ev.Target.Kind == "" {
			ev.Target = c.HitTest(ctx, ev.X, ev.Y)
		}
		c.finishConnector(ctx, d, ev.Target)
	}
	if data != nil {
		log.Debug(ctx, "gesture finished", slog.F("canvas", c.id), slog.F("mode", data.Mode()))
	}
}

// PointerLeave is handled exactly like PointerUp.
func (c *Canvas) PointerLeave(ctx context.Context, ev PointerEvent) {
	c.PointerUp(ctx, ev)
}

func (c *Canvas) finishConnector(ctx context.Context, d *interaction.DrawingConnector, target Target) {
	if target.Kind != TargetConnectionPoint || target.ShapeID == d.SourceShapeID || c.store.Shape(target.ShapeID) == nil {
		log.Debug(ctx, "connector cancelled", slog.F("canvas", c.id), slog.F("source", d.SourceShapeID), slog.F("target", target))
		return
	}
	cmd := command.NewAddConnector(c.store, diagram.ConnectorDTO{
		SourceShapeID:         d.SourceShapeID,
		TargetShapeID:         target.ShapeID,
		SourceConnectionPoint: d.SourcePoint,
		TargetConnectionPoint: target.Point,
		Style:                 c.opts.Style,
	})
	if !c.execute(ctx, cmd) {
		return
	}
	if conn := cmd.Created(); conn != nil {
		c.sel.Replace(nil, []string{conn.ID})
	}
}

func (c *Canvas) execute(ctx context.Context, cmd diagram.Command) bool {
	err := c.exec.ExecuteCommand(ctx, cmd)
	if err != nil {
		log.Error(ctx, "failed to persist command", slog.F("canvas", c.id), slog.F("command", cmd.Name()), slog.F("err", err))
		return false
	}
	return true
}

// Wheel zooms about the cursor. It is ignored while a gesture is active.
func (c *Canvas) Wheel(ctx context.Context, ev WheelEvent) {
	if !c.machine.Idle() {
		return
	}
	z := c.opts.Limits.ZoomFromWheel(c.vp.Zoom, ev.DeltaY)
	c.vp = c.vp.ZoomedAt(ev.X, ev.Y, z)
}

// Cancel abandons the active gesture. A drag puts its shapes back and a pan restores the
// pan it started from.
func (c *Canvas) Cancel(ctx context.Context) {
	data := c.machine.Reset()
	switch d := data.(type) {
	case *interaction.DragData:
		c.store.UpdateLocalShapes(dragging.Cancel(d))
	case *interaction.PanData:
		c.vp.PanX, c.vp.PanY = d.StartPanX, d.StartPanY
	}
	if data != nil {
		log.Debug(ctx, "gesture cancelled", slog.F("canvas", c.id), slog.F("mode", data.Mode()))
	}
}

// KeyDown reports whether the key was handled.
func (c *Canvas) KeyDown(ctx context.Context, ev KeyEvent) bool {
	switch {
	case ev.Key == "Escape":
		c.Cancel(ctx)
		return true
	case ev.Key == "Delete" || ev.Key == "Backspace":
		return c.deleteSelection(ctx)
	case ev.command() && (ev.Key == "a" || ev.Key == "A"):
		c.SelectAll()
		return true
	case ev.command() && ev.Key == "0":
		c.zoomCentered(1)
		return true
	case ev.Key == "+" || ev.Key == "=":
		c.zoomCentered(c.vp.Zoom * c.opts.Limits.Step)
		return true
	case ev.Key == "-" || ev.Key == "_":
		c.zoomCentered(c.vp.Zoom / c.opts.Limits.Step)
		return true
	}
	return false
}

func (c *Canvas) zoomCentered(z float64) {
	c.vp = c.vp.ZoomedAt(c.width/2, c.height/2, c.opts.Limits.ClampZoom(z))
}

func (c *Canvas) SelectAll() {
	var shapeIDs, connectorIDs []string
	for _, s := range c.store.Shapes() {
		shapeIDs = append(shapeIDs, s.ID)
	}
	for _, conn := range c.store.Connectors() {
		connectorIDs = append(connectorIDs, conn.ID)
	}
	c.sel.Replace(shapeIDs, connectorIDs)
}

func (c *Canvas) deleteSelection(ctx context.Context) bool {
	if !c.machine.Idle() || c.sel.Empty() {
		return false
	}
	cmd := command.NewDelete(c.store, c.sel.ShapeIDs(), c.sel.ConnectorIDs())
	if !cmd.Empty() {
		c.execute(ctx, cmd)
	}
	// a failed delete may still have removed part of the selection
	c.pruneSelection()
	return true
}

// pruneSelection drops ids the store no longer has.
func (c *Canvas) pruneSelection() {
	for _, id := range c.sel.ShapeIDs() {
		if c.store.Shape(id) == nil {
			c.sel.RemoveShape(id)
		}
	}
	for _, id := range c.sel.ConnectorIDs() {
		if c.store.Connector(id) == nil {
			c.sel.RemoveConnector(id)
		}
	}
}

// Fit frames every shape in the screen set with SetSize.
func (c *Canvas) Fit(padding float64) {
	var r *geo.Rect
	for _, s := range c.store.Shapes() {
		sr := s.Bounds().Rect()
		if r == nil {
			r = &sr
			continue
		}
		u := r.Union(sr)
		r = &u
	}
	if r == nil {
		c.vp = viewport.Default()
		return
	}
	c.vp = viewport.Fit(r.Box(), c.width, c.height, padding, c.opts.Limits)
}

// ConnectorPaths resolves the path of every connector. Connectors whose shapes are missing
// are left out.
func (c *Canvas) ConnectorPaths(ctx context.Context) map[string]*paths.Path {
	return c.resolver.ResolveAll(ctx, c.store.Connectors(), c.store.Shapes())
}

func (c *Canvas) connectorBounds(ctx context.Context) selection.BoundsFunc {
	shapes := c.store.Shapes()
	return func(conn *diagram.Connector) *geo.Box {
		return c.resolver.ConnectorBounds(ctx, conn, shapes)
	}
}

// DrawingPreview is the path from the source connection point to the cursor, or nil when
// no connector is being drawn.
func (c *Canvas) DrawingPreview() *paths.Path {
	d, ok := c.machine.Drawing()
	if !ok {
		return nil
	}
	src := c.store.Shape(d.SourceShapeID)
	if src == nil {
		return nil
	}
	start := paths.Endpoint{Point: src.PointFor(d.SourcePoint), Direction: d.SourcePoint}
	return c.resolver.Preview(start, geo.NewPoint(d.CursorX, d.CursorY), c.opts.Style)
}

// HitTest finds what is under a screen point. Connection points win over shapes, shapes
// over connectors. Connection points are only offered on the hovered shape, the selected
// shapes and any shape within reach of the pointer.
func (c *Canvas) HitTest(ctx context.Context, sx, sy float64) Target {
	p := c.vp.ScreenToCanvasPoint(geo.NewPoint(sx, sy))
	radius := c.opts.HitRadius / c.vp.Zoom
	shapes := topmostFirst(c.store.Shapes())

	best := radius
	var hit *Target
	for _, s := range shapes {
		b := s.Bounds()
		if s.ID != c.hovered && !c.sel.HasShape(s.ID) && !b.Inflate(radius).Contains(p) {
			continue
		}
		for _, cp := range s.Points() {
			dist := geo.Distance(p, cp.Resolve(b))
			if dist <= best {
				best = dist
				hit = &Target{Kind: TargetConnectionPoint, ShapeID: s.ID, Point: cp.Direction}
			}
		}
	}
	if hit != nil {
		return *hit
	}

	for _, s := range shapes {
		if s.Bounds().Contains(p) {
			return Target{Kind: TargetShape, ShapeID: s.ID}
		}
	}

	best = radius
	resolved := c.ConnectorPaths(ctx)
	ids := make([]string, 0, len(resolved))
	for id := range resolved {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		dist := resolved[id].Points.DistanceTo(p)
		if dist <= best {
			best = dist
			hit = &Target{Kind: TargetConnector, ConnectorID: id}
		}
	}
	if hit != nil {
		return *hit
	}
	return Target{Kind: TargetCanvas}
}

// topmostFirst orders shapes by descending ZIndex. Among equal ZIndex the later shape is on
// top.
func topmostFirst(shapes []*diagram.Shape) []*diagram.Shape {
	out := make([]*diagram.Shape, len(shapes))
	for i, s := range shapes {
		out[len(shapes)-1-i] = s
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex > out[j].ZIndex
	})
	return out
}
