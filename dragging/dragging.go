// Package dragging moves a group of shapes with the pointer.
//
// Every shape keeps its start position and moves by the pointer delta, snapped per axis
// to the grid. Positions are written to the store's local view on every move; a single
// command is built when the drag ends.
package dragging

import (
	"math"

	"oss.terrastruct.com/util-go/go2"

	"oss.terrastruct.com/canvas/command"
	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/interaction"
)

type Options struct {
	GridSize float64 `json:"gridSize"`
	Snap     bool    `json:"snap"`
}

func DefaultOptions() Options {
	return Options{
		GridSize: 10,
		Snap:     true,
	}
}

// ShapeSource looks up shapes by id. diagram.Store satisfies it.
type ShapeSource interface {
	Shape(id string) *diagram.Shape
}

// Start snapshots the start positions of the shapes that exist and are not locked. It
// returns nil when none are left to drag.
func Start(canvasX, canvasY float64, shapeIDs []string, src ShapeSource) *interaction.DragData {
	d := &interaction.DragData{
		StartPositions: make(map[string]interaction.Position, len(shapeIDs)),
		StartX:         canvasX,
		StartY:         canvasY,
	}
	for _, id := range shapeIDs {
		s := src.Shape(id)
		if s == nil || s.Locked {
			continue
		}
		if _, ok := d.StartPositions[id]; ok {
			continue
		}
		d.ShapeIDs = append(d.ShapeIDs, id)
		d.StartPositions[id] = interaction.Position{X: s.X, Y: s.Y}
	}
	if len(d.ShapeIDs) == 0 {
		return nil
	}
	return d
}

// move snaps start+delta to the grid. An axis the pointer has not moved on stays put, so
// an off-grid shape does not jump when it is only clicked.
func (o Options) move(start, delta float64) float64 {
	if delta == 0 {
		return start
	}
	v := start + delta
	if !o.Snap || o.GridSize <= 0 {
		return v
	}
	return math.Round(v/o.GridSize) * o.GridSize
}

// Positions is where every dragged shape is for the current delta.
func Positions(d *interaction.DragData, opts Options) map[string]interaction.Position {
	out := make(map[string]interaction.Position, len(d.ShapeIDs))
	for _, id := range d.ShapeIDs {
		start := d.StartPositions[id]
		out[id] = interaction.Position{
			X: opts.move(start.X, d.DeltaX),
			Y: opts.move(start.Y, d.DeltaY),
		}
	}
	return out
}

// Update records the pointer position and returns the batched local update.
func Update(d *interaction.DragData, canvasX, canvasY float64, opts Options) map[string]diagram.ShapePatch {
	d.DeltaX = canvasX - d.StartX
	d.DeltaY = canvasY - d.StartY
	return patches(Positions(d, opts))
}

// Cancel returns the local update that puts every shape back where it started.
func Cancel(d *interaction.DragData) map[string]diagram.ShapePatch {
	d.DeltaX, d.DeltaY = 0, 0
	return patches(d.StartPositions)
}

// Finish builds the move command for the drag, or nil when no shape ended up somewhere
// else.
func Finish(d *interaction.DragData, opts Options, store diagram.Store) *command.MoveShapes {
	pos := Positions(d, opts)
	var moves []command.Move
	for _, id := range d.ShapeIDs {
		from, to := d.StartPositions[id], pos[id]
		if from == to {
			continue
		}
		moves = append(moves, command.Move{
			ID:    id,
			FromX: from.X,
			FromY: from.Y,
			ToX:   to.X,
			ToY:   to.Y,
		})
	}
	if len(moves) == 0 {
		return nil
	}
	return command.NewMoveShapes(store, moves)
}

func patches(pos map[string]interaction.Position) map[string]diagram.ShapePatch {
	out := make(map[string]diagram.ShapePatch, len(pos))
	for id, p := range pos {
		out[id] = diagram.ShapePatch{
			X: go2.Pointer(p.X),
			Y: go2.Pointer(p.Y),
		}
	}
	return out
}
