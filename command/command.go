// Package command builds the undoable commands the canvas hands to its executor.
package command

import (
	"context"
	"fmt"

	"oss.terrastruct.com/util-go/go2"
	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/canvas/diagram"
)

// Move is one shape's position before and after a drag.
type Move struct {
	ID    string  `json:"id"`
	FromX float64 `json:"fromX"`
	FromY float64 `json:"fromY"`
	ToX   float64 `json:"toX"`
	ToY   float64 `json:"toY"`
}

// MoveShapes moves every shape of a drag as one undo step.
type MoveShapes struct {
	store diagram.Store
	Moves []Move `json:"moves"`
}

func NewMoveShapes(store diagram.Store, moves []Move) *MoveShapes {
	return &MoveShapes{
		store: store,
		Moves: moves,
	}
}

func (c *MoveShapes) Name() string {
	if len(c.Moves) == 1 {
		return "move shape"
	}
	return fmt.Sprintf("move %d shapes", len(c.Moves))
}

func (c *MoveShapes) Execute(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to %s", c.Name())
	return c.apply(ctx, func(m Move) (float64, float64) { return m.ToX, m.ToY })
}

func (c *MoveShapes) Undo(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to undo %s", c.Name())
	return c.apply(ctx, func(m Move) (float64, float64) { return m.FromX, m.FromY })
}

func (c *MoveShapes) apply(ctx context.Context, pos func(Move) (float64, float64)) error {
	patches := make(map[string]diagram.ShapePatch, len(c.Moves))
	updates := make([]diagram.ShapeUpdate, 0, len(c.Moves))
	for _, m := range c.Moves {
		x, y := pos(m)
		p := diagram.ShapePatch{X: go2.Pointer(x), Y: go2.Pointer(y)}
		patches[m.ID] = p
		updates = append(updates, diagram.ShapeUpdate{ID: m.ID, Patch: p})
	}
	c.store.UpdateLocalShapes(patches)
	return c.store.UpdateShapes(ctx, updates)
}

// AddConnector creates a connector. Undo deletes whatever Execute created last.
type AddConnector struct {
	store   diagram.Store
	DTO     diagram.ConnectorDTO `json:"dto"`
	created *diagram.Connector
}

func NewAddConnector(store diagram.Store, dto diagram.ConnectorDTO) *AddConnector {
	return &AddConnector{
		store: store,
		DTO:   dto,
	}
}

func (c *AddConnector) Name() string {
	return "add connector"
}

func (c *AddConnector) Created() *diagram.Connector {
	return c.created
}

func (c *AddConnector) Execute(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to add connector %s -> %s", c.DTO.SourceShapeID, c.DTO.TargetShapeID)
	conn, err := c.store.AddConnector(ctx, c.DTO)
	if err != nil {
		return err
	}
	c.created = conn
	return nil
}

func (c *AddConnector) Undo(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to undo add connector")
	if c.created == nil {
		return nil
	}
	err = c.store.DeleteConnector(ctx, c.created.ID)
	if err != nil {
		return err
	}
	c.created = nil
	return nil
}

// Delete removes connectors and shapes. Connectors attached to a deleted shape go with
// it. Undo restores shapes before connectors.
type Delete struct {
	store      diagram.Store
	Shapes     []*diagram.Shape     `json:"shapes"`
	Connectors []*diagram.Connector `json:"connectors"`
}

// NewDelete snapshots what will be removed. Missing ids are ignored.
func NewDelete(store diagram.Store, shapeIDs, connectorIDs []string) *Delete {
	c := &Delete{store: store}
	doomed := make(map[string]bool)
	for _, id := range shapeIDs {
		if s := store.Shape(id); s != nil {
			c.Shapes = append(c.Shapes, s.Copy())
			doomed[id] = true
		}
	}
	seen := make(map[string]bool)
	for _, id := range connectorIDs {
		if conn := store.Connector(id); conn != nil && !seen[id] {
			c.Connectors = append(c.Connectors, conn.Copy())
			seen[id] = true
		}
	}
	for _, conn := range store.Connectors() {
		if seen[conn.ID] {
			continue
		}
		if doomed[conn.SourceShapeID] || doomed[conn.TargetShapeID] {
			c.Connectors = append(c.Connectors, conn.Copy())
			seen[conn.ID] = true
		}
	}
	return c
}

func (c *Delete) Name() string {
	return fmt.Sprintf("delete %d shapes and %d connectors", len(c.Shapes), len(c.Connectors))
}

func (c *Delete) Empty() bool {
	return len(c.Shapes) == 0 && len(c.Connectors) == 0
}

func (c *Delete) Execute(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to %s", c.Name())
	for _, conn := range c.Connectors {
		err = c.store.DeleteConnector(ctx, conn.ID)
		if err != nil {
			return err
		}
	}
	for _, s := range c.Shapes {
		err = c.store.DeleteShape(ctx, s.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Delete) Undo(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to undo %s", c.Name())
	for _, s := range c.Shapes {
		err = c.store.AddShape(ctx, s.Copy())
		if err != nil {
			return err
		}
	}
	for _, conn := range c.Connectors {
		err = c.store.RestoreConnector(ctx, conn.Copy())
		if err != nil {
			return err
		}
	}
	return nil
}
