package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/scene"
)

func newStore() *scene.Store {
	return scene.NewStore(&scene.Scene{
		Shapes: []*diagram.Shape{
			{ID: "a", X: 0, Y: 0, Width: 100, Height: 100},
			{ID: "b", X: 200, Y: 0, Width: 100, Height: 100},
			{ID: "c", X: 400, Y: 0, Width: 100, Height: 100},
		},
		Connectors: []*diagram.Connector{
			{ID: "ab", SourceShapeID: "a", TargetShapeID: "b"},
			{ID: "bc", SourceShapeID: "b", TargetShapeID: "c"},
		},
	})
}

func TestMoveShapes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore()
	cmd := NewMoveShapes(st, []Move{
		{ID: "a", ToX: 10, ToY: 20},
		{ID: "b", FromX: 200, ToX: 250, ToY: 5},
	})
	assert.Equal(t, "move 2 shapes", cmd.Name())

	assert.NoError(t, cmd.Execute(ctx))
	assert.Equal(t, 10., st.Shape("a").X)
	assert.Equal(t, 250., st.Shape("b").X)
	assert.Equal(t, 5., st.Shape("b").Y)

	assert.NoError(t, cmd.Undo(ctx))
	assert.Equal(t, 0., st.Shape("a").Y)
	assert.Equal(t, 200., st.Shape("b").X)
	assert.Equal(t, 2, st.Writes)
}

func TestAddConnector(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore()
	cmd := NewAddConnector(st, diagram.ConnectorDTO{
		SourceShapeID:         "a",
		TargetShapeID:         "c",
		SourceConnectionPoint: geo.East,
		TargetConnectionPoint: geo.West,
		Style:                 diagram.StyleOrthogonal,
	})
	assert.NoError(t, cmd.Execute(ctx))
	created := cmd.Created()
	assert.NotNil(t, created)
	assert.Len(t, st.Connectors(), 3)
	assert.Equal(t, created, st.Connector(created.ID))

	assert.NoError(t, cmd.Undo(ctx))
	assert.Len(t, st.Connectors(), 2)
	assert.Nil(t, cmd.Created())

	bad := NewAddConnector(st, diagram.ConnectorDTO{SourceShapeID: "a", TargetShapeID: "nope"})
	assert.ErrorContains(t, bad.Execute(ctx), `target shape "nope" not found`)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore()
	cmd := NewDelete(st, []string{"b", "missing"}, []string{"ab"})
	assert.Len(t, cmd.Shapes, 1)
	// ab is selected, bc is attached to b
	assert.Len(t, cmd.Connectors, 2)

	assert.NoError(t, cmd.Execute(ctx))
	assert.Nil(t, st.Shape("b"))
	assert.Empty(t, st.Connectors())
	assert.Len(t, st.Shapes(), 2)

	assert.NoError(t, cmd.Undo(ctx))
	assert.NotNil(t, st.Shape("b"))
	assert.Len(t, st.Connectors(), 2)
	assert.NotNil(t, st.Connector("ab"))
	assert.NotNil(t, st.Connector("bc"))

	assert.True(t, NewDelete(st, nil, []string{"missing"}).Empty())
}

func TestDeleteUndoChain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore()
	owns := &diagram.Connector{
		ID:            "owns",
		SourceShapeID: "c",
		TargetShapeID: "a",
		Style:         diagram.StyleCurved,
		LineType:      "dashed",
		MarkerStart:   "diamond",
		MarkerEnd:     "arrow",
		Label:         "owns",
	}
	assert.NoError(t, st.RestoreConnector(ctx, owns.Copy()))

	exec := &scene.Executor{}
	add := NewAddConnector(st, diagram.ConnectorDTO{SourceShapeID: "a", TargetShapeID: "c"})
	assert.NoError(t, exec.ExecuteCommand(ctx, add))
	addedID := add.Created().ID

	del := NewDelete(st, []string{"a"}, nil)
	assert.NoError(t, exec.ExecuteCommand(ctx, del))
	assert.Len(t, st.Connectors(), 1)

	ok, err := exec.Undo(ctx)
	assert.True(t, ok)
	assert.NoError(t, err)
	// every connector comes back under its own id with all of its fields
	assert.Equal(t, owns, st.Connector("owns"))
	assert.NotNil(t, st.Connector("ab"))
	assert.NotNil(t, st.Connector(addedID))

	ok, err = exec.Undo(ctx)
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Nil(t, st.Connector(addedID))
	assert.Len(t, st.Connectors(), 3)
}
