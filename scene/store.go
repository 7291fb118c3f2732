package scene

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"oss.terrastruct.com/canvas/diagram"
)

// Store is an in-memory diagram.Store. Persisting methods can be made to fail with Fail.
type Store struct {
	mu         sync.Mutex
	shapes     []*diagram.Shape
	connectors []*diagram.Connector

	// Fail, when set, is returned by every persisting method without changing anything.
	Fail error
	// Writes counts successful persisting calls.
	Writes int

	newID func() string
}

func NewStore(s *Scene) *Store {
	st := &Store{
		newID: uuid.NewString,
	}
	if s == nil {
		return st
	}
	for _, sh := range s.Shapes {
		st.shapes = append(st.shapes, sh.Copy())
	}
	for _, c := range s.Connectors {
		st.connectors = append(st.connectors, c.Copy())
	}
	return st
}

// Scene snapshots the store.
func (st *Store) Scene() *Scene {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &Scene{}
	for _, sh := range st.shapes {
		s.Shapes = append(s.Shapes, sh.Copy())
	}
	for _, c := range st.connectors {
		s.Connectors = append(s.Connectors, c.Copy())
	}
	return s
}

func (st *Store) Shape(id string) *diagram.Shape {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.shape(id)
}

func (st *Store) shape(id string) *diagram.Shape {
	for _, s := range st.shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (st *Store) Shapes() []*diagram.Shape {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]*diagram.Shape(nil), st.shapes...)
}

func (st *Store) Connector(id string) *diagram.Connector {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, c := range st.connectors {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (st *Store) Connectors() []*diagram.Connector {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]*diagram.Connector(nil), st.connectors...)
}

func (st *Store) UpdateLocalShapes(patches map[string]diagram.ShapePatch) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, p := range patches {
		if s := st.shape(id); s != nil {
			p.Apply(s)
		}
	}
}

func (st *Store) UpdateShapes(ctx context.Context, updates []diagram.ShapeUpdate) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Fail != nil {
		return st.Fail
	}
	for _, u := range updates {
		s := st.shape(u.ID)
		if s == nil {
			return fmt.Errorf("shape %q not found", u.ID)
		}
		u.Patch.Apply(s)
	}
	st.Writes++
	return nil
}

func (st *Store) AddShape(ctx context.Context, s *diagram.Shape) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Fail != nil {
		return st.Fail
	}
	if st.shape(s.ID) != nil {
		return fmt.Errorf("shape %q already exists", s.ID)
	}
	st.shapes = append(st.shapes, s)
	st.Writes++
	return nil
}

func (st *Store) AddConnector(ctx context.Context, dto diagram.ConnectorDTO) (*diagram.Connector, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Fail != nil {
		return nil, st.Fail
	}
	if st.shape(dto.SourceShapeID) == nil {
		return nil, fmt.Errorf("source shape %q not found", dto.SourceShapeID)
	}
	if st.shape(dto.TargetShapeID) == nil {
		return nil, fmt.Errorf("target shape %q not found", dto.TargetShapeID)
	}
	c := &diagram.Connector{
		ID:                    st.newID(),
		Type:                  dto.Type,
		SourceShapeID:         dto.SourceShapeID,
		TargetShapeID:         dto.TargetShapeID,
		SourceConnectionPoint: dto.SourceConnectionPoint,
		TargetConnectionPoint: dto.TargetConnectionPoint,
		Style:                 dto.Style,
	}
	st.connectors = append(st.connectors, c)
	st.Writes++
	return c, nil
}

func (st *Store) RestoreConnector(ctx context.Context, c *diagram.Connector) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Fail != nil {
		return st.Fail
	}
	for _, existing := range st.connectors {
		if existing.ID == c.ID {
			return fmt.Errorf("connector %q already exists", c.ID)
		}
	}
	if st.shape(c.SourceShapeID) == nil {
		return fmt.Errorf("source shape %q not found", c.SourceShapeID)
	}
	if st.shape(c.TargetShapeID) == nil {
		return fmt.Errorf("target shape %q not found", c.TargetShapeID)
	}
	st.connectors = append(st.connectors, c)
	st.Writes++
	return nil
}

func (st *Store) DeleteConnector(ctx context.Context, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Fail != nil {
		return st.Fail
	}
	for i, c := range st.connectors {
		if c.ID == id {
			st.connectors = append(st.connectors[:i], st.connectors[i+1:]...)
			st.Writes++
			return nil
		}
	}
	return fmt.Errorf("connector %q not found", id)
}

func (st *Store) DeleteShape(ctx context.Context, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Fail != nil {
		return st.Fail
	}
	for i, s := range st.shapes {
		if s.ID == id {
			st.shapes = append(st.shapes[:i], st.shapes[i+1:]...)
			st.Writes++
			return nil
		}
	}
	return fmt.Errorf("shape %q not found", id)
}
