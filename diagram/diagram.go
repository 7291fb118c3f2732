// Package diagram defines the entities the canvas engine reads and mutates and the
// interfaces of the collaborators that own them.
package diagram

import (
	"context"

	"oss.terrastruct.com/canvas/lib/geo"
)

type Shape struct {
	ID      string  `json:"id" yaml:"id"`
	Type    string  `json:"type" yaml:"type"`
	Subtype string  `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Label   string  `json:"label,omitempty" yaml:"label,omitempty"`
	ZIndex  int     `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`
	Locked  bool    `json:"locked,omitempty" yaml:"locked,omitempty"`

	// ConnectionPoints overrides the default N, E, S, W midpoints.
	ConnectionPoints []ConnectionPoint `json:"connectionPoints,omitempty" yaml:"connectionPoints,omitempty"`

	Data map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

func (s *Shape) Bounds() *geo.Box {
	return geo.NewBox(geo.NewPoint(s.X, s.Y), s.Width, s.Height)
}

func (s *Shape) Copy() *Shape {
	if s == nil {
		return nil
	}
	c := *s
	if s.ConnectionPoints != nil {
		c.ConnectionPoints = append([]ConnectionPoint(nil), s.ConnectionPoints...)
	}
	return &c
}

type ConnectorStyle string

const (
	StyleStraight   ConnectorStyle = "straight"
	StyleOrthogonal ConnectorStyle = "orthogonal"
	StyleCurved     ConnectorStyle = "curved"
)

func (cs ConnectorStyle) Valid() bool {
	switch cs {
	case StyleStraight, StyleOrthogonal, StyleCurved:
		return true
	}
	return false
}

type Connector struct {
	ID            string `json:"id" yaml:"id"`
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
	SourceShapeID string `json:"sourceShapeId" yaml:"source"`
	TargetShapeID string `json:"targetShapeId" yaml:"target"`

	// Empty connection points are picked per render from the current shape geometry.
	SourceConnectionPoint geo.Direction `json:"sourceConnectionPoint,omitempty" yaml:"sourcePoint,omitempty"`
	TargetConnectionPoint geo.Direction `json:"targetConnectionPoint,omitempty" yaml:"targetPoint,omitempty"`

	Style       ConnectorStyle `json:"style,omitempty" yaml:"style,omitempty"`
	LineType    string         `json:"lineType,omitempty" yaml:"lineType,omitempty"`
	MarkerStart string         `json:"markerStart,omitempty" yaml:"markerStart,omitempty"`
	MarkerEnd   string         `json:"markerEnd,omitempty" yaml:"markerEnd,omitempty"`
	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
}

func (c *Connector) Copy() *Connector {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}

// ConnectorDTO is what the engine hands the store to create a connector.
type ConnectorDTO struct {
	Type                  string         `json:"type,omitempty"`
	SourceShapeID         string         `json:"sourceShapeId"`
	TargetShapeID         string         `json:"targetShapeId"`
	SourceConnectionPoint geo.Direction  `json:"sourceConnectionPoint"`
	TargetConnectionPoint geo.Direction  `json:"targetConnectionPoint"`
	Style                 ConnectorStyle `json:"style"`
}

// ShapePatch is a partial shape update. Nil fields are left untouched.
type ShapePatch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

func (p ShapePatch) Apply(s *Shape) {
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
}

type ShapeUpdate struct {
	ID    string     `json:"id"`
	Patch ShapePatch `json:"patch"`
}

// Store is the entity store the engine reads shapes and connectors from.
// UpdateLocalShapes changes only the in-memory view and never fails; the ctx taking methods
// persist.
type Store interface {
	Shape(id string) *Shape
	Shapes() []*Shape
	Connector(id string) *Connector
	Connectors() []*Connector

	UpdateLocalShapes(patches map[string]ShapePatch)
	UpdateShapes(ctx context.Context, updates []ShapeUpdate) error
	// AddShape restores a previously deleted shape under its own id.
	AddShape(ctx context.Context, s *Shape) error
	AddConnector(ctx context.Context, dto ConnectorDTO) (*Connector, error)
	// RestoreConnector brings back a deleted connector with its id and every field.
	RestoreConnector(ctx context.Context, c *Connector) error
	DeleteConnector(ctx context.Context, id string) error
	DeleteShape(ctx context.Context, id string) error
}

// Command is an undoable unit of work. The engine builds commands; stacking them is the
// executor's business.
type Command interface {
	Name() string
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
}

type Executor interface {
	ExecuteCommand(ctx context.Context, cmd Command) error
}
