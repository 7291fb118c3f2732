// Package selection implements box selection and the set of selected items.
package selection

import (
	"golang.org/x/exp/slices"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/interaction"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/viewport"
)

// DefaultClickThreshold is the pointer travel in screen pixels below which a box
// selection counts as a click.
const DefaultClickThreshold = 5

func Start(sx, sy float64, additive bool) *interaction.SelectionBox {
	return &interaction.SelectionBox{
		StartX:   sx,
		StartY:   sy,
		EndX:     sx,
		EndY:     sy,
		Additive: additive,
	}
}

func Update(b *interaction.SelectionBox, sx, sy float64) {
	b.EndX = sx
	b.EndY = sy
}

type Result struct {
	// Click is set when the pointer barely moved. The selection should be cleared.
	Click        bool     `json:"click"`
	ShapeIDs     []string `json:"shapeIds"`
	ConnectorIDs []string `json:"connectorIds"`
}

// BoundsFunc resolves a connector's full path bounds. Nil means it cannot be drawn.
type BoundsFunc func(*diagram.Connector) *geo.Box

// Finish hit-tests the box against every shape and every connector's resolved bounds.
func Finish(b interaction.SelectionBox, v viewport.Viewport, shapes []*diagram.Shape, connectors []*diagram.Connector, bounds BoundsFunc, threshold float64) Result {
	if b.Travel() < threshold {
		return Result{Click: true}
	}
	area := v.ScreenRectToCanvas(b.Rect())

	var r Result
	for _, s := range shapes {
		if geo.RectsIntersect(area, s.Bounds().Rect()) {
			r.ShapeIDs = append(r.ShapeIDs, s.ID)
		}
	}
	if bounds != nil {
		for _, c := range connectors {
			cb := bounds(c)
			if cb == nil {
				continue
			}
			if geo.RectsIntersect(area, cb.Rect()) {
				r.ConnectorIDs = append(r.ConnectorIDs, c.ID)
			}
		}
	}
	return r
}

// Set is the current selection.
type Set struct {
	shapes     map[string]struct{}
	connectors map[string]struct{}
}

func NewSet() *Set {
	return &Set{
		shapes:     make(map[string]struct{}),
		connectors: make(map[string]struct{}),
	}
}

func (s *Set) Clear() {
	s.shapes = make(map[string]struct{})
	s.connectors = make(map[string]struct{})
}

func (s *Set) Replace(shapeIDs, connectorIDs []string) {
	s.Clear()
	s.Add(shapeIDs, connectorIDs)
}

func (s *Set) Add(shapeIDs, connectorIDs []string) {
	for _, id := range shapeIDs {
		s.shapes[id] = struct{}{}
	}
	for _, id := range connectorIDs {
		s.connectors[id] = struct{}{}
	}
}

// Apply commits a finished box selection.
func (s *Set) Apply(r Result, additive bool) {
	switch {
	case r.Click && !additive:
		s.Clear()
	case r.Click:
	case additive:
		s.Add(r.ShapeIDs, r.ConnectorIDs)
	default:
		s.Replace(r.ShapeIDs, r.ConnectorIDs)
	}
}

func (s *Set) RemoveShape(id string) {
	delete(s.shapes, id)
}

func (s *Set) RemoveConnector(id string) {
	delete(s.connectors, id)
}

func (s *Set) HasShape(id string) bool {
	_, ok := s.shapes[id]
	return ok
}

func (s *Set) HasConnector(id string) bool {
	_, ok := s.connectors[id]
	return ok
}

func (s *Set) Empty() bool {
	return len(s.shapes) == 0 && len(s.connectors) == 0
}

func (s *Set) ShapeIDs() []string {
	return sortedKeys(s.shapes)
}

func (s *Set) ConnectorIDs() []string {
	return sortedKeys(s.connectors)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
