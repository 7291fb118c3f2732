// Package interaction holds the gesture state of a canvas. Exactly one mode is active at a
// time and its payload travels with it.
package interaction

import (
	"errors"
	"fmt"

	"oss.terrastruct.com/canvas/lib/geo"
)

type Mode string

const (
	ModeIdle             Mode = "idle"
	ModePanning          Mode = "panning"
	ModeSelecting        Mode = "selecting"
	ModeDraggingShapes   Mode = "dragging-shapes"
	ModeDrawingConnector Mode = "drawing-connector"
)

// ErrBusy is returned when a gesture starts while another one is active.
var ErrBusy = errors.New("another gesture is active")

// Data is the payload of a non-idle mode.
type Data interface {
	Mode() Mode
	data()
}

// PanData is recorded when a middle-button pan starts.
type PanData struct {
	StartX    float64 `json:"startX"`
	StartY    float64 `json:"startY"`
	StartPanX float64 `json:"startPanX"`
	StartPanY float64 `json:"startPanY"`
}

// SelectionBox is in screen coordinates.
type SelectionBox struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
	// Additive keeps the previous selection and adds the boxed items to it.
	Additive bool `json:"additive"`
}

func (b SelectionBox) Rect() geo.Rect {
	return geo.NormalizeRect(b.StartX, b.StartY, b.EndX, b.EndY)
}

// Travel is how far the pointer moved since the box started.
func (b SelectionBox) Travel() float64 {
	return geo.EuclideanDistance(b.StartX, b.StartY, b.EndX, b.EndY)
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DragData snapshots where every dragged shape started. All positions are canvas units.
type DragData struct {
	ShapeIDs       []string            `json:"shapeIds"`
	StartPositions map[string]Position `json:"startPositions"`
	StartX         float64             `json:"startX"`
	StartY         float64             `json:"startY"`
	DeltaX         float64             `json:"deltaX"`
	DeltaY         float64             `json:"deltaY"`
}

type DrawingConnector struct {
	SourceShapeID string        `json:"sourceShapeId"`
	SourcePoint   geo.Direction `json:"sourcePoint"`
	CursorX       float64       `json:"cursorX"`
	CursorY       float64       `json:"cursorY"`
}

func (*PanData) Mode() Mode          { return ModePanning }
func (*SelectionBox) Mode() Mode     { return ModeSelecting }
func (*DragData) Mode() Mode         { return ModeDraggingShapes }
func (*DrawingConnector) Mode() Mode { return ModeDrawingConnector }

func (*PanData) data()          {}
func (*SelectionBox) data()     {}
func (*DragData) data()         {}
func (*DrawingConnector) data() {}

type State struct {
	Mode Mode `json:"mode"`
	Data Data `json:"data,omitempty"`
}

// Machine is not safe for concurrent use. A canvas drives it from its event loop.
type Machine struct {
	state State
}

func NewMachine() *Machine {
	return &Machine{
		state: State{Mode: ModeIdle},
	}
}

func (m *Machine) Mode() Mode {
	return m.state.Mode
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Idle() bool {
	return m.state.Mode == ModeIdle
}

// Start enters the mode of data. Only an idle machine can start a gesture.
func (m *Machine) Start(data Data) error {
	if data == nil {
		return fmt.Errorf("cannot start a gesture without data")
	}
	if !m.Idle() {
		return fmt.Errorf("%w: cannot enter %s while %s", ErrBusy, data.Mode(), m.state.Mode)
	}
	m.state = State{Mode: data.Mode(), Data: data}
	return nil
}

// Reset returns to idle and hands back the payload of the mode that was active.
func (m *Machine) Reset() Data {
	d := m.state.Data
	m.state = State{Mode: ModeIdle}
	return d
}

func (m *Machine) Panning() (*PanData, bool) {
	d, ok := m.state.Data.(*PanData)
	return d, ok
}

func (m *Machine) Selecting() (*SelectionBox, bool) {
	d, ok := m.state.Data.(*SelectionBox)
	return d, ok
}

func (m *Machine) Dragging() (*DragData, bool) {
	d, ok := m.state.Data.(*DragData)
	return d, ok
}

func (m *Machine) Drawing() (*DrawingConnector, bool) {
	d, ok := m.state.Data.(*DrawingConnector)
	return d, ok
}
