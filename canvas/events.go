package canvas

import (
	"oss.terrastruct.com/canvas/lib/geo"
)

// Button follows DOM MouseEvent.button numbering.
type Button int

const (
	ButtonLeft   Button = 0
	ButtonMiddle Button = 1
	ButtonRight  Button = 2
)

func ParseButton(s string) Button {
	switch s {
	case "middle":
		return ButtonMiddle
	case "right":
		return ButtonRight
	default:
		return ButtonLeft
	}
}

type TargetKind string

const (
	TargetCanvas          TargetKind = "canvas"
	TargetShape           TargetKind = "shape"
	TargetConnector       TargetKind = "connector"
	TargetConnectionPoint TargetKind = "connection-point"
)

// Target is what the pointer is over. An empty Kind asks the canvas to hit-test.
type Target struct {
	Kind        TargetKind    `json:"kind"`
	ShapeID     string        `json:"shapeId,omitempty"`
	ConnectorID string        `json:"connectorId,omitempty"`
	Point       geo.Direction `json:"point,omitempty"`
}

// PointerEvent coordinates are screen pixels relative to the canvas element.
type PointerEvent struct {
	X      float64
	Y      float64
	Button Button
	Target Target
	Shift  bool
	Ctrl   bool
	Meta   bool
}

type WheelEvent struct {
	X      float64
	Y      float64
	DeltaY float64
}

type KeyEvent struct {
	Key   string
	Shift bool
	Ctrl  bool
	Meta  bool
}

func (ev KeyEvent) command() bool {
	return ev.Ctrl || ev.Meta
}
