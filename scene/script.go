package scene

import (
	"bytes"
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
	"oss.terrastruct.com/util-go/xdefer"
)

type Action string

const (
	ActionDown  Action = "down"
	ActionMove  Action = "move"
	ActionUp    Action = "up"
	ActionLeave Action = "leave"
	ActionWheel Action = "wheel"
	ActionKey   Action = "key"
	ActionUndo  Action = "undo"
	// ActionFit frames every shape in the script's screen.
	ActionFit Action = "fit"
)

// Step is one scripted input event. Coordinates are screen pixels.
type Step struct {
	Action Action  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	// Button is left, middle or right. Defaults to left.
	Button string  `yaml:"button,omitempty"`
	DeltaY float64 `yaml:"deltaY,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Shift  bool    `yaml:"shift,omitempty"`
	Ctrl   bool    `yaml:"ctrl,omitempty"`
	Meta   bool    `yaml:"meta,omitempty"`
}

// Script is a sequence of input events against a screen of Width by Height pixels.
type Script struct {
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	Steps  []Step  `yaml:"steps"`
}

func ParseScript(b []byte) (_ *Script, err error) {
	defer xdefer.Errorf(&err, "failed to parse script")

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	s := &Script{}
	err = dec.Decode(s)
	if err != nil {
		return nil, err
	}
	for i, st := range s.Steps {
		err = multierr.Append(err, st.validate(i))
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (st Step) validate(i int) error {
	switch st.Action {
	case ActionDown, ActionMove, ActionUp, ActionLeave, ActionWheel, ActionUndo, ActionFit:
	case ActionKey:
		if st.Key == "" {
			return fmt.Errorf("step %d: key action without key", i)
		}
	default:
		return fmt.Errorf("step %d: unknown action %q", i, st.Action)
	}
	switch st.Button {
	case "", "left", "middle", "right":
	default:
		return fmt.Errorf("step %d: unknown button %q", i, st.Button)
	}
	return nil
}
