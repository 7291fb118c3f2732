// Package scene reads and writes YAML scene files and gesture scripts, and provides an
// in-memory diagram store backed by a scene.
package scene

import (
	"bytes"
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/geo"
	"oss.terrastruct.com/canvas/viewport"
)

type Scene struct {
	Viewport   *viewport.Viewport   `yaml:"viewport,omitempty"`
	Shapes     []*diagram.Shape     `yaml:"shapes"`
	Connectors []*diagram.Connector `yaml:"connectors,omitempty"`
}

func Parse(b []byte) (_ *Scene, err error) {
	defer xdefer.Errorf(&err, "failed to parse scene")

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	s := &Scene{}
	err = dec.Decode(s)
	if err != nil {
		return nil, err
	}
	err = s.Validate()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	err := enc.Encode(s)
	if err != nil {
		return nil, err
	}
	err = enc.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate reports every problem at once.
func (s *Scene) Validate() error {
	var err error
	ids := make(map[string]bool, len(s.Shapes))
	for i, sh := range s.Shapes {
		if sh == nil {
			err = multierr.Append(err, fmt.Errorf("shape %d is empty", i))
			continue
		}
		if sh.ID == "" {
			err = multierr.Append(err, fmt.Errorf("shape %d has no id", i))
		} else if ids[sh.ID] {
			err = multierr.Append(err, fmt.Errorf("duplicate shape id %q", sh.ID))
		}
		ids[sh.ID] = true
		if sh.Width <= 0 || sh.Height <= 0 {
			err = multierr.Append(err, fmt.Errorf("shape %q must have a positive size, got %vx%v", sh.ID, sh.Width, sh.Height))
		}
		for _, cp := range sh.ConnectionPoints {
			if !cp.Direction.Valid() {
				err = multierr.Append(err, fmt.Errorf("shape %q: connection point %q has invalid direction %q", sh.ID, cp.ID, cp.Direction))
			}
			if cp.Position < 0 || cp.Position > 1 {
				err = multierr.Append(err, fmt.Errorf("shape %q: connection point %q position %v is outside [0, 1]", sh.ID, cp.ID, cp.Position))
			}
		}
	}

	connIDs := make(map[string]bool, len(s.Connectors))
	for i, c := range s.Connectors {
		if c == nil {
			err = multierr.Append(err, fmt.Errorf("connector %d is empty", i))
			continue
		}
		if c.ID == "" {
			err = multierr.Append(err, fmt.Errorf("connector %d has no id", i))
		} else if connIDs[c.ID] {
			err = multierr.Append(err, fmt.Errorf("duplicate connector id %q", c.ID))
		}
		connIDs[c.ID] = true
		if !ids[c.SourceShapeID] {
			err = multierr.Append(err, fmt.Errorf("connector %q: unknown source shape %q", c.ID, c.SourceShapeID))
		}
		if !ids[c.TargetShapeID] {
			err = multierr.Append(err, fmt.Errorf("connector %q: unknown target shape %q", c.ID, c.TargetShapeID))
		}
		if c.Style != "" && !c.Style.Valid() {
			err = multierr.Append(err, fmt.Errorf("connector %q: unknown style %q", c.ID, c.Style))
		}
		err = multierr.Append(err, validPoint(c.ID, "source", c.SourceConnectionPoint))
		err = multierr.Append(err, validPoint(c.ID, "target", c.TargetConnectionPoint))
	}
	return err
}

func validPoint(id, end string, d geo.Direction) error {
	if d == "" || d.Valid() {
		return nil
	}
	return fmt.Errorf("connector %q: %s point %q is not one of N, E, S, W", id, end, d)
}
