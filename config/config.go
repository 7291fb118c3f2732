// Package config loads canvas tuning from an optional YAML file overlaid by CANVAS_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"
	yamlv3 "gopkg.in/yaml.v3"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/canvas/canvas"
	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/dragging"
	"oss.terrastruct.com/canvas/paths"
	"oss.terrastruct.com/canvas/router"
	"oss.terrastruct.com/canvas/viewport"
)

const EnvPrefix = "CANVAS_"

type Options struct {
	MinZoom          float64 `yaml:"min_zoom" koanf:"min_zoom"`
	MaxZoom          float64 `yaml:"max_zoom" koanf:"max_zoom"`
	WheelSensitivity float64 `yaml:"wheel_sensitivity" koanf:"wheel_sensitivity"`
	ZoomStep         float64 `yaml:"zoom_step" koanf:"zoom_step"`

	ClickThreshold float64 `yaml:"click_threshold" koanf:"click_threshold"`
	HitRadius      float64 `yaml:"hit_radius" koanf:"hit_radius"`

	GridSize float64 `yaml:"grid_size" koanf:"grid_size"`
	Snap     bool    `yaml:"snap" koanf:"snap"`

	Style             diagram.ConnectorStyle `yaml:"style" koanf:"style"`
	CurveOffset       float64                `yaml:"curve_offset" koanf:"curve_offset"`
	CurveSamples      int                    `yaml:"curve_samples" koanf:"curve_samples"`
	RouteMargin       float64                `yaml:"route_margin" koanf:"route_margin"`
	RouteMaxGridNodes int                    `yaml:"route_max_grid_nodes" koanf:"route_max_grid_nodes"`
}

func Default() *Options {
	c := canvas.DefaultOptions()
	return &Options{
		MinZoom:           c.Limits.MinZoom,
		MaxZoom:           c.Limits.MaxZoom,
		WheelSensitivity:  c.Limits.WheelSensitivity,
		ZoomStep:          c.Limits.Step,
		ClickThreshold:    c.ClickThreshold,
		HitRadius:         c.HitRadius,
		GridSize:          c.Drag.GridSize,
		Snap:              c.Drag.Snap,
		Style:             c.Style,
		CurveOffset:       c.Paths.CurveOffset,
		CurveSamples:      c.Paths.CurveSamples,
		RouteMargin:       c.Router.Margin,
		RouteMaxGridNodes: c.Router.MaxGridNodes,
	}
}

// Load starts from Default, applies the YAML file at path when it exists and then every
// CANVAS_* variable, lowercased without the prefix. An empty path skips the file.
func Load(path string) (_ *Options, err error) {
	defer xdefer.Errorf(&err, "failed to load config")

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	opts := Default()
	if err := k.Unmarshal("", opts); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Marshal encodes o in the format Load reads.
func (o *Options) Marshal() ([]byte, error) {
	return yamlv3.Marshal(o)
}

func (o *Options) Validate() error {
	var err error
	if o.MinZoom <= 0 {
		err = multierr.Append(err, fmt.Errorf("min_zoom must be positive, got %v", o.MinZoom))
	}
	if o.MaxZoom < o.MinZoom {
		err = multierr.Append(err, fmt.Errorf("max_zoom %v is below min_zoom %v", o.MaxZoom, o.MinZoom))
	}
	if o.WheelSensitivity <= 0 || o.WheelSensitivity >= 1 {
		err = multierr.Append(err, fmt.Errorf("wheel_sensitivity must be in (0, 1), got %v", o.WheelSensitivity))
	}
	if o.ZoomStep <= 1 {
		err = multierr.Append(err, fmt.Errorf("zoom_step must be greater than 1, got %v", o.ZoomStep))
	}
	if o.ClickThreshold < 0 {
		err = multierr.Append(err, fmt.Errorf("click_threshold must not be negative, got %v", o.ClickThreshold))
	}
	if o.HitRadius < 0 {
		err = multierr.Append(err, fmt.Errorf("hit_radius must not be negative, got %v", o.HitRadius))
	}
	if o.Snap && o.GridSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("grid_size must be positive when snapping, got %v", o.GridSize))
	}
	if !o.Style.Valid() {
		err = multierr.Append(err, fmt.Errorf("unknown style %q", o.Style))
	}
	if o.CurveSamples < 1 {
		err = multierr.Append(err, fmt.Errorf("curve_samples must be at least 1, got %d", o.CurveSamples))
	}
	if o.RouteMargin <= 0 {
		err = multierr.Append(err, fmt.Errorf("route_margin must be positive, got %v", o.RouteMargin))
	}
	if o.RouteMaxGridNodes <= 0 {
		err = multierr.Append(err, fmt.Errorf("route_max_grid_nodes must be positive, got %d", o.RouteMaxGridNodes))
	}
	return err
}

func (o *Options) Canvas() canvas.Options {
	return canvas.Options{
		Limits: viewport.Limits{
			MinZoom:          o.MinZoom,
			MaxZoom:          o.MaxZoom,
			WheelSensitivity: o.WheelSensitivity,
			Step:             o.ZoomStep,
		},
		Drag: dragging.Options{
			GridSize: o.GridSize,
			Snap:     o.Snap,
		},
		Paths: paths.Options{
			CurveOffset:  o.CurveOffset,
			CurveSamples: o.CurveSamples,
		},
		Router: router.Options{
			Margin:       o.RouteMargin,
			MaxGridNodes: o.RouteMaxGridNodes,
		},
		ClickThreshold: o.ClickThreshold,
		HitRadius:      o.HitRadius,
		Style:          o.Style,
	}
}
