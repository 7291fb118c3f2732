// Package svg builds SVG path data for connector routes.
package svg

import (
	"fmt"
	"math"
	"strings"

	"oss.terrastruct.com/canvas/lib/geo"
)

type PathContext struct {
	Commands []string
	Start    *geo.Point
	Current  *geo.Point
}

// TODO probably use math.Big
func chopPrecision(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func NewPathContext() *PathContext {
	return &PathContext{}
}

func (c *PathContext) StartAt(p *geo.Point) {
	c.Start = p.Copy()
	c.Commands = append(c.Commands, fmt.Sprintf("M %v %v", chopPrecision(p.X), chopPrecision(p.Y)))
	c.Current = p.Copy()
}

func (c *PathContext) L(p *geo.Point) {
	c.Commands = append(c.Commands, fmt.Sprintf("L %v %v", chopPrecision(p.X), chopPrecision(p.Y)))
	c.Current = p.Copy()
}

// C draws a cubic Bezier from the current point to end through control points c1 and c2.
func (c *PathContext) C(c1, c2, end *geo.Point) {
	c.Commands = append(c.Commands, fmt.Sprintf(
		"C %v %v %v %v %v %v",
		chopPrecision(c1.X), chopPrecision(c1.Y),
		chopPrecision(c2.X), chopPrecision(c2.Y),
		chopPrecision(end.X), chopPrecision(end.Y),
	))
	c.Current = end.Copy()
}

func (c *PathContext) PathData() string {
	return strings.Join(c.Commands, " ")
}

// Polyline returns the M/L path data through every point of route.
func Polyline(route geo.Route) string {
	if len(route) == 0 {
		return ""
	}
	c := NewPathContext()
	c.StartAt(route[0])
	for _, p := range route[1:] {
		c.L(p)
	}
	return c.PathData()
}
