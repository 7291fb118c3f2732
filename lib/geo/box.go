package geo

import "fmt"

type Box struct {
	TopLeft *Point
	Width   float64
	Height  float64
}

func NewBox(tl *Point, width, height float64) *Box {
	return &Box{
		TopLeft: tl,
		Width:   width,
		Height:  height,
	}
}

func (b *Box) Copy() *Box {
	if b == nil {
		return nil
	}
	return NewBox(b.TopLeft.Copy(), b.Width, b.Height)
}

func (b *Box) Center() *Point {
	return NewPoint(b.TopLeft.X+b.Width/2, b.TopLeft.Y+b.Height/2)
}

func (b *Box) Right() float64 {
	return b.TopLeft.X + b.Width
}

func (b *Box) Bottom() float64 {
	return b.TopLeft.Y + b.Height
}

func (b *Box) Rect() Rect {
	return Rect{
		Left:   b.TopLeft.X,
		Top:    b.TopLeft.Y,
		Right:  b.Right(),
		Bottom: b.Bottom(),
	}
}

// Contains reports whether p is inside b or on its boundary.
func (b *Box) Contains(p *Point) bool {
	return p.X >= b.TopLeft.X && p.X <= b.Right() &&
		p.Y >= b.TopLeft.Y && p.Y <= b.Bottom()
}

// ContainsStrict reports whether p is in the interior of b.
func (b *Box) ContainsStrict(p *Point, e float64) bool {
	return p.X > b.TopLeft.X+e && p.X < b.Right()-e &&
		p.Y > b.TopLeft.Y+e && p.Y < b.Bottom()-e
}

// Inflate returns a copy of b grown by margin on every side.
func (b *Box) Inflate(margin float64) *Box {
	return NewBox(NewPoint(b.TopLeft.X-margin, b.TopLeft.Y-margin), b.Width+2*margin, b.Height+2*margin)
}

func (b *Box) ToString() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("{TopLeft: %s, Width: %.0f, Height: %.0f}", b.TopLeft.ToString(), b.Width, b.Height)
}
