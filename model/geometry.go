package model

import (
	"fmt"
	"image"
)

// Rect is an integer pixel rectangle in raster coordinates (origin at the
// top-left, y growing downward). X and Y are the top-left corner.
type Rect struct {
	X, Y          int
	Width, Height int
}

// RectFrom converts an image.Rectangle.
func RectFrom(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() float64 { return float64(r.X) + float64(r.Width)/2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return float64(r.Y) + float64(r.Height)/2 }

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width * r.Height }

// Aspect returns Width/Height, or 0 for a degenerate rectangle.
func (r Rect) Aspect() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Pad grows the rectangle by n pixels on every side.
func (r Rect) Pad(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Clamp restricts the rectangle to [0,width) x [0,height).
func (r Rect) Clamp(width, height int) Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.Right(), width), min(r.Bottom(), height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Image converts to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// ShapeClass is the coarse shape of a detected diagram.
type ShapeClass int

const (
	ShapeRectangular ShapeClass = iota
	ShapeCircular
)

func (s ShapeClass) String() string {
	switch s {
	case ShapeCircular:
		return "circular"
	default:
		return "rectangular"
	}
}

// AnchorRegion is a question-number token found on a rendered page.
type AnchorRegion struct {
	Number     int
	Box        Rect
	Confidence float64
}

// DiagramRegion is a candidate figure on a rendered page.
type DiagramRegion struct {
	Box   Rect
	Shape ShapeClass
}
