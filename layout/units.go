package layout

import (
	"fmt"
	"math"
)

// EMU is an English Metric Unit, the DrawingML length unit.
type EMU int64

// EMUPerInch is the number of EMUs in one inch.
const EMUPerInch = 914400

// Inches converts inches to EMUs.
func Inches(in float64) EMU {
	return EMU(math.Round(in * EMUPerInch))
}

// Inches returns e in inches.
func (e EMU) Inches() float64 {
	return float64(e) / EMUPerInch
}

// Rect is a slide rectangle in EMUs.
type Rect struct {
	Left, Top, Width, Height EMU
}

// Right returns the right edge.
func (r Rect) Right() EMU { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() EMU { return r.Top + r.Height }

func (r Rect) String() string {
	return fmt.Sprintf("(%.2fin,%.2fin %.2fx%.2fin)", r.Left.Inches(), r.Top.Inches(), r.Width.Inches(), r.Height.Inches())
}

func inchRect(left, top, width, height float64) Rect {
	return Rect{Left: Inches(left), Top: Inches(top), Width: Inches(width), Height: Inches(height)}
}
