package regions

import (
	"bytes"
	"image"
	_ "image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

// filled returns a w x h binary image with the given rectangles set.
func filled(w, h int, rects ...image.Rectangle) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				g.Pix[y*g.Stride+x] = 255
			}
		}
	}
	return g
}

func TestComponents(t *testing.T) {
	bin := filled(30, 30,
		image.Rect(1, 1, 11, 11),
		image.Rect(11, 11, 13, 13), // touches the first diagonally
		image.Rect(20, 5, 25, 8),
	)
	comps := components(bin)
	require.Len(t, comps, 2)

	assert.Equal(t, image.Pt(1, 1), comps[0].start)
	assert.Equal(t, image.Rect(1, 1, 13, 13), comps[0].bounds)
	assert.Equal(t, 104, comps[0].pixels)
	assert.Equal(t, image.Pt(20, 5), comps[1].start)
	assert.Equal(t, 15, comps[1].pixels)
}

func TestTrace_Square(t *testing.T) {
	bin := filled(12, 12, image.Rect(1, 1, 11, 11))
	contour := trace(bin, image.Pt(1, 1), 1000)

	assert.Len(t, contour, 36)
	assert.Equal(t, image.Pt(1, 1), contour[0])
	assert.Equal(t, image.Pt(2, 1), contour[1]) // clockwise
	assert.Equal(t, 81.0, polygonArea(contour))
	assert.Equal(t, 36.0, perimeter(contour))

	hull := convexHull(contour)
	assert.Len(t, hull, 4)
	assert.Equal(t, 81.0, polygonArea(hull))

	approx := approxPolygon(contour, 0.04*perimeter(contour))
	assert.ElementsMatch(t, []image.Point{{1, 1}, {10, 1}, {10, 10}, {1, 10}}, approx)
}

func TestTrace_SinglePixel(t *testing.T) {
	bin := filled(5, 5, image.Rect(2, 2, 3, 3))
	assert.Equal(t, []image.Point{{2, 2}}, trace(bin, image.Pt(2, 2), 100))
}

func TestTrace_Concave(t *testing.T) {
	// An L shape: the hull is larger than the traced outline.
	bin := filled(22, 22, image.Rect(1, 1, 6, 21), image.Rect(6, 16, 21, 21))
	contour := trace(bin, image.Pt(1, 1), 1000)
	area := polygonArea(contour)
	hull := polygonArea(convexHull(contour))
	assert.Less(t, area/hull, 0.7)
}

func TestInside(t *testing.T) {
	square := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.True(t, inside(image.Pt(5, 5), square))
	assert.False(t, inside(image.Pt(15, 5), square))
	assert.False(t, inside(image.Pt(5, -1), square))
}

func TestLineDist(t *testing.T) {
	assert.Equal(t, 3.0, lineDist(image.Pt(2, 3), image.Pt(0, 0), image.Pt(10, 0)))
	assert.Equal(t, 5.0, lineDist(image.Pt(3, 4), image.Pt(0, 0), image.Pt(0, 0)))
}
