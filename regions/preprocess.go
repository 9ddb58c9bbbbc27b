package regions

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// toGray converts img to an 8-bit grayscale image whose bounds start at the
// origin.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	src := imaging.Grayscale(img)
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			out[x] = row[x*4]
		}
	}
	return dst
}

// blur applies a Gaussian blur with the given sigma. A non-positive sigma
// returns g unchanged.
func blur(g *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return g
	}
	return toGray(imaging.Blur(g, sigma))
}

// integral returns the summed-area table of g, sized (w+1)*(h+1).
func integral(g *image.Gray) []int64 {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	sum := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var row int64
		for x := 0; x < w; x++ {
			row += int64(g.Pix[y*g.Stride+x])
			sum[(y+1)*(w+1)+x+1] = sum[y*(w+1)+x+1] + row
		}
	}
	return sum
}

// adaptiveThreshold binarizes g against the mean of a size x size window
// minus c. With invert set, pixels at or below the local threshold become
// foreground (255); otherwise pixels above it do. Windows are clipped at the
// image border.
func adaptiveThreshold(g *image.Gray, size int, c float64, invert bool) *image.Gray {
	if size < 3 {
		size = 3
	}
	if size%2 == 0 {
		size++
	}
	w, h := g.Rect.Dx(), g.Rect.Dy()
	sum := integral(g)
	r := size / 2
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		y0, y1 := max(y-r, 0), min(y+r+1, h)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-r, 0), min(x+r+1, w)
			total := sum[y1*(w+1)+x1] - sum[y0*(w+1)+x1] - sum[y1*(w+1)+x0] + sum[y0*(w+1)+x0]
			mean := float64(total) / float64((x1-x0)*(y1-y0))
			above := float64(g.Pix[y*g.Stride+x]) > mean-c
			if above != invert {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// clahe performs contrast limited adaptive histogram equalization over a
// tiles x tiles grid. clipLimit is relative to a uniform histogram.
func clahe(g *image.Gray, clipLimit float64, tiles int) *image.Gray {
	if tiles < 1 {
		tiles = 8
	}
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	tw, th := max((w+tiles-1)/tiles, 1), max((h+tiles-1)/tiles, 1)
	nx, ny := (w+tw-1)/tw, (h+th-1)/th

	luts := make([][256]uint8, nx*ny)
	for ty := 0; ty < ny; ty++ {
		for tx := 0; tx < nx; tx++ {
			x0, y0 := tx*tw, ty*th
			x1, y1 := min(x0+tw, w), min(y0+th, h)
			var hist [256]int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[g.Pix[y*g.Stride+x]]++
				}
			}
			area := (x1 - x0) * (y1 - y0)
			limit := max(int(clipLimit*float64(area)/256), 1)
			excess := 0
			for i := range hist {
				if hist[i] > limit {
					excess += hist[i] - limit
					hist[i] = limit
				}
			}
			inc, rem := excess/256, excess%256
			for i := range hist {
				hist[i] += inc
				if i < rem {
					hist[i]++
				}
			}
			lut := &luts[ty*nx+tx]
			cdf := 0
			for i := range hist {
				cdf += hist[i]
				lut[i] = uint8(min(255, cdf*255/area))
			}
		}
	}

	// Bilinear interpolation between the four nearest tile centres.
	cell := func(pos float64, size, n int) (int, int, float64) {
		f := (pos+0.5)/float64(size) - 0.5
		if f <= 0 {
			return 0, 0, 0
		}
		i := int(math.Floor(f))
		if i >= n-1 {
			return n - 1, n - 1, 0
		}
		return i, i + 1, f - float64(i)
	}
	for y := 0; y < h; y++ {
		ya, yb, fy := cell(float64(y), th, ny)
		for x := 0; x < w; x++ {
			xa, xb, fx := cell(float64(x), tw, nx)
			v := g.Pix[y*g.Stride+x]
			top := (1-fx)*float64(luts[ya*nx+xa][v]) + fx*float64(luts[ya*nx+xb][v])
			bot := (1-fx)*float64(luts[yb*nx+xa][v]) + fx*float64(luts[yb*nx+xb][v])
			dst.Pix[y*dst.Stride+x] = uint8(math.Round((1-fy)*top + fy*bot))
		}
	}
	return dst
}

// closeBinary is a morphological close (dilate, then erode) with a k x k
// square. Pixels outside the image never erode the border.
func closeBinary(bin *image.Gray, k int) *image.Gray {
	if k < 2 {
		return bin
	}
	return morph(morph(bin, k, false), k, true)
}

// morph dilates (erode=false) or erodes with a separable k x k square.
func morph(src *image.Gray, k int, erode bool) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	r := k / 2
	pass := func(in *image.Gray, horizontal bool) *image.Gray {
		out := image.NewGray(image.Rect(0, 0, w, h))
		lines, length := h, w
		if !horizontal {
			lines, length = w, h
		}
		at := func(line, i int) int {
			if horizontal {
				return line*in.Stride + i
			}
			return i*in.Stride + line
		}
		for line := 0; line < lines; line++ {
			for i := 0; i < length; i++ {
				lo, hi := max(i-r, 0), min(i+k-r, length)
				set := erode
				for j := lo; j < hi; j++ {
					on := in.Pix[at(line, j)] != 0
					if erode && !on {
						set = false
						break
					}
					if !erode && on {
						set = true
						break
					}
				}
				if set {
					out.Pix[at(line, i)] = 255
				}
			}
		}
		return out
	}
	return pass(pass(src, true), false)
}
