package regions

import (
	"image"
	"math"
	"sort"
)

// component is one 8-connected foreground blob of a binary image.
type component struct {
	start  image.Point // first pixel in raster order
	bounds image.Rectangle
	pixels int
}

// components labels the 8-connected foreground regions of bin.
func components(bin *image.Gray) []component {
	w, h := bin.Rect.Dx(), bin.Rect.Dy()
	labels := make([]int32, w*h)
	var comps []component
	var stack []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if labels[i] != 0 || bin.Pix[y*bin.Stride+x] == 0 {
				continue
			}
			label := int32(len(comps) + 1)
			c := component{start: image.Pt(x, y), bounds: image.Rect(x, y, x+1, y+1)}
			labels[i] = label
			stack = append(stack[:0], i)
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := p%w, p/w
				c.pixels++
				c.bounds = c.bounds.Union(image.Rect(px, py, px+1, py+1))
				for _, d := range ring {
					nx, ny := px+d.X, py+d.Y
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					ni := ny*w + nx
					if labels[ni] == 0 && bin.Pix[ny*bin.Stride+nx] != 0 {
						labels[ni] = label
						stack = append(stack, ni)
					}
				}
			}
			comps = append(comps, c)
		}
	}
	return comps
}

// ring lists the 8 neighbours clockwise (y down), starting east.
var ring = [8]image.Point{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

func ringIndex(d image.Point) int {
	for i, p := range ring {
		if p == d {
			return i
		}
	}
	return -1
}

// trace follows the outer boundary of the blob whose first raster pixel is
// start, using Moore neighbour tracing. The boundary is returned clockwise
// without repeating start.
func trace(bin *image.Gray, start image.Point, limit int) []image.Point {
	w, h := bin.Rect.Dx(), bin.Rect.Dy()
	fg := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && bin.Pix[p.Y*bin.Stride+p.X] != 0
	}

	contour := []image.Point{start}
	cur, back := start, start.Add(ring[4])
	var second image.Point
	first := true
	for steps := 0; steps < limit; steps++ {
		k := ringIndex(back.Sub(cur))
		var next, nb image.Point
		found := false
		for i := 1; i <= 8; i++ {
			q := cur.Add(ring[(k+i)%8])
			if fg(q) {
				next, nb, found = q, cur.Add(ring[(k+i-1)%8]), true
				break
			}
		}
		if !found {
			break
		}
		if cur == start {
			if first {
				second, first = next, false
			} else if next == second {
				break
			}
		}
		cur, back = next, nb
		contour = append(contour, cur)
	}
	if n := len(contour); n > 1 && contour[n-1] == start {
		contour = contour[:n-1]
	}
	return contour
}

// polygonArea is the absolute shoelace area of a closed polygon.
func polygonArea(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var s int64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		s += int64(p.X)*int64(q.Y) - int64(q.X)*int64(p.Y)
	}
	return math.Abs(float64(s)) / 2
}

// perimeter is the length of the closed polygon through pts.
func perimeter(pts []image.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var total float64
	for i, p := range pts {
		total += dist(p, pts[(i+1)%len(pts)])
	}
	return total
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func cross(o, a, b image.Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

// convexHull returns the hull of pts (monotone chain), without collinear
// points.
func convexHull(pts []image.Point) []image.Point {
	ps := append([]image.Point(nil), pts...)
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		return ps[i].Y < ps[j].Y
	})
	uniq := ps[:0]
	for i, p := range ps {
		if i == 0 || p != ps[i-1] {
			uniq = append(uniq, p)
		}
	}
	ps = uniq
	if len(ps) < 3 {
		return ps
	}

	hull := make([]image.Point, 0, 2*len(ps))
	for _, p := range ps {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(ps) - 2; i >= 0; i-- {
		p := ps[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// approxPolygon simplifies a closed contour with Douglas-Peucker. The
// contour is first split at its two most distant points.
func approxPolygon(pts []image.Point, eps float64) []image.Point {
	if len(pts) < 3 {
		return append([]image.Point(nil), pts...)
	}
	b := farthest(pts, 0)
	a := farthest(pts, b)
	if a == b {
		return []image.Point{pts[a]}
	}
	i, j := min(a, b), max(a, b)

	first := simplify(pts[i:j+1], eps)
	wrap := make([]image.Point, 0, len(pts)-j+i+1)
	wrap = append(wrap, pts[j:]...)
	wrap = append(wrap, pts[:i+1]...)
	second := simplify(wrap, eps)

	out := append([]image.Point(nil), first...)
	return append(out, second[1:len(second)-1]...)
}

func farthest(pts []image.Point, from int) int {
	best, bestD := from, -1.0
	for i, p := range pts {
		if d := dist(p, pts[from]); d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

// simplify is open-chain Douglas-Peucker; both endpoints are kept.
func simplify(pts []image.Point, eps float64) []image.Point {
	n := len(pts)
	if n < 3 {
		return append([]image.Point(nil), pts...)
	}
	idx, dmax := 0, 0.0
	for k := 1; k < n-1; k++ {
		if d := lineDist(pts[k], pts[0], pts[n-1]); d > dmax {
			idx, dmax = k, d
		}
	}
	if dmax <= eps {
		return []image.Point{pts[0], pts[n-1]}
	}
	left := simplify(pts[:idx+1], eps)
	right := simplify(pts[idx:], eps)
	return append(left[:len(left)-1], right...)
}

// lineDist is the distance from p to the line through a and b.
func lineDist(p, a, b image.Point) float64 {
	l := dist(a, b)
	if l == 0 {
		return dist(p, a)
	}
	return math.Abs(float64(cross(a, b, p))) / l
}

// inside reports whether p lies within the closed polygon (ray casting).
func inside(p image.Point, poly []image.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := float64(b.X-a.X)*float64(p.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(p.X) < x {
				in = !in
			}
		}
	}
	return in
}
