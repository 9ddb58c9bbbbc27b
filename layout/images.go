package layout

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// imageSize reads the pixel dimensions of an image file.
func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("%s has no pixels", path)
	}
	return cfg.Width, cfg.Height, nil
}

// Fit scales a w x h image to the largest size inside maxW x maxH that keeps
// its aspect ratio.
func Fit(w, h int, maxW, maxH EMU) (EMU, EMU) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return EMU(float64(w) * scale), EMU(float64(h) * scale)
}

// placed is an image ready to be put on a slide.
type placed struct {
	path string
	w, h int
}

// placeImages lays the images out in one row centred in region. Each image
// gets an equal share of the width, minus gaps, and the full height.
func placeImages(images []placed, region Rect, gap EMU) []Rect {
	if len(images) == 0 {
		return nil
	}
	n := EMU(len(images))
	cellW := (region.Width - gap*(n-1)) / n
	if cellW <= 0 {
		return nil
	}

	sizes := make([][2]EMU, len(images))
	var total EMU
	for i, img := range images {
		w, h := Fit(img.w, img.h, cellW, region.Height)
		sizes[i] = [2]EMU{w, h}
		total += w
	}
	total += gap * (n - 1)

	x := region.Left + (region.Width-total)/2
	out := make([]Rect, len(images))
	for i, s := range sizes {
		out[i] = Rect{Left: x, Top: region.Top, Width: s[0], Height: s[1]}
		x += s[0] + gap
	}
	return out
}
