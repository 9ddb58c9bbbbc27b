// Package associate assigns detected diagrams to question numbers and
// writes the padded crops.
package associate

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/regions"
	"github.com/tsawler/quizdeck/variant"
)

// Match pairs a diagram with the question that owns it.
type Match struct {
	Diagram model.DiagramRegion
	Number  int
}

// Nearest picks the anchor that owns d on a page of the given width.
//
// Anchors in the same half of the page as the diagram are preferred; when
// that half has none, every anchor is a candidate. Among the candidates the
// closest anchor below the diagram's vertical centre wins, and failing that
// the closest one above it.
func Nearest(width int, anchors []model.AnchorRegion, d model.DiagramRegion) (model.AnchorRegion, bool) {
	mid := float64(width) / 2
	right := d.Box.CenterX() >= mid

	var same []model.AnchorRegion
	for _, a := range anchors {
		if (a.Box.CenterX() >= mid) == right {
			same = append(same, a)
		}
	}
	if len(same) == 0 {
		same = anchors
	}

	cy := d.Box.CenterY()
	var below, above *model.AnchorRegion
	belowGap, aboveGap := math.Inf(1), math.Inf(1)
	for i := range same {
		a := &same[i]
		gap := float64(a.Box.Y) - cy
		switch {
		case gap > 0 && gap < belowGap:
			below, belowGap = a, gap
		case gap <= 0 && -gap < aboveGap:
			above, aboveGap = a, -gap
		}
	}
	if below != nil {
		return *below, true
	}
	if above != nil {
		return *above, true
	}
	return model.AnchorRegion{}, false
}

// Assign matches every diagram on a page to an anchor. Diagrams with no
// anchor are left out.
func Assign(width int, anchors []model.AnchorRegion, diagrams []model.DiagramRegion) []Match {
	var out []Match
	for _, d := range diagrams {
		if a, ok := Nearest(width, anchors, d); ok {
			out = append(out, Match{Diagram: d, Number: a.Number})
		}
	}
	return out
}

// Engine crops matched diagrams out of page images.
type Engine struct {
	padding variant.Padding
	logger  *slog.Logger
}

// New creates an Engine. A nil logger discards output.
func New(padding variant.Padding, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{padding: padding, logger: logger.With("stage", "associate")}
}

// Pad returns the crop margin for a shape class.
func (e *Engine) Pad(s model.ShapeClass) int {
	if s == model.ShapeCircular {
		return e.padding.Circular
	}
	return e.padding.Rectangular
}

// Associate matches the diagrams in found to anchors, writes each crop of img
// to outDir as p{page}_q{number}_{k}.png and appends the paths to imap when
// it is non-nil. It returns the written paths in order.
func (e *Engine) Associate(page int, found *regions.PageRegions, img image.Image, outDir string, imap *model.QuestionImageMap) ([]string, error) {
	if found == nil || len(found.Diagrams) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", outDir, err)
	}

	bounds := img.Bounds()
	matches := Assign(bounds.Dx(), found.Anchors, found.Diagrams)
	counts := make(map[int]int)
	var paths []string
	for _, m := range matches {
		r := m.Diagram.Box.Pad(e.Pad(m.Diagram.Shape)).Clamp(bounds.Dx(), bounds.Dy())
		if r.Empty() {
			e.logger.Warn("empty crop; skipping", "page", page, "question", m.Number, "box", m.Diagram.Box.String())
			continue
		}

		counts[m.Number]++
		path := filepath.Join(outDir, fmt.Sprintf("p%d_q%d_%d.png", page, m.Number, counts[m.Number]))
		crop := imaging.Crop(img, r.Image().Add(bounds.Min))
		if err := imaging.Save(crop, path); err != nil {
			return paths, fmt.Errorf("saving crop for question %d: %w", m.Number, err)
		}
		if imap != nil {
			imap.Append(m.Number, path)
		}
		paths = append(paths, path)
	}

	e.logger.Info("associated diagrams",
		"page", page,
		"diagrams", len(found.Diagrams),
		"matched", len(matches),
		"discarded", len(found.Diagrams)-len(matches))
	return paths, nil
}
