// Package regions locates question-number anchors and candidate diagrams on
// rendered page images.
//
// Anchors come from OCR, run over up to three preprocessed versions of the
// page until enough distinct question numbers are found. Diagrams come from
// contour analysis of a thresholded page: connected components are traced,
// filtered by size, aspect and solidity, and classified as circular or
// rectangular from a polygon approximation.
package regions

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/ocr"
	"github.com/tsawler/quizdeck/variant"
)

// ErrUnknownPass is returned for an anchor pass name that is not one of
// PassAdaptive, PassCLAHE or PassGray.
var ErrUnknownPass = errors.New("unknown anchor pass")

// Anchor preprocessing passes.
const (
	PassAdaptive = "adaptive"
	PassCLAHE    = "clahe"
	PassGray     = "gray"
)

// anchorToken is a bare question number such as "12.".
var anchorToken = regexp.MustCompile(`^(\d{1,2})\.$`)

// PageRegions holds what was found on one page.
type PageRegions struct {
	Width, Height int
	Anchors       []model.AnchorRegion
	Diagrams      []model.DiagramRegion
}

// Detector finds anchors and diagrams on page images.
type Detector struct {
	cfg    variant.Detection
	rec    ocr.Recognizer
	logger *slog.Logger
}

// New creates a Detector. rec may be nil, in which case no anchors are
// reported. A nil logger discards output.
func New(cfg variant.Detection, rec ocr.Recognizer, logger *slog.Logger) (*Detector, error) {
	for _, p := range cfg.AnchorPasses {
		switch p {
		case PassAdaptive, PassCLAHE, PassGray:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownPass, p)
		}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{cfg: cfg, rec: rec, logger: logger.With("stage", "regions")}, nil
}

// Detect runs anchor and diagram detection over img.
func (d *Detector) Detect(img image.Image) (*PageRegions, error) {
	start := time.Now()
	gray := toGray(img)
	res := &PageRegions{Width: gray.Rect.Dx(), Height: gray.Rect.Dy()}

	if d.rec != nil {
		anchors, err := d.Anchors(gray)
		if err != nil {
			return nil, err
		}
		res.Anchors = anchors
	}
	res.Diagrams = d.Diagrams(gray)

	d.logger.Debug("detected regions",
		"anchors", len(res.Anchors),
		"diagrams", len(res.Diagrams),
		"elapsed", time.Since(start).String())
	return res, nil
}

// Anchors runs the configured OCR passes and returns one anchor per question
// number, keeping the most confident sighting, sorted by y then x. Passes
// stop once MinAnchors distinct numbers are known. A failing pass is logged
// and skipped; an error is returned only when every pass fails.
func (d *Detector) Anchors(img image.Image) ([]model.AnchorRegion, error) {
	if d.rec == nil {
		return nil, nil
	}
	gray := toGray(img)
	best := make(map[int]model.AnchorRegion)
	var lastErr error
	ran := 0

	for _, pass := range d.cfg.AnchorPasses {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, d.prepare(pass, gray), imaging.PNG); err != nil {
			return nil, fmt.Errorf("encoding %s pass: %w", pass, err)
		}
		words, err := d.rec.Words(buf.Bytes())
		if err != nil {
			d.logger.Warn("OCR pass failed", "pass", pass, "error", err)
			lastErr = err
			continue
		}
		ran++
		for _, w := range words {
			m := anchorToken.FindStringSubmatch(w.Text)
			if m == nil {
				continue
			}
			n, _ := strconv.Atoi(m[1])
			if prev, ok := best[n]; ok && prev.Confidence >= w.Confidence {
				continue
			}
			best[n] = model.AnchorRegion{Number: n, Box: model.RectFrom(w.Box), Confidence: w.Confidence}
		}
		d.logger.Debug("OCR pass", "pass", pass, "words", len(words), "anchors", len(best))
		if len(best) >= d.cfg.MinAnchors {
			break
		}
	}
	if ran == 0 && lastErr != nil {
		return nil, fmt.Errorf("anchor detection: %w", lastErr)
	}

	anchors := make([]model.AnchorRegion, 0, len(best))
	for _, a := range best {
		anchors = append(anchors, a)
	}
	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].Box.Y != anchors[j].Box.Y {
			return anchors[i].Box.Y < anchors[j].Box.Y
		}
		return anchors[i].Box.X < anchors[j].Box.X
	})
	return anchors, nil
}

func (d *Detector) prepare(pass string, gray *image.Gray) *image.Gray {
	switch pass {
	case PassAdaptive:
		// Glyphs need a wider window than line art.
		return adaptiveThreshold(gray, max(d.cfg.ThresholdSize, 31), float64(d.cfg.ThresholdC), false)
	case PassCLAHE:
		return clahe(gray, 2.0, 8)
	default:
		return gray
	}
}

type candidate struct {
	region  model.DiagramRegion
	contour []image.Point
}

// Diagrams finds candidate figures on img, sorted by y then x. Candidates
// lying inside another accepted candidate are dropped.
func (d *Detector) Diagrams(img image.Image) []model.DiagramRegion {
	gray := toGray(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	bin := adaptiveThreshold(blur(gray, d.cfg.BlurSigma), d.cfg.ThresholdSize, float64(d.cfg.ThresholdC), true)
	bin = closeBinary(bin, d.cfg.CloseKernel)

	pageArea := float64(w * h)
	var cands []candidate
	for _, c := range components(bin) {
		box := model.RectFrom(c.bounds)
		if box.Width < d.cfg.MinSide || box.Height < d.cfg.MinSide {
			continue
		}
		if aspect := box.Aspect(); aspect < d.cfg.MinAspect || aspect > d.cfg.MaxAspect {
			continue
		}
		if d.cfg.MaxPageFraction > 0 && float64(box.Area()) > d.cfg.MaxPageFraction*pageArea {
			continue
		}

		contour := trace(bin, c.start, 4*c.pixels+16)
		area := polygonArea(contour)
		if area < d.cfg.MinArea {
			continue
		}
		hullArea := polygonArea(convexHull(contour))
		if hullArea == 0 || area/hullArea < d.cfg.MinSolidity {
			continue
		}

		shape := model.ShapeRectangular
		approx := approxPolygon(contour, d.cfg.ApproxEpsilon*perimeter(contour))
		if aspect := box.Aspect(); len(approx) >= 6 && aspect > 0.8 && aspect < 1.2 {
			shape = model.ShapeCircular
		}
		cands = append(cands, candidate{region: model.DiagramRegion{Box: box, Shape: shape}, contour: contour})
	}

	var out []model.DiagramRegion
	for i, c := range cands {
		if !nested(i, cands) {
			out = append(out, c.region)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Box.Y != out[j].Box.Y {
			return out[i].Box.Y < out[j].Box.Y
		}
		return out[i].Box.X < out[j].Box.X
	})
	return out
}

func nested(i int, cands []candidate) bool {
	c := cands[i]
	for j, o := range cands {
		if j == i || !c.region.Box.Image().In(o.region.Box.Image()) {
			continue
		}
		if inside(c.contour[0], o.contour) {
			return true
		}
	}
	return false
}
