// Package preview rasterizes laid-out slides to PNG thumbnails so a deck can
// be checked without opening PowerPoint. Text is drawn with the Go fonts;
// the variant's typeface is not substituted.
package preview

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/tsawler/quizdeck/layout"
	"github.com/tsawler/quizdeck/variant"
)

// DefaultWidth is the preview width in pixels.
const DefaultWidth = 1280

// lineSpacing is the baseline distance as a multiple of the font size.
const lineSpacing = 1.2

type faceKey struct {
	bold bool
	px   int
}

// Renderer draws slides. It caches font faces and is not safe for concurrent
// use.
type Renderer struct {
	width   int
	logger  *slog.Logger
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
}

// New creates a Renderer producing images width pixels wide. A width of zero
// or less uses DefaultWidth; a nil logger discards output.
func New(width int, logger *slog.Logger) (*Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	return &Renderer{
		width:   width,
		logger:  logger.With("stage", "preview"),
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Render writes one PNG per slide into dir as slide-001.png, slide-002.png
// and so on, and returns the paths in slide order.
func (r *Renderer) Render(deck *layout.Deck, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating preview dir: %w", err)
	}
	paths := make([]string, 0, len(deck.Slides))
	for i := range deck.Slides {
		img, err := r.Slide(deck, i)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("slide-%03d.png", i+1))
		if err := imaging.Save(img, path); err != nil {
			return paths, fmt.Errorf("saving preview %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	r.logger.Info("rendered previews", "slides", len(paths), "dir", dir)
	return paths, nil
}

// Slide draws slide i of deck.
func (r *Renderer) Slide(deck *layout.Deck, i int) (image.Image, error) {
	if i < 0 || i >= len(deck.Slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", i, len(deck.Slides)-1)
	}
	if deck.Width <= 0 || deck.Height <= 0 {
		return nil, fmt.Errorf("deck has no dimensions")
	}

	scale := float64(r.width) / float64(deck.Width) // pixels per EMU
	height := int(float64(deck.Height)*scale + 0.5)
	dc := gg.NewContext(r.width, height)
	setColor(dc, deck.Background)
	dc.Clear()

	for _, el := range deck.Slides[i].Elements() {
		x, y, w, h := box(el.Bounds(), scale)
		switch el := el.(type) {
		case *layout.Shape:
			setColor(dc, el.Fill)
			dc.DrawRectangle(x, y, w, h)
			dc.Fill()
		case *layout.Picture:
			r.picture(dc, el, x, y, w, h)
		case *layout.TextBox:
			r.text(dc, el, x, y, w, scale)
		}
	}
	return dc.Image(), nil
}

func (r *Renderer) picture(dc *gg.Context, p *layout.Picture, x, y, w, h float64) {
	src, err := imaging.Open(p.Path)
	if err != nil || w < 1 || h < 1 {
		r.logger.Warn("preview picture unavailable; drawing outline", "path", p.Path, "error", err)
		dc.SetRGB(0.5, 0.5, 0.5)
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
		return
	}
	dst := image.NewNRGBA(image.Rect(0, 0, int(w+0.5), int(h+0.5)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	dc.DrawImage(dst, int(x+0.5), int(y+0.5))
}

// text draws the box's paragraphs top-down with word wrapping. Text that
// runs past the box bottom is still drawn, as PowerPoint does.
func (r *Renderer) text(dc *gg.Context, t *layout.TextBox, x, y, w, scale float64) {
	pxPerPoint := scale * layout.EMUPerInch / 72
	cursor := y
	for _, p := range t.Paragraphs {
		px := p.Style.Size * pxPerPoint
		if px < 1 {
			px = 1
		}
		face := r.face(p.Style.Bold, px)
		dc.SetFontFace(face)
		setColor(dc, p.Style.Color)

		ax, tx := 0.0, x
		switch p.Style.Align {
		case variant.AlignCenter:
			ax, tx = 0.5, x+w/2
		case variant.AlignRight:
			ax, tx = 1, x+w
		}

		lineHeight := px * lineSpacing
		for _, line := range strings.Split(p.Text, "\n") {
			wrapped := dc.WordWrap(line, w)
			if len(wrapped) == 0 {
				wrapped = []string{""}
			}
			for _, l := range wrapped {
				cursor += lineHeight
				dc.DrawStringAnchored(l, tx, cursor, ax, 0)
			}
		}
		cursor += p.SpaceAfter * pxPerPoint
	}
}

func (r *Renderer) face(bold bool, px float64) font.Face {
	key := faceKey{bold: bold, px: int(px + 0.5)}
	if f, ok := r.faces[key]; ok {
		return f
	}
	ttf := r.regular
	if bold {
		ttf = r.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: float64(key.px), Hinting: font.HintingNone})
	r.faces[key] = f
	return f
}

func box(b layout.Rect, scale float64) (x, y, w, h float64) {
	return float64(b.Left) * scale, float64(b.Top) * scale, float64(b.Width) * scale, float64(b.Height) * scale
}

func setColor(dc *gg.Context, c variant.Color) {
	dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}
