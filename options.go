package quizdeck

import (
	"log/slog"

	"github.com/tsawler/quizdeck/layout"
	"github.com/tsawler/quizdeck/ocr"
)

// Renderer writes a laid-out deck to a presentation file. *pptx.Writer is
// the implementation used when none is set.
type Renderer interface {
	Render(deck *layout.Deck, path string) error
}

// convertOptions holds everything a Converter carries besides its input.
type convertOptions struct {
	cfg Config

	// scratchDir overrides the per-run directory under cfg.ScratchRoot.
	scratchDir string

	logger     *slog.Logger
	recognizer ocr.Recognizer
	renderer   Renderer

	// skipImages converts text only: no rendering, OCR or diagrams.
	skipImages bool

	manifestPath string
	previewDir   string
	previewWidth int
}

// defaultOptions returns the options used by Open.
func defaultOptions() convertOptions {
	return convertOptions{cfg: DefaultConfig()}
}

// clone copies o. Config holds no reference fields; the logger, recognizer
// and renderer are shared.
func (o convertOptions) clone() convertOptions {
	return o
}
