// Package quizdeck converts Word documents of standardized test questions
// into styled slide decks.
//
// Basic usage:
//
//	res, err := quizdeck.Open("paper.docx").Convert(ctx, "paper.pptx")
//	if err != nil {
//	    // handle error
//	}
//	if len(res.Warnings) > 0 {
//	    log.Println("Warnings:", quizdeck.FormatWarnings(res.Warnings))
//	}
//
// With options:
//
//	res, err := quizdeck.Open("paper.docx").
//	    Variant("passage").
//	    DPI(300).
//	    CharsPerSlide(725).
//	    Manifest("paper.xlsx").
//	    Convert(ctx, "paper.pptx")
//
// Diagram extraction renders the document with LibreOffice and poppler and
// locates question numbers with Tesseract (build with -tags ocr). Use
// SkipImages for a text-only deck when those are not installed.
//
// The lower-level packages (docx, parser, raster, regions, associate,
// layout, pptx) can be used on their own.
package quizdeck

import (
	"log/slog"

	"github.com/tsawler/quizdeck/ocr"
)

// Open returns a Converter for the DOCX file at filename. Nothing is read
// until a terminal operation such as Convert or Parse.
//
// Example:
//
//	res, err := quizdeck.Open("paper.docx").Convert(ctx, "paper.pptx")
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := quizdeck.Must(quizdeck.Open("paper.docx").SkipImages().Convert(ctx, "paper.pptx"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustParse is a helper that wraps a call to Parse and panics if the error
// is non-nil. It discards warnings and returns just the blocks.
func MustParse[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Converter provides a fluent interface for configuring a conversion. Each
// configuration method returns a new Converter, so a base configuration can
// be shared and specialized safely.
type Converter struct {
	filename string
	options  convertOptions
}

func (c *Converter) clone() *Converter {
	return &Converter{filename: c.filename, options: c.options.clone()}
}

// Input returns a Converter for another document with the same settings.
func (c *Converter) Input(filename string) *Converter {
	n := c.clone()
	n.filename = filename
	return n
}

// Config replaces every setting held in a Config, for example one returned
// by LoadConfig.
func (c *Converter) Config(cfg Config) *Converter {
	n := c.clone()
	n.options.cfg = cfg
	return n
}

// Variant selects a built-in template by name (mcq1, mcq2, mcq3, passage).
// It clears any variant file.
func (c *Converter) Variant(name string) *Converter {
	n := c.clone()
	n.options.cfg.Variant = name
	n.options.cfg.VariantFile = ""
	return n
}

// VariantFile selects a YAML template overlay. See variant.Load.
func (c *Converter) VariantFile(path string) *Converter {
	n := c.clone()
	n.options.cfg.VariantFile = path
	return n
}

// DPI sets the page render resolution used for diagram detection.
func (c *Converter) DPI(dpi int) *Converter {
	n := c.clone()
	n.options.cfg.DPI = dpi
	return n
}

// CharsPerSlide sets the passage continuation budget in runes. It must be
// between MinCharsPerSlide and MaxCharsPerSlide.
func (c *Converter) CharsPerSlide(chars int) *Converter {
	n := c.clone()
	n.options.cfg.CharsPerSlide = chars
	return n
}

// FirstBudget sets the rune budget of a passage's first slide.
func (c *Converter) FirstBudget(chars int) *Converter {
	n := c.clone()
	n.options.cfg.FirstBudget = chars
	return n
}

// ScratchDir uses dir for intermediate files instead of a fresh
// run-<uuid> directory. The directory is emptied first and removed when the
// conversion ends.
func (c *Converter) ScratchDir(dir string) *Converter {
	n := c.clone()
	n.options.scratchDir = dir
	return n
}

// DiagramDir keeps the cropped diagrams in dir/<input stem> after the
// conversion.
func (c *Converter) DiagramDir(dir string) *Converter {
	n := c.clone()
	n.options.cfg.DiagramDir = dir
	return n
}

// Logger sets the logger. By default nothing is logged.
func (c *Converter) Logger(logger *slog.Logger) *Converter {
	n := c.clone()
	n.options.logger = logger
	return n
}

// Recognizer replaces the Tesseract client used to find question numbers on
// page images.
func (c *Converter) Recognizer(rec ocr.Recognizer) *Converter {
	n := c.clone()
	n.options.recognizer = rec
	return n
}

// Renderer replaces the PPTX writer.
func (c *Converter) Renderer(r Renderer) *Converter {
	n := c.clone()
	n.options.renderer = r
	return n
}

// SkipImages converts text only. The document is not rendered and no
// external binaries are needed.
func (c *Converter) SkipImages() *Converter {
	n := c.clone()
	n.options.skipImages = true
	return n
}

// Manifest also writes an XLSX QA workbook to path.
func (c *Converter) Manifest(path string) *Converter {
	n := c.clone()
	n.options.manifestPath = path
	return n
}

// Preview also writes one PNG per slide into dir. A width of zero uses
// preview.DefaultWidth.
func (c *Converter) Preview(dir string, width int) *Converter {
	n := c.clone()
	n.options.previewDir = dir
	n.options.previewWidth = width
	return n
}
