package quizdeck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/tsawler/quizdeck/associate"
	"github.com/tsawler/quizdeck/docx"
	"github.com/tsawler/quizdeck/format"
	"github.com/tsawler/quizdeck/layout"
	"github.com/tsawler/quizdeck/manifest"
	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/ocr"
	"github.com/tsawler/quizdeck/parser"
	"github.com/tsawler/quizdeck/pptx"
	"github.com/tsawler/quizdeck/preview"
	"github.com/tsawler/quizdeck/raster"
	"github.com/tsawler/quizdeck/regions"
	"github.com/tsawler/quizdeck/variant"
)

// Result describes a finished conversion.
type Result struct {
	Output  string
	Variant string

	Questions int
	Passages  int
	Slides    int
	// Fallback is set when the numbered-segment parser produced the blocks.
	Fallback bool

	// Pages is the number of rendered page images; PagesExpected the page
	// count of the intermediate PDF.
	Pages         int
	PagesExpected int
	// Images are the diagram crops placed on slides. They are only kept on
	// disk when a diagram directory is configured.
	Images []string

	Manifest string
	Previews []string

	Warnings []Warning
	Elapsed  time.Duration
}

// conversion is the state of one Convert call.
type conversion struct {
	c       *Converter
	cfg     Config
	v       *variant.Variant
	logger  *slog.Logger
	scratch string

	warnings []Warning
}

func (r *conversion) warn(stage, msgFormat string, args ...any) {
	msg := fmt.Sprintf(msgFormat, args...)
	r.logger.Warn(msg, "stage", stage)
	r.warnings = append(r.warnings, Warning{Stage: stage, Message: msg})
}

func (c *Converter) logger() *slog.Logger {
	if c.options.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.options.logger
}

// prepare validates the input and configuration shared by Parse and Convert.
func (c *Converter) prepare() (*conversion, error) {
	if c.filename == "" {
		return nil, newError("open", KindIO, ErrNoInput)
	}
	cfg := c.options.cfg
	if err := cfg.Validate(); err != nil {
		return nil, newError("config", KindIO, err)
	}
	v, err := cfg.resolveVariant()
	if err != nil {
		return nil, newError("config", KindIO, err)
	}
	if err := format.CheckInput(c.filename); err != nil {
		return nil, newError("open", KindIO, err)
	}
	return &conversion{
		c:      c,
		cfg:    cfg,
		v:      v,
		logger: c.logger().With("input", filepath.Base(c.filename), "variant", v.Name),
	}, nil
}

// Parse extracts and parses the document text without rendering anything.
// Images are not associated.
func (c *Converter) Parse() ([]model.Block, []Warning, error) {
	run, err := c.prepare()
	if err != nil {
		return nil, nil, err
	}
	res, err := run.parse()
	if err != nil {
		return nil, run.warnings, err
	}
	return res.Blocks, run.warnings, nil
}

// Convert runs the whole pipeline and writes the presentation to out, which
// must end in .pptx. Page render failures, undecodable images and
// unmatched diagrams are reported in Result.Warnings. A missing renderer or
// OCR engine, a document with no recognizable questions and a question
// without options fail the conversion; no output is written then.
func (c *Converter) Convert(ctx context.Context, out string) (*Result, error) {
	start := time.Now()
	run, err := c.prepare()
	if err != nil {
		return nil, err
	}
	if err := format.CheckOutput(out); err != nil {
		return nil, newError("open", KindIO, err)
	}

	cleanup, err := run.makeScratch()
	if err != nil {
		return nil, newError("scratch", KindIO, err)
	}
	defer cleanup()

	run.logger.Info("conversion started", "output", out)

	parsed, err := run.parse()
	if err != nil {
		return nil, err
	}
	blocks := parsed.Blocks
	res := &Result{Output: out, Variant: run.v.Name, Fallback: parsed.Fallback}

	if !c.options.skipImages {
		imap, err := run.extractImages(ctx, res)
		if err != nil {
			return nil, err
		}
		for _, n := range model.Merge(blocks, imap) {
			run.warn("associate", "images found for question %d, which is not in the document", n)
		}
	}

	deck, err := layout.New(run.v, run.logger).Layout(blocks)
	if err != nil {
		return nil, newError("layout", KindRender, err)
	}
	for _, w := range deck.Warnings {
		run.warnings = append(run.warnings, Warning{Stage: "layout", Message: w.String()})
	}

	if err := ctx.Err(); err != nil {
		return nil, newError("render", KindIO, err)
	}
	if err := run.renderer().Render(deck, out); err != nil {
		return nil, newError("render", KindRender, err)
	}

	for _, b := range blocks {
		if _, ok := b.(*model.Passage); ok {
			res.Passages++
		}
	}
	res.Questions = len(model.Questions(blocks))
	res.Slides = len(deck.Slides)
	res.Images = placedImages(deck)

	// A failed extra leaves no deck behind.
	fail := func(err error) (*Result, error) {
		run.discard(append([]string{out}, res.Previews...))
		return nil, err
	}
	if c.options.previewDir != "" {
		pr, err := preview.New(c.options.previewWidth, run.logger)
		if err != nil {
			return fail(newError("preview", KindRender, err))
		}
		if res.Previews, err = pr.Render(deck, c.options.previewDir); err != nil {
			return fail(newError("preview", KindRender, err))
		}
	}

	// Warnings gathered after this point are not in the workbook.
	if path := c.options.manifestPath; path != "" {
		msgs := make([]string, len(run.warnings))
		for i, w := range run.warnings {
			msgs[i] = w.String()
		}
		m := manifest.Build(c.filename, out, run.v.Name, blocks, deck, msgs)
		if err := m.Write(path); err != nil {
			return fail(newError("manifest", KindIO, err))
		}
		res.Manifest = path
	}

	res.Warnings = run.warnings
	res.Elapsed = time.Since(start)
	run.logger.Info("conversion finished",
		"output", out,
		"questions", res.Questions,
		"slides", res.Slides,
		"images", len(res.Images),
		"warnings", len(res.Warnings),
		"elapsed", res.Elapsed.String())
	return res, nil
}

func (r *conversion) renderer() Renderer {
	if r.c.options.renderer != nil {
		return r.c.options.renderer
	}
	w := pptx.NewWriter(r.logger)
	w.Title = r.stem()
	return w
}

// stem is the input file name without its extension.
func (r *conversion) stem() string {
	return strings.TrimSuffix(filepath.Base(r.c.filename), filepath.Ext(r.c.filename))
}

// discard removes files written by a conversion that then failed.
func (r *conversion) discard(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("removing output failed", "path", p, "error", err)
		}
	}
}

// makeScratch creates a clean scratch directory and returns the function
// that removes it.
func (r *conversion) makeScratch() (func(), error) {
	dir := r.c.options.scratchDir
	if dir == "" {
		dir = filepath.Join(r.cfg.ScratchRoot, "run-"+uuid.NewString())
	}
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clearing scratch dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	r.scratch = dir
	r.logger.Debug("scratch dir ready", "dir", dir)
	return func() {
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("removing scratch dir failed", "dir", dir, "error", err)
		}
	}, nil
}

// parse extracts the document lines and runs the variant grammar, falling
// back to numbered segments when the grammar finds nothing.
func (r *conversion) parse() (*parser.Result, error) {
	doc, err := docx.Open(r.c.filename)
	if err != nil {
		return nil, newError("extract", KindParse, err)
	}
	lines := doc.Lines()
	doc.Close()
	r.logger.Debug("extracted text", "lines", len(lines))

	p, err := parser.New(r.v.Grammar, r.logger)
	if err != nil {
		return nil, newError("parse", KindIO, err)
	}
	res, err := p.Parse(lines)
	if errors.Is(err, parser.ErrNoBlocks) {
		res, err = parser.ParseFallback(lines)
	}
	if err != nil {
		return nil, newError("parse", KindParse, err)
	}

	for _, w := range res.Warnings {
		r.warnings = append(r.warnings, Warning{Stage: "parse", Message: w.String()})
	}
	if res.Fallback {
		r.warn("parse", "grammar found no questions; used numbered-segment fallback")
	}
	r.logger.Info("parsed document",
		"blocks", len(res.Blocks),
		"questions", len(res.Questions()),
		"fallback", res.Fallback)
	return res, nil
}

// extractImages renders the pages, finds question anchors and diagrams on
// each and crops the diagrams into a QuestionImageMap. A page that fails at
// any step is skipped with a warning.
func (r *conversion) extractImages(ctx context.Context, res *Result) (*model.QuestionImageMap, error) {
	imap := model.NewQuestionImageMap()

	rec := r.c.options.recognizer
	if rec == nil {
		client, err := ocr.New(r.cfg.OCRLanguage)
		if err != nil {
			return nil, newError("ocr", KindEnvironment, err)
		}
		defer client.Close()
		rec = client
	}
	detector, err := regions.New(r.v.Detection, rec, r.logger)
	if err != nil {
		return nil, newError("regions", KindIO, err)
	}
	engine := associate.New(r.v.Padding, r.logger)

	rendered, err := raster.New(r.cfg.rasterConfig(), r.logger).Rasterize(ctx, r.c.filename, r.scratch)
	switch {
	case errors.Is(err, raster.ErrConversionFailed):
		r.warn("raster", "document could not be rendered; continuing without images: %v", err)
		return imap, nil
	case err != nil:
		return nil, newError("raster", KindIO, err)
	}
	res.Pages = len(rendered.Pages)
	res.PagesExpected = rendered.Expected
	for _, n := range rendered.Failed {
		r.warn("raster", "page %d did not render; its diagrams are missing", n)
	}
	if missing := rendered.Missing(); missing > 0 {
		r.warn("raster", "rendered %d of %d pages", len(rendered.Pages), rendered.Expected)
	}

	// Crops are named by page and question only, so documents sharing a
	// diagram dir each get their own subdirectory.
	outDir := filepath.Join(r.scratch, "diagrams")
	if r.cfg.DiagramDir != "" {
		outDir = filepath.Join(r.cfg.DiagramDir, r.stem())
		if err := os.RemoveAll(outDir); err != nil {
			return nil, newError("associate", KindIO, fmt.Errorf("clearing diagram dir: %w", err))
		}
	}
	for _, page := range rendered.Pages {
		if err := ctx.Err(); err != nil {
			return nil, newError("regions", KindIO, err)
		}
		img, err := imaging.Open(page.Path)
		if err != nil {
			r.warn("regions", "page %d image unreadable: %v", page.Number, err)
			continue
		}
		found, err := detector.Detect(img)
		if err != nil {
			r.warn("regions", "page %d: %v", page.Number, err)
			continue
		}
		if _, err := engine.Associate(page.Number, found, img, outDir, imap); err != nil {
			r.warn("associate", "page %d: %v", page.Number, err)
		}
	}
	r.logger.Info("extracted diagrams", "questions", imap.Len(), "images", imap.Total())
	return imap, nil
}

// placedImages lists the question diagrams on the deck's slides in order.
func placedImages(deck *layout.Deck) []string {
	var paths []string
	for _, s := range deck.Slides {
		for _, p := range s.Pictures() {
			if p.Role() == layout.RoleContent {
				paths = append(paths, p.Path)
			}
		}
	}
	return paths
}
