// Package raster renders a Word document to one PNG per page.
//
// Rendering goes through two system binaries: LibreOffice (soffice) converts
// the document to PDF, and poppler's pdftoppm rasterizes each page of that
// PDF. Both must be on PATH; their absence is reported as
// ErrRendererUnavailable and is not retried.
package raster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Common errors
var (
	ErrRendererUnavailable = errors.New("document renderer unavailable")
	ErrConversionFailed    = errors.New("document to PDF conversion failed")
)

// DefaultDPI is the render resolution used for OCR.
const DefaultDPI = 300

// Config configures a Rasterizer.
type Config struct {
	SofficePath  string
	PdftoppmPath string
	DPI          int
	// Timeout bounds each subprocess invocation.
	Timeout time.Duration
}

// DefaultConfig returns the binary names and limits used when a field is
// left zero.
func DefaultConfig() Config {
	return Config{
		SofficePath:  "soffice",
		PdftoppmPath: "pdftoppm",
		DPI:          DefaultDPI,
		Timeout:      5 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SofficePath == "" {
		c.SofficePath = d.SofficePath
	}
	if c.PdftoppmPath == "" {
		c.PdftoppmPath = d.PdftoppmPath
	}
	if c.DPI <= 0 {
		c.DPI = d.DPI
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// Page is one rendered page image.
type Page struct {
	Number int // 1-based
	Path   string
}

// Result describes a rasterization run.
type Result struct {
	PDFPath string
	Pages   []Page
	// Expected is the page count of the intermediate PDF.
	Expected int
	// Failed lists the page numbers that could not be rendered.
	Failed []int
}

// Missing returns how many pages were expected but not rendered.
func (r *Result) Missing() int {
	return r.Expected - len(r.Pages)
}

// Rasterizer turns documents into page images.
type Rasterizer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Rasterizer. A nil logger discards output.
func New(cfg Config, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Rasterizer{cfg: cfg.withDefaults(), logger: logger.With("stage", "raster")}
}

// Config returns the effective configuration.
func (r *Rasterizer) Config() Config {
	return r.cfg
}

// CheckEnvironment verifies both binaries are available.
func (r *Rasterizer) CheckEnvironment() error {
	for _, bin := range []string{r.cfg.SofficePath, r.cfg.PdftoppmPath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%w: missing required binary %q in PATH: %v", ErrRendererUnavailable, bin, err)
		}
	}
	return nil
}

// Rasterize converts docxPath to PDF under scratchDir/pdf and renders each
// page to scratchDir/pages. A page that fails to render is logged, recorded
// in Result.Failed and skipped.
func (r *Rasterizer) Rasterize(ctx context.Context, docxPath, scratchDir string) (*Result, error) {
	if err := r.CheckEnvironment(); err != nil {
		return nil, err
	}

	pdfDir := filepath.Join(scratchDir, "pdf")
	pagesDir := filepath.Join(scratchDir, "pages")
	for _, dir := range []string{pdfDir, pagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	start := time.Now()
	pdfPath, err := r.convertToPDF(ctx, docxPath, pdfDir, scratchDir)
	if err != nil {
		return nil, err
	}

	n, err := PageCount(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	r.logger.Info("converted to PDF", "pages", n, "elapsed", time.Since(start).String())

	res := &Result{PDFPath: pdfPath, Expected: n}
	for page := 1; page <= n; page++ {
		path, err := r.renderPage(ctx, pdfPath, pagesDir, page)
		if err != nil {
			r.logger.Warn("page render failed; skipping", "page", page, "error", err)
			res.Failed = append(res.Failed, page)
			continue
		}
		res.Pages = append(res.Pages, Page{Number: page, Path: path})
	}
	r.logger.Info("rasterized pages", "rendered", len(res.Pages), "expected", n, "dpi", r.cfg.DPI)
	return res, nil
}

func (r *Rasterizer) convertToPDF(ctx context.Context, docxPath, outDir, scratchDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	// LibreOffice locks its user profile; each run gets its own.
	profile, err := filepath.Abs(filepath.Join(scratchDir, "lo-profile"))
	if err != nil {
		return "", fmt.Errorf("resolving profile dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.cfg.SofficePath,
		"-env:UserInstallation=file://"+filepath.ToSlash(profile),
		"--headless",
		"--nologo",
		"--nolockcheck",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		docxPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: soffice: %v; out=%s", ErrConversionFailed, err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%w: pdf output not found at %s; out=%s", ErrConversionFailed, pdfPath, strings.TrimSpace(string(out)))
	}
	return pdfPath, nil
}

func (r *Rasterizer) renderPage(ctx context.Context, pdfPath, outDir string, page int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	prefix := filepath.Join(outDir, fmt.Sprintf("page-%03d", page))
	cmd := exec.CommandContext(ctx, r.cfg.PdftoppmPath,
		"-png",
		"-r", strconv.Itoa(r.cfg.DPI),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-singlefile",
		pdfPath,
		prefix,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w; out=%s", err, strings.TrimSpace(string(out)))
	}

	path := prefix + ".png"
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}
	return path, nil
}

// PageCount reads the number of pages in a PDF file.
func PageCount(path string) (n int, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reading %s: %v", path, p)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}
