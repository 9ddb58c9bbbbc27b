package quizdeck

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/quizdeck/ocr"
	"github.com/tsawler/quizdeck/raster"
	"github.com/tsawler/quizdeck/variant"
)

// Continuation budget bounds, in runes per passage slide.
const (
	MinCharsPerSlide = 550
	MaxCharsPerSlide = 800
)

// Config holds the settings of a conversion that are not part of a variant
// template. Zero fields keep the variant's or the renderer's default.
type Config struct {
	// Variant names a built-in template. VariantFile, when set, overlays a
	// YAML file on its own `base` instead.
	Variant     string `json:"variant" yaml:"variant"`
	VariantFile string `json:"variant_file" yaml:"variant_file"`

	// ScratchRoot holds one run-<uuid> directory per conversion.
	ScratchRoot string `json:"scratch_root" yaml:"scratch_root"`

	// Passage pagination budgets in runes.
	CharsPerSlide int `json:"chars_per_slide" yaml:"chars_per_slide"`
	FirstBudget   int `json:"first_budget" yaml:"first_budget"`

	// Page rendering
	DPI           int           `json:"dpi" yaml:"dpi"`
	SofficePath   string        `json:"soffice_path" yaml:"soffice_path"`
	PdftoppmPath  string        `json:"pdftoppm_path" yaml:"pdftoppm_path"`
	RenderTimeout time.Duration `json:"render_timeout" yaml:"render_timeout"`

	OCRLanguage string `json:"ocr_language" yaml:"ocr_language"`

	// Logo and Watermark replace the image paths of the variant's chrome.
	Logo      string `json:"logo" yaml:"logo"`
	Watermark string `json:"watermark" yaml:"watermark"`

	// DiagramDir keeps the cropped diagrams after the run, each document's
	// under a subdirectory named after the input file's stem. When empty
	// they live in the scratch directory and are removed with it.
	DiagramDir string `json:"diagram_dir" yaml:"diagram_dir"`
}

// DefaultConfig returns the settings used by Open.
func DefaultConfig() Config {
	return Config{
		Variant:       variant.Default,
		ScratchRoot:   os.TempDir(),
		DPI:           raster.DefaultDPI,
		SofficePath:   "soffice",
		PdftoppmPath:  "pdftoppm",
		RenderTimeout: 5 * time.Minute,
		OCRLanguage:   ocr.DefaultLanguage,
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Environment
// variables in the file are expanded.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.CharsPerSlide != 0 && (c.CharsPerSlide < MinCharsPerSlide || c.CharsPerSlide > MaxCharsPerSlide) {
		return fmt.Errorf("%w: chars_per_slide %d outside %d-%d", ErrInvalidConfig, c.CharsPerSlide, MinCharsPerSlide, MaxCharsPerSlide)
	}
	if c.FirstBudget < 0 {
		return fmt.Errorf("%w: first_budget %d is negative", ErrInvalidConfig, c.FirstBudget)
	}
	if c.DPI < 0 {
		return fmt.Errorf("%w: dpi %d is negative", ErrInvalidConfig, c.DPI)
	}
	if c.RenderTimeout < 0 {
		return fmt.Errorf("%w: render_timeout %s is negative", ErrInvalidConfig, c.RenderTimeout)
	}
	return nil
}

// resolveVariant loads the template and applies the config's overrides.
func (c Config) resolveVariant() (*variant.Variant, error) {
	var (
		v   *variant.Variant
		err error
	)
	if c.VariantFile != "" {
		v, err = variant.Load(c.VariantFile)
	} else {
		v, err = variant.Lookup(c.Variant)
	}
	if err != nil {
		return nil, err
	}

	p := &v.Layout.Passage
	if c.CharsPerSlide > 0 {
		p.Budget = c.CharsPerSlide
	}
	if c.FirstBudget > 0 {
		p.FirstBudget = c.FirstBudget
	}

	ch := &v.Layout.Chrome
	if c.Logo != "" {
		if ch.Logo == nil {
			ch.Logo = &variant.Picture{Left: 0.2, Top: 0.2, Width: 1.2}
		}
		ch.Logo.Path = c.Logo
	}
	if c.Watermark != "" {
		if ch.Watermark == nil {
			ch.Watermark = defaultWatermark(v.Layout)
		}
		ch.Watermark.Path = c.Watermark
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// defaultWatermark centres a watermark in the decoration column left of the
// content, at most 4in wide.
func defaultWatermark(l variant.Layout) *variant.Picture {
	column := l.ContentLeft * l.Width
	w := min(4, column-0.4)
	return &variant.Picture{Left: (column - w) / 2, Top: l.Height/2 - w/2, Width: w}
}

func (c Config) rasterConfig() raster.Config {
	return raster.Config{
		SofficePath:  c.SofficePath,
		PdftoppmPath: c.PdftoppmPath,
		DPI:          c.DPI,
		Timeout:      c.RenderTimeout,
	}
}
