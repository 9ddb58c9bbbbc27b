// Package variant holds the per-template configuration tables that drive one
// parameterized pipeline: the parser grammar, slide geometry and styling,
// diagram detection thresholds and crop padding.
//
// Four templates are built in (mcq1, mcq2, mcq3, passage). A YAML file can
// overlay any of them:
//
//	v, err := variant.Load("house-style.yaml")
//
// where the file names its base with `base: mcq1` and overrides only the
// fields it sets.
package variant

import (
	"errors"
	"fmt"
)

// Variant is one template's complete configuration.
type Variant struct {
	Name      string    `yaml:"name"`
	Grammar   Grammar   `yaml:"grammar"`
	Layout    Layout    `yaml:"layout"`
	Detection Detection `yaml:"detection"`
	Padding   Padding   `yaml:"padding"`
}

// Grammar is the set of line patterns the block parser matches. Patterns are
// RE2 regular expressions; markers are case-insensitive substrings.
type Grammar struct {
	// DirectionMarkers open a direction that applies to subsequent questions.
	DirectionMarkers []string `yaml:"direction_markers"`

	// QuestionPattern matches a question line; group 1 is the number. The
	// whole match is stripped from the body.
	QuestionPattern string `yaml:"question_pattern"`

	// OptionPatterns match an option line while a question is open.
	OptionPatterns []string `yaml:"option_patterns"`

	// InlineOptions splits "(1) a (2) b" runs found on question or option
	// lines into separate options.
	InlineOptions bool `yaml:"inline_options"`

	// ArrangementMarkers start a pending arrangement for the next question.
	ArrangementMarkers []string `yaml:"arrangement_markers"`

	// ArrangementLinePatterns recognize arrangement content lines.
	ArrangementLinePatterns []string `yaml:"arrangement_line_patterns"`

	// DiscardPatterns and DiscardWords drop table artifacts from bodies.
	DiscardPatterns []string `yaml:"discard_patterns"`
	DiscardWords    []string `yaml:"discard_words"`

	// MaxPipeCells drops pipe-delimited rows with more cells. Zero disables.
	MaxPipeCells int `yaml:"max_pipe_cells"`

	// PassageMarker opens a passage. Empty disables passage parsing.
	PassageMarker string `yaml:"passage_marker"`

	// PassageBreak is the number of consecutive blank lines that end a
	// passage body and begin its question block.
	PassageBreak int `yaml:"passage_break"`

	// PassageQuestionPattern splits a passage's question block; group 1 is
	// the number.
	PassageQuestionPattern string `yaml:"passage_question_pattern"`
}

// Color is an RGB color. In YAML it is written as "#RRGGBB".
type Color struct {
	R, G, B uint8
}

// Hex returns the color as RRGGBB without a leading '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Common colors.
var (
	Black  = Color{0, 0, 0}
	White  = Color{255, 255, 255}
	Yellow = Color{255, 255, 0}
	Red    = Color{255, 0, 0}
)

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft    Align = "left"
	AlignRight   Align = "right"
	AlignCenter  Align = "center"
	AlignJustify Align = "justify"
)

// TextStyle describes one paragraph style. Size is in points.
type TextStyle struct {
	Font  string  `yaml:"font"`
	Size  float64 `yaml:"size"`
	Color Color   `yaml:"color"`
	Bold  bool    `yaml:"bold"`
	Align Align   `yaml:"align"`
}

// Box is a rectangle in inches from the slide's top-left corner.
type Box struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Layout is the slide geometry and styling of a template. Lengths are in
// inches unless noted.
type Layout struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Background Color   `yaml:"background"`

	// ContentLeft and ContentWidth are fractions of the slide width. The
	// content column must start at or right of 40%.
	ContentLeft  float64 `yaml:"content_left"`
	ContentWidth float64 `yaml:"content_width"`

	Question    QuestionLayout    `yaml:"question"`
	Arrangement ArrangementLayout `yaml:"arrangement"`
	Passage     PassageLayout     `yaml:"passage"`
	Images      ImageLayout       `yaml:"images"`
	Chrome      Chrome            `yaml:"chrome"`
	Title       *TitleSlide       `yaml:"title"`
}

// QuestionLayout places question slides.
type QuestionLayout struct {
	// Top is the text top on ordinary slides; FirstTop applies to a slide
	// that carries a heading or the directive.
	Top          float64 `yaml:"top"`
	FirstTop     float64 `yaml:"first_top"`
	BottomMargin float64 `yaml:"bottom_margin"`

	Body    TextStyle `yaml:"body"`
	Option  TextStyle `yaml:"option"`
	Heading TextStyle `yaml:"heading"`

	// Directive is fixed text shown on the first slide of the deck.
	Directive      string    `yaml:"directive"`
	DirectiveStyle TextStyle `yaml:"directive_style"`
	DirectiveTop   float64   `yaml:"directive_top"`

	// NumberPrefix renders "N. " before the body.
	NumberPrefix bool `yaml:"number_prefix"`
}

// ArrangementLayout controls separate arrangement slides.
type ArrangementLayout struct {
	// OwnSlide places arrangement text on a slide preceding its question.
	// When false the arrangement is rendered above the question body.
	OwnSlide bool      `yaml:"own_slide"`
	Top      float64   `yaml:"top"` // fraction of slide height
	Height   float64   `yaml:"height"`
	Style    TextStyle `yaml:"style"`
}

// PassageLayout controls passage body and passage question slides.
type PassageLayout struct {
	Top        float64 `yaml:"top"`          // first chunk, below the title
	TopNoTitle float64 `yaml:"top_no_title"` // continuation chunks
	Height     float64 `yaml:"height"`

	Body      TextStyle `yaml:"body"`
	Title     TextStyle `yaml:"title"`
	Direction TextStyle `yaml:"direction"`
	TitleTop  float64   `yaml:"title_top"`

	// FirstBudget and Budget are rune budgets for the first and every
	// continuation chunk.
	FirstBudget int `yaml:"first_budget"`
	Budget      int `yaml:"budget"`

	Continued      string    `yaml:"continued"`
	ContinuedBox   Box       `yaml:"continued_box"`
	ContinuedStyle TextStyle `yaml:"continued_style"`

	QuestionBox   Box       `yaml:"question_box"`
	QuestionStyle TextStyle `yaml:"question_style"`
}

// ImageLayout bounds the region reserved for question diagrams.
type ImageLayout struct {
	MaxHeight float64 `yaml:"max_height"`
	// SideMargin is split evenly between both sides of the content column.
	SideMargin float64 `yaml:"side_margin"`
	// BottomOffset places the region's top this far above the text box
	// bottom.
	BottomOffset float64 `yaml:"bottom_offset"`
	Gap          float64 `yaml:"gap"`
	// MaxAspect rejects crops wider than MaxAspect:1 or taller than 1:MaxAspect.
	MaxAspect float64 `yaml:"max_aspect"`
}

// Chrome is decoration applied after content on every content slide.
type Chrome struct {
	Border    *Border  `yaml:"border"`
	Logo      *Picture `yaml:"logo"`
	Watermark *Picture `yaml:"watermark"`
}

// Border draws a bar at the top and bottom of the slide. Starts and lengths
// are fractions of the slide width.
type Border struct {
	Color        Color   `yaml:"color"`
	Thickness    float64 `yaml:"thickness"`
	TopStart     float64 `yaml:"top_start"`
	TopLength    float64 `yaml:"top_length"`
	BottomStart  float64 `yaml:"bottom_start"`
	BottomLength float64 `yaml:"bottom_length"`
}

// Picture is a decorative image. Height zero keeps the file's aspect.
type Picture struct {
	Path   string  `yaml:"path"`
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TitleSlide is an opening slide.
type TitleSlide struct {
	Title         string    `yaml:"title"`
	Subtitle      string    `yaml:"subtitle"`
	TitleStyle    TextStyle `yaml:"title_style"`
	SubtitleStyle TextStyle `yaml:"subtitle_style"`
}

// Detection holds the region detector thresholds.
type Detection struct {
	// AnchorPasses is the preprocessing order for OCR passes: any of
	// "adaptive", "clahe", "gray".
	AnchorPasses []string `yaml:"anchor_passes"`
	MinAnchors   int      `yaml:"min_anchors"`

	MinArea         float64 `yaml:"min_area"`
	MinSide         int     `yaml:"min_side"`
	MinAspect       float64 `yaml:"min_aspect"`
	MaxAspect       float64 `yaml:"max_aspect"`
	MinSolidity     float64 `yaml:"min_solidity"`
	MaxPageFraction float64 `yaml:"max_page_fraction"`
	ApproxEpsilon   float64 `yaml:"approx_epsilon"`

	BlurSigma     float64 `yaml:"blur_sigma"`
	ThresholdSize int     `yaml:"threshold_size"`
	ThresholdC    int     `yaml:"threshold_c"`
	CloseKernel   int     `yaml:"close_kernel"`
}

// Padding is the crop margin in pixels per shape class.
type Padding struct {
	Circular    int `yaml:"circular"`
	Rectangular int `yaml:"rectangular"`
}

// Validation errors.
var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrInvalidVariant = errors.New("invalid variant")
)

// MinContentLeft is the left edge of the content column as a fraction of the
// slide width. Everything left of it belongs to chrome.
const MinContentLeft = 0.4

// Validate checks the invariants every template must keep.
func (v *Variant) Validate() error {
	var errs []error
	l := v.Layout
	if l.Width <= 0 || l.Height <= 0 {
		errs = append(errs, fmt.Errorf("slide size %.2fx%.2f", l.Width, l.Height))
	}
	if l.ContentLeft < MinContentLeft {
		errs = append(errs, fmt.Errorf("content column starts at %.0f%%, must be at least %.0f%%", l.ContentLeft*100, MinContentLeft*100))
	}
	if l.ContentWidth <= 0 || l.ContentLeft+l.ContentWidth > 1 {
		errs = append(errs, fmt.Errorf("content column %.2f+%.2f exceeds the slide", l.ContentLeft, l.ContentWidth))
	}
	if v.Grammar.QuestionPattern == "" {
		errs = append(errs, errors.New("question pattern is empty"))
	}
	if v.Grammar.PassageMarker != "" && v.Grammar.PassageBreak <= 0 {
		errs = append(errs, errors.New("passage break must be positive"))
	}
	if p := l.Passage; v.Grammar.PassageMarker != "" && (p.FirstBudget <= 0 || p.Budget <= 0) {
		errs = append(errs, errors.New("passage budgets must be positive"))
	}
	if p := l.Passage; v.Grammar.PassageMarker != "" {
		edge := MinContentLeft * l.Width
		if p.ContinuedBox.Left < edge {
			errs = append(errs, fmt.Errorf("continued footer at %.2fin is left of the content column", p.ContinuedBox.Left))
		}
		if p.QuestionBox.Width > 0 && p.QuestionBox.Left < edge {
			errs = append(errs, fmt.Errorf("passage question box at %.2fin is left of the content column", p.QuestionBox.Left))
		}
	}
	edge := l.ContentLeft * l.Width
	for _, d := range []struct {
		name string
		p    *Picture
	}{{"logo", l.Chrome.Logo}, {"watermark", l.Chrome.Watermark}} {
		if d.p == nil {
			continue
		}
		if d.p.Width <= 0 {
			errs = append(errs, fmt.Errorf("%s width must be positive", d.name))
		} else if right := d.p.Left + d.p.Width; right > edge {
			errs = append(errs, fmt.Errorf("%s ends at %.2fin, past the content column at %.2fin", d.name, right, edge))
		}
	}
	if v.Padding.Circular == v.Padding.Rectangular {
		errs = append(errs, fmt.Errorf("circular and rectangular padding must differ (both %d)", v.Padding.Circular))
	}
	if l.Images.MaxAspect < 1 {
		errs = append(errs, fmt.Errorf("image max aspect %.2f below 1", l.Images.MaxAspect))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidVariant, v.Name, errors.Join(errs...))
	}
	return nil
}

// Clone returns a deep copy.
func (v *Variant) Clone() *Variant {
	c := *v
	g := &c.Grammar
	g.DirectionMarkers = cloneStrings(g.DirectionMarkers)
	g.OptionPatterns = cloneStrings(g.OptionPatterns)
	g.ArrangementMarkers = cloneStrings(g.ArrangementMarkers)
	g.ArrangementLinePatterns = cloneStrings(g.ArrangementLinePatterns)
	g.DiscardPatterns = cloneStrings(g.DiscardPatterns)
	g.DiscardWords = cloneStrings(g.DiscardWords)
	c.Detection.AnchorPasses = cloneStrings(c.Detection.AnchorPasses)

	ch := &c.Layout.Chrome
	if ch.Border != nil {
		b := *ch.Border
		ch.Border = &b
	}
	if ch.Logo != nil {
		p := *ch.Logo
		ch.Logo = &p
	}
	if ch.Watermark != nil {
		p := *ch.Watermark
		ch.Watermark = &p
	}
	if c.Layout.Title != nil {
		t := *c.Layout.Title
		c.Layout.Title = &t
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
